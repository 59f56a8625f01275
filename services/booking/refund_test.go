package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefundAmountCents(t *testing.T) {
	cases := []struct {
		name  string
		hours float64
		total int64
		want  int64
	}{
		{"well in advance", 48, 12000, 12000},
		{"exactly 24h keeps full refund", 24, 12000, 12000},
		{"inside the half-refund band", 5, 12000, 6000},
		{"exactly 2h keeps half refund", 2, 12000, 6000},
		{"last minute", 0.5, 12000, 0},
		{"already started", -1, 12000, 0},
		{"odd cents truncate", 30, 101, 101},
		{"odd cents halve down", 5, 101, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RefundAmountCents(tc.hours, tc.total))
		})
	}
}
