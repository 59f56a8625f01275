package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineIdenticalPointsAreExactlyZero(t *testing.T) {
	assert.Zero(t, Haversine(51.5074, -0.1278, 51.5074, -0.1278))
	assert.Zero(t, Haversine(0, 0, 0, 0))
}

func TestHaversineKnownDistance(t *testing.T) {
	// London to Paris is roughly 344 km great-circle.
	d := Haversine(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344, d, 2)
}

func TestHaversineSymmetry(t *testing.T) {
	a := Haversine(40.7128, -74.0060, 34.0522, -118.2437)
	b := Haversine(34.0522, -118.2437, 40.7128, -74.0060)
	assert.Equal(t, a, b)
	assert.Greater(t, a, 3900.0) // NYC to LA ~3936 km
	assert.Less(t, a, 4000.0)
}
