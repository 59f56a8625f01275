package payments

import (
	"context"
	"fmt"

	"servana/config"
	"servana/models"
	"servana/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// PaymentProcessor abstracts the payment gateway so the booking service can
// be tested without Stripe.
type PaymentProcessor interface {
	// CreateIntent opens a payment intent for the booking total and returns
	// the gateway's intent id.
	CreateIntent(ctx context.Context, booking *models.Booking) (string, error)
	// Refund issues a partial or full refund against the booking's intent.
	Refund(ctx context.Context, paymentIntentID string, amountCents int64) error
}

// StripeProcessor is the production PaymentProcessor backed by Stripe
// payment intents.
type StripeProcessor struct{}

func NewStripeProcessor() *StripeProcessor {
	stripe.Key = config.AppConfig.StripeKey
	return &StripeProcessor{}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, booking *models.Booking) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(booking.TotalAmountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", booking.ID)
	params.AddMetadata("customer_id", booking.CustomerID)
	params.AddMetadata("provider_id", booking.ProviderID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	utils.GetLogger().Info("payment intent created",
		zap.String("bookingID", booking.ID),
		zap.String("intentID", pi.ID),
		zap.Int64("amountCents", booking.TotalAmountCents))
	return pi.ID, nil
}

func (p *StripeProcessor) Refund(ctx context.Context, paymentIntentID string, amountCents int64) error {
	if paymentIntentID == "" || amountCents <= 0 {
		return nil
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Amount:        stripe.Int64(amountCents),
	}
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to refund intent %s: %w", paymentIntentID, err)
	}
	return nil
}
