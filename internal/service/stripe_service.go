package service

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

// StripeService implements PaymentGateway over Stripe Checkout.
type StripeService struct {
	successURL string
	cancelURL  string
}

func NewStripeService(apiKey, successURL, cancelURL string) *StripeService {
	stripe.Key = apiKey
	return &StripeService{successURL: successURL, cancelURL: cancelURL}
}

// CreateCheckoutSession opens a single-item checkout for the booking. The
// user id travels in the session metadata so the webhook can route the
// outcome back to the right pending reservation.
func (s *StripeService) CreateCheckoutSession(amountCents int64, currency, description string, userID int64) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", userID))

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("error creating checkout session: %w", err)
	}
	return sess.URL, nil
}

// RefundBySessionID refunds the payment behind a completed checkout session.
func (s *StripeService) RefundBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return fmt.Errorf("error fetching checkout session %s: %w", sessionID, err)
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	_, err = refund.New(params)
	return err
}
