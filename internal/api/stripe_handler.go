package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"carbooking/internal/booking"
	"carbooking/internal/entities"
	"carbooking/internal/service"
)

// StripeWebhookHandler turns Stripe's checkout events into the one
// terminal payment result the booking engine consumes.
type StripeWebhookHandler struct {
	StripeSecret   string
	PaymentService *service.PaymentService
}

func NewStripeWebhookHandler(stripeSecret string, paymentService *service.PaymentService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret:   stripeSecret,
		PaymentService: paymentService,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.deliverOutcome(w, event, entities.PaymentSucceeded)
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		h.deliverOutcome(w, event, entities.PaymentFailed)
	default:
		log.Printf("Unhandled event type: %s", event.Type)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *StripeWebhookHandler) deliverOutcome(w http.ResponseWriter, event stripe.Event, outcome string) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		log.Printf("Error parsing checkout session: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	userID, err := strconv.ParseInt(sess.Metadata["user_id"], 10, 64)
	if err != nil {
		log.Printf("Checkout session %s has no usable user_id metadata", sess.ID)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result := entities.PaymentResult{
		UserID:     userID,
		AmountPaid: decimal.New(sess.AmountTotal, -2),
		Outcome:    outcome,
	}

	err = h.PaymentService.HandlePaymentResult(result, sess.ID)
	switch {
	case errors.Is(err, booking.ErrStaleReservation):
		// Duplicate or late delivery; acknowledged so Stripe stops retrying.
		log.Printf("Stale payment callback for user %d, session %s", userID, sess.ID)
	case errors.Is(err, booking.ErrRefundRequired):
		log.Printf("REFUND REQUIRED: %v", err)
	case err != nil:
		log.Printf("Error handling payment result for user %d: %v", userID, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
