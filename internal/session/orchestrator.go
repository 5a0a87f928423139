package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"carbooking/internal/entities"
)

// PaymentInitiator requests a payment from the external provider and
// returns the URL the user completes it at.
type PaymentInitiator interface {
	InitiatePayment(userID int64, amount decimal.Decimal, description string) (string, error)
}

// Orchestrator routes user events to the right session, creating one lazily
// on first contact, and translates machine failures into transport replies.
// At most one session exists per user.
type Orchestrator struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	inventory Inventory
	pending   *PendingStore
	payments  PaymentInitiator
}

func NewOrchestrator(inventory Inventory, pending *PendingStore, payments PaymentInitiator) *Orchestrator {
	return &Orchestrator{
		sessions:  make(map[int64]*Session),
		inventory: inventory,
		pending:   pending,
		payments:  payments,
	}
}

func (o *Orchestrator) session(userID int64) *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[userID]
	if !ok {
		s = newSession(userID)
		o.sessions[userID] = s
	}
	return s
}

// State reports the user's current session state, Idle for users the
// orchestrator has never seen.
func (o *Orchestrator) State(userID int64) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.sessions[userID]; ok {
		return s.State()
	}
	return StateIdle
}

// Browse opens the catalog for the user.
func (o *Orchestrator) Browse(userID int64) *entities.Reply {
	o.session(userID).Browse()
	return &entities.Reply{Text: "Choose a vehicle from the catalog."}
}

// Select starts a booking cycle for the given vehicle.
func (o *Orchestrator) Select(userID, vehicleID int64) (*entities.Reply, error) {
	v, err := o.inventory.Vehicle(vehicleID)
	if err != nil {
		return nil, err
	}
	s := o.session(userID)
	if err := s.Select(v); err != nil {
		return nil, err
	}
	return &entities.Reply{
		Text: fmt.Sprintf("You selected %s %s (%s/day). Send your dates as DD.MM.YYYY-DD.MM.YYYY.",
			v.Brand, v.Model, v.PricePerDay.StringFixed(2)),
	}, nil
}

// SubmitDates runs the candidate range through the session's guards. On a
// validation or conflict error the session stays resumable and the caller
// should prompt the user to send new dates.
func (o *Orchestrator) SubmitDates(userID int64, text string) (*entities.Reply, error) {
	quote, err := o.session(userID).SubmitDates(o.inventory, text, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &entities.Reply{
		Text: fmt.Sprintf("%s %s from %s: %d days, total %s. Confirm to proceed to payment.",
			quote.Vehicle.Brand, quote.Vehicle.Model, quote.Dates, quote.Days, quote.Total.StringFixed(2)),
		Choices: []entities.Choice{
			{Label: "Pay", Data: "confirm"},
			{Label: "Cancel", Data: "cancel"},
		},
	}, nil
}

// Confirm stages the pending reservation and asks the payment provider for
// a checkout URL. If initiation fails the stage is rolled back and the
// session returns to Confirming so the user can retry.
func (o *Orchestrator) Confirm(userID int64) (*entities.Reply, error) {
	s := o.session(userID)
	snap, err := s.Confirm(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	o.pending.Stage(*snap)

	description := fmt.Sprintf("Vehicle booking %s", snap.Dates)
	url, err := o.payments.InitiatePayment(userID, snap.TotalPrice, description)
	if err != nil {
		o.pending.Drop(userID)
		s.AbortPaymentInit()
		return nil, fmt.Errorf("error initiating payment for user %d: %w", userID, err)
	}
	return &entities.Reply{
		Text:       fmt.Sprintf("Complete the payment of %s to confirm your booking.", snap.TotalPrice.StringFixed(2)),
		PaymentURL: url,
	}, nil
}

// Cancel aborts whatever is in flight, including a staged pending
// reservation, and returns the session to rest. Always legal.
func (o *Orchestrator) Cancel(userID int64) *entities.Reply {
	o.session(userID).Cancel()
	o.pending.Drop(userID)
	return &entities.Reply{Text: "Booking cancelled."}
}

// FinishPayment returns a suspended session to rest once its terminal
// payment outcome has been handled. Driven by the payment callback, never
// by the user.
func (o *Orchestrator) FinishPayment(userID int64) {
	o.mu.Lock()
	s, ok := o.sessions[userID]
	o.mu.Unlock()
	if ok {
		s.FinishPayment()
	}
}
