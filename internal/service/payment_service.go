package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carbooking/internal/booking"
	"carbooking/internal/db"
	"carbooking/internal/entities"
	"carbooking/internal/session"
)

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	CreateCheckoutSession(amountCents int64, currency, description string, userID int64) (string, error)
	RefundBySessionID(sessionID string) error
}

// Committer persists completed reservations with an authoritative conflict
// check.
type Committer interface {
	CommitReservation(res *db.Reservation) error
}

// SessionFinisher returns a suspended session to rest after its terminal
// payment outcome.
type SessionFinisher interface {
	FinishPayment(userID int64)
}

// UserStore looks up registered users for notifications.
type UserStore interface {
	GetUser(id int64) (*db.User, error)
}

// VehicleLookup resolves vehicles for notification texts.
type VehicleLookup interface {
	Vehicle(id int64) (*db.Vehicle, error)
}

const paymentCurrency = "eur"

// PaymentService initiates payments and reacts to their terminal outcomes.
// It is the only writer of completed reservations.
type PaymentService struct {
	pending  *session.PendingStore
	store    Committer
	gateway  PaymentGateway
	users    UserStore
	catalog  VehicleLookup
	notify   *NotifyService
	sessions SessionFinisher
}

func NewPaymentService(pending *session.PendingStore, store Committer, gateway PaymentGateway,
	users UserStore, catalog VehicleLookup, notify *NotifyService) *PaymentService {
	return &PaymentService{
		pending: pending,
		store:   store,
		gateway: gateway,
		users:   users,
		catalog: catalog,
		notify:  notify,
	}
}

// SetSessionFinisher wires the orchestrator in after construction; the two
// reference each other and one has to go second.
func (s *PaymentService) SetSessionFinisher(f SessionFinisher) {
	s.sessions = f
}

// InitiatePayment requests a checkout for the staged amount and returns the
// URL the user completes it at. The amount is rounded to whole cents;
// truncating would undercharge whenever a price carries sub-cent precision.
func (s *PaymentService) InitiatePayment(userID int64, amount decimal.Decimal, description string) (string, error) {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return s.gateway.CreateCheckoutSession(cents, paymentCurrency, description, userID)
}

// HandlePaymentResult consumes the provider's single terminal callback. On
// success the staged snapshot is committed; a commit-time conflict means
// money was collected for a lost slot, so a refund is issued and
// booking.ErrRefundRequired surfaced rather than swallowed. A callback with
// no snapshot behind it is a duplicate delivery and changes nothing.
func (s *PaymentService) HandlePaymentResult(result entities.PaymentResult, providerRef string) error {
	snap, ok := s.pending.Take(result.UserID)
	if !ok {
		return booking.ErrStaleReservation
	}
	defer func() {
		if s.sessions != nil {
			s.sessions.FinishPayment(result.UserID)
		}
	}()

	if result.Outcome != entities.PaymentSucceeded {
		log.Printf("Payment for user %d failed, discarding staged reservation for vehicle %d", result.UserID, snap.VehicleID)
		return nil
	}

	if !result.AmountPaid.Equal(snap.TotalPrice) {
		log.Printf("Payment amount %s for user %d differs from staged total %s",
			result.AmountPaid.StringFixed(2), result.UserID, snap.TotalPrice.StringFixed(2))
	}

	now := time.Now().UTC()
	reservation := &db.Reservation{
		Code:          uuid.NewString(),
		UserID:        snap.UserID,
		VehicleID:     snap.VehicleID,
		StartDate:     snap.Dates.Start,
		EndDate:       snap.Dates.End,
		TotalPrice:    snap.TotalPrice,
		PaymentStatus: db.StatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.store.CommitReservation(reservation)
	if errors.Is(err, booking.ErrReservationConflict) {
		if refundErr := s.gateway.RefundBySessionID(providerRef); refundErr != nil {
			log.Printf("Refund for user %d failed, manual intervention required: %v", result.UserID, refundErr)
		}
		return fmt.Errorf("%w: user %d, vehicle %d, %s",
			booking.ErrRefundRequired, snap.UserID, snap.VehicleID, snap.Dates)
	}
	if err != nil {
		return fmt.Errorf("error committing reservation for user %d: %w", result.UserID, err)
	}

	s.notifyConfirmed(reservation)
	return nil
}

func (s *PaymentService) notifyConfirmed(res *db.Reservation) {
	if s.notify == nil {
		return
	}
	user, err := s.users.GetUser(res.UserID)
	if err != nil || user == nil {
		log.Printf("Could not load user %d for confirmation notice: %v", res.UserID, err)
		return
	}
	vehicle, err := s.catalog.Vehicle(res.VehicleID)
	if err != nil || vehicle == nil {
		log.Printf("Could not load vehicle %d for confirmation notice: %v", res.VehicleID, err)
		return
	}
	go s.notify.SendReservationConfirmed(user, vehicle, res)
}
