package session

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"carbooking/internal/booking"
	"carbooking/internal/db"
	"carbooking/internal/entities"
)

// State tags the progress of a user's in-flight booking.
type State int

const (
	StateIdle State = iota
	StateSelectingVehicle
	StateAwaitingDates
	StateConfirming
	StateAwaitingPayment
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelectingVehicle:
		return "selecting_vehicle"
	case StateAwaitingDates:
		return "awaiting_dates"
	case StateConfirming:
		return "confirming"
	case StateAwaitingPayment:
		return "awaiting_payment"
	}
	return "unknown"
}

// Inventory is the read path the session needs for its transition guards.
type Inventory interface {
	Vehicle(id int64) (*db.Vehicle, error)
	HasConflict(vehicleID int64, candidate booking.DateRange) (bool, error)
}

// Quote is the priced booking shown to the user before they confirm.
type Quote struct {
	Vehicle *db.Vehicle
	Dates   booking.DateRange
	Days    int
	Total   decimal.Decimal
}

// Session is the per-user booking state machine. One user produces one
// event at a time, but the terminal payment outcome arrives on the webhook
// goroutine and may land while the user is still issuing events (an
// explicit cancel during AwaitingPayment is legal), so every transition
// takes the session lock.
type Session struct {
	mu      sync.Mutex
	userID  int64
	state   State
	vehicle *db.Vehicle
	dates   booking.DateRange
	total   decimal.Decimal
}

func newSession(userID int64) *Session {
	return &Session{userID: userID, state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Browse opens the catalog, restarting any cycle that was in flight. A
// staged pending reservation is left alone; its payment callback settles it.
func (s *Session) Browse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicle = nil
	s.dates = booking.DateRange{}
	s.total = decimal.Zero
	s.state = StateSelectingVehicle
}

// Select records the chosen vehicle and moves to date collection. Selecting
// is legal in any state and restarts the cycle, discarding prior candidate
// dates. A missing or unavailable vehicle leaves the session untouched.
func (s *Session) Select(v *db.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil || !v.IsAvailable {
		return booking.ErrVehicleUnavailable
	}
	s.vehicle = v
	s.dates = booking.DateRange{}
	s.total = decimal.Zero
	s.state = StateAwaitingDates
	return nil
}

// SubmitDates parses and validates a candidate range, checks it against the
// vehicle's committed reservations, and prices it. On any validation or
// conflict failure the session stays in AwaitingDates so the user can
// resubmit.
func (s *Session) SubmitDates(inv Inventory, text string, now time.Time) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingDates {
		return nil, booking.ErrNoActiveBooking
	}
	dates, err := booking.ParseRange(text)
	if err != nil {
		return nil, err
	}
	if err := dates.Validate(now); err != nil {
		return nil, err
	}
	conflict, err := inv.HasConflict(s.vehicle.ID, dates)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, booking.ErrDateRangeConflict
	}

	s.dates = dates
	s.total = s.vehicle.PricePerDay.Mul(decimal.NewFromInt(int64(dates.Days())))
	s.state = StateConfirming

	return &Quote{Vehicle: s.vehicle, Dates: dates, Days: dates.Days(), Total: s.total}, nil
}

// Confirm captures the snapshot to stage for payment and suspends the
// session until the payment callback arrives.
func (s *Session) Confirm(now time.Time) (*entities.PendingReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConfirming {
		return nil, booking.ErrNoActiveBooking
	}
	snap := &entities.PendingReservation{
		UserID:     s.userID,
		VehicleID:  s.vehicle.ID,
		Dates:      s.dates,
		TotalPrice: s.total,
		StagedAt:   now,
	}
	s.state = StateAwaitingPayment
	return snap, nil
}

// Cancel returns the session to rest from any state.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// FinishPayment is driven by the terminal payment outcome, success or
// failure alike. Outside AwaitingPayment the callback is stale and ignored.
func (s *Session) FinishPayment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAwaitingPayment {
		s.reset()
	}
}

// AbortPaymentInit returns an AwaitingPayment session to Confirming after
// a failed payment initiation so the user can retry.
func (s *Session) AbortPaymentInit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAwaitingPayment {
		s.state = StateConfirming
	}
}

func (s *Session) reset() {
	s.vehicle = nil
	s.dates = booking.DateRange{}
	s.total = decimal.Zero
	s.state = StateIdle
}
