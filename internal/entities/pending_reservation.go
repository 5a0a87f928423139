package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"carbooking/internal/booking"
)

// PendingReservation is the snapshot captured when a user confirms intent
// to pay. It lives only in the in-memory holder; nothing is persisted
// until the payment callback commits it.
type PendingReservation struct {
	UserID     int64
	VehicleID  int64
	Dates      booking.DateRange
	TotalPrice decimal.Decimal
	StagedAt   time.Time
}
