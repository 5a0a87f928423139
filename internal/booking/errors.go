package booking

import "errors"

// Errors reported by the booking engine. Date validation and quote-time
// conflicts are recoverable: the session stays where it was and the user can
// resubmit. ErrReservationConflict and ErrRefundRequired are not: they mean
// a commit-time race was lost and an operator may owe the user money.
var (
	ErrInvalidDateFormat  = errors.New("dates must use the format DD.MM.YYYY-DD.MM.YYYY")
	ErrStartInPast        = errors.New("start date cannot be in the past")
	ErrEndBeforeStart     = errors.New("end date must be later than the start date")
	ErrRangeTooLong       = errors.New("bookings are limited to 30 days")
	ErrVehicleUnavailable = errors.New("vehicle not found or unavailable")
	ErrDateRangeConflict  = errors.New("vehicle is already booked for these dates")

	// ErrReservationConflict is returned by the authoritative commit-time
	// check when another reservation won the race for the same dates.
	ErrReservationConflict = errors.New("reservation conflicts with an existing booking")

	// ErrStaleReservation marks a payment callback with no staged
	// reservation behind it, e.g. a duplicate webhook delivery.
	ErrStaleReservation = errors.New("no pending reservation for this payment")

	// ErrRefundRequired is raised when a payment succeeded but the commit
	// lost the race: money was collected for a slot that no longer exists.
	ErrRefundRequired = errors.New("payment collected but reservation conflicts; refund required")

	// ErrNoActiveBooking is returned for events that need a booking in
	// progress (dates, confirm) when the user has none.
	ErrNoActiveBooking = errors.New("no booking in progress")
)
