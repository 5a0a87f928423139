package errors

import (
	"errors"
	"net/http"

	"carbooking/internal/booking"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromBookingError maps the booking error taxonomy onto HTTP statuses.
// Validation failures are 422 so the client knows to resubmit; conflicts
// are 409; everything unrecognized is a 500.
func FromBookingError(err error) *HTTPError {
	switch {
	case errors.Is(err, booking.ErrInvalidDateFormat),
		errors.Is(err, booking.ErrStartInPast),
		errors.Is(err, booking.ErrEndBeforeStart),
		errors.Is(err, booking.ErrRangeTooLong):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrVehicleUnavailable):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrNoActiveBooking):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrDateRangeConflict),
		errors.Is(err, booking.ErrReservationConflict):
		return NewHTTPError(http.StatusConflict, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
