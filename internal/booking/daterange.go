package booking

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format users type for a single date.
const dateLayout = "02.01.2006"

// MaxRangeDays is the longest span (exclusive of the first day) a booking
// may cover: a 31-day stay submitted as start..start+30 is the limit.
const MaxRangeDays = 30

// DateRange is an inclusive range of whole days. Both endpoints are
// midnight UTC; a range where Start == End covers a single day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses "DD.MM.YYYY-DD.MM.YYYY" into a DateRange. It only
// checks syntax; Validate applies the business rules.
func ParseRange(s string) (DateRange, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return DateRange{}, ErrInvalidDateFormat
	}
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(parts[0]), time.UTC)
	if err != nil {
		return DateRange{}, ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(parts[1]), time.UTC)
	if err != nil {
		return DateRange{}, ErrInvalidDateFormat
	}
	return DateRange{Start: start, End: end}, nil
}

// Validate applies the booking rules to a parsed range: the start day may
// not be before today, the end must be strictly after the start, and the
// span may not exceed MaxRangeDays.
func (r DateRange) Validate(now time.Time) error {
	today := Day(now)
	if r.Start.Before(today) {
		return ErrStartInPast
	}
	if !r.End.After(r.Start) {
		return ErrEndBeforeStart
	}
	if r.End.Sub(r.Start) > MaxRangeDays*24*time.Hour {
		return ErrRangeTooLong
	}
	return nil
}

// Days returns the number of billable days, counting both endpoints.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Overlaps reports whether two inclusive day ranges share at least one day.
// Adjacent ranges overlap: the day a rental ends the vehicle is still out.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s-%s", r.Start.Format(dateLayout), r.End.Format(dateLayout))
}

// Day truncates a timestamp to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
