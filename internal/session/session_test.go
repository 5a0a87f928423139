package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbooking/internal/booking"
	"carbooking/internal/db"
)

type fakeInventory struct {
	vehicles  map[int64]*db.Vehicle
	committed map[int64][]booking.DateRange
}

func (f *fakeInventory) Vehicle(id int64) (*db.Vehicle, error) {
	return f.vehicles[id], nil
}

func (f *fakeInventory) HasConflict(vehicleID int64, candidate booking.DateRange) (bool, error) {
	for _, r := range f.committed[vehicleID] {
		if candidate.Overlaps(r) {
			return true, nil
		}
	}
	return false, nil
}

var testNow = time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		vehicles: map[int64]*db.Vehicle{
			1: {ID: 1, Brand: "Toyota", Model: "Camry", PricePerDay: decimal.NewFromInt(1000), IsAvailable: true},
			2: {ID: 2, Brand: "Lada", Model: "Vesta", PricePerDay: decimal.NewFromInt(500), IsAvailable: false},
		},
		committed: map[int64][]booking.DateRange{},
	}
}

func TestSelectGuards(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)

	err := s.Select(nil)
	assert.ErrorIs(t, err, booking.ErrVehicleUnavailable)
	assert.Equal(t, StateIdle, s.State())

	err = s.Select(inv.vehicles[2])
	assert.ErrorIs(t, err, booking.ErrVehicleUnavailable, "flagged-unavailable vehicle is rejected")
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Select(inv.vehicles[1]))
	assert.Equal(t, StateAwaitingDates, s.State())
}

func TestSubmitDatesPricesInclusiveDays(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)
	require.NoError(t, s.Select(inv.vehicles[1]))

	quote, err := s.SubmitDates(inv, "10.05.2025-12.05.2025", testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, quote.Days)
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(3000)), "got %s", quote.Total)
	assert.Equal(t, StateConfirming, s.State())
}

func TestSubmitDatesValidationKeepsSessionResumable(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)
	require.NoError(t, s.Select(inv.vehicles[1]))

	tests := []struct {
		input   string
		wantErr error
	}{
		{"garbage", booking.ErrInvalidDateFormat},
		{"01.01.2020-05.01.2020", booking.ErrStartInPast},
		{"12.05.2025-10.05.2025", booking.ErrEndBeforeStart},
		{"01.05.2025-15.07.2025", booking.ErrRangeTooLong},
	}
	for _, tt := range tests {
		_, err := s.SubmitDates(inv, tt.input, testNow)
		assert.ErrorIs(t, err, tt.wantErr, "input %q", tt.input)
		assert.Equal(t, StateAwaitingDates, s.State(), "session must stay resumable after %q", tt.input)
	}

	// A good range still goes through afterwards.
	_, err := s.SubmitDates(inv, "10.05.2025-12.05.2025", testNow)
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, s.State())
}

func TestSubmitDatesConflict(t *testing.T) {
	inv := newFakeInventory()
	inv.committed[1] = []booking.DateRange{{
		Start: time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
	}}
	s := newSession(10)
	require.NoError(t, s.Select(inv.vehicles[1]))

	_, err := s.SubmitDates(inv, "12.05.2025-14.05.2025", testNow)
	assert.ErrorIs(t, err, booking.ErrDateRangeConflict)
	assert.Equal(t, StateAwaitingDates, s.State())

	quote, err := s.SubmitDates(inv, "16.05.2025-18.05.2025", testNow)
	require.NoError(t, err)
	assert.Equal(t, StateConfirming, s.State())
	assert.Equal(t, 3, quote.Days)
}

func TestSubmitDatesRequiresSelection(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)

	_, err := s.SubmitDates(inv, "10.05.2025-12.05.2025", testNow)
	assert.ErrorIs(t, err, booking.ErrNoActiveBooking)
}

func TestConfirmStagesSnapshot(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)
	require.NoError(t, s.Select(inv.vehicles[1]))
	_, err := s.SubmitDates(inv, "10.05.2025-12.05.2025", testNow)
	require.NoError(t, err)

	snap, err := s.Confirm(testNow)
	require.NoError(t, err)
	assert.EqualValues(t, 10, snap.UserID)
	assert.EqualValues(t, 1, snap.VehicleID)
	assert.Equal(t, "10.05.2025-12.05.2025", snap.Dates.String())
	assert.True(t, snap.TotalPrice.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, StateAwaitingPayment, s.State())

	// Confirm is only legal once per cycle.
	_, err = s.Confirm(testNow)
	assert.ErrorIs(t, err, booking.ErrNoActiveBooking)
}

func TestReselectRestartsCycle(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)
	require.NoError(t, s.Select(inv.vehicles[1]))
	_, err := s.SubmitDates(inv, "10.05.2025-12.05.2025", testNow)
	require.NoError(t, err)

	require.NoError(t, s.Select(inv.vehicles[1]))
	assert.Equal(t, StateAwaitingDates, s.State(), "reselection discards candidate dates")

	_, err = s.Confirm(testNow)
	assert.ErrorIs(t, err, booking.ErrNoActiveBooking)
}

func TestCancelAndFinishPayment(t *testing.T) {
	inv := newFakeInventory()
	s := newSession(10)
	require.NoError(t, s.Select(inv.vehicles[1]))

	s.Cancel()
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Select(inv.vehicles[1]))
	_, err := s.SubmitDates(inv, "10.05.2025-12.05.2025", testNow)
	require.NoError(t, err)
	_, err = s.Confirm(testNow)
	require.NoError(t, err)

	s.FinishPayment()
	assert.Equal(t, StateIdle, s.State())

	// A late callback against a rested session is a no-op.
	s.FinishPayment()
	assert.Equal(t, StateIdle, s.State())
}
