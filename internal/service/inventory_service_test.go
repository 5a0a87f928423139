package service

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbooking/internal/booking"
	"carbooking/internal/db"
	"carbooking/internal/entities"
)

type fakeVehicleStore struct {
	mu       sync.Mutex
	vehicles map[int64]db.Vehicle
	nextID   int64
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: map[int64]db.Vehicle{}, nextID: 1}
}

func (f *fakeVehicleStore) ListVehicles(filter entities.VehicleFilter) ([]db.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Vehicle
	for _, v := range f.vehicles {
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && v.PricePerDay.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && v.PricePerDay.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVehicleStore) GetVehicle(id int64) (*db.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeVehicleStore) CreateVehicle(v *db.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = f.nextID
	f.nextID++
	f.vehicles[v.ID] = *v
	return nil
}

func (f *fakeVehicleStore) DeleteVehicle(id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[id]; !ok {
		return false, nil
	}
	delete(f.vehicles, id)
	return true, nil
}

type fakeReservationStore struct {
	mu           sync.Mutex
	reservations []db.Reservation
	nextID       int64
}

func (f *fakeReservationStore) ListCommittedForVehicle(vehicleID int64) ([]db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Reservation
	for _, r := range f.reservations {
		if r.VehicleID == vehicleID && r.PaymentStatus == db.StatusCompleted {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) CommitReservation(res *db.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	res.ID = f.nextID
	f.reservations = append(f.reservations, *res)
	return nil
}

func (f *fakeReservationStore) ListReservations(status string) ([]db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Reservation
	for _, r := range f.reservations {
		if status == "" || r.PaymentStatus == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) CancelReservation(id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			f.reservations[i].PaymentStatus = db.StatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func day(d int) time.Time {
	return time.Date(2025, time.May, d, 0, 0, 0, 0, time.UTC)
}

func completed(vehicleID int64, start, end int) *db.Reservation {
	return &db.Reservation{
		Code:          "test",
		UserID:        1,
		VehicleID:     vehicleID,
		StartDate:     day(start),
		EndDate:       day(end),
		TotalPrice:    decimal.NewFromInt(1000),
		PaymentStatus: db.StatusCompleted,
	}
}

func TestHasConflict(t *testing.T) {
	store := &fakeReservationStore{}
	svc := NewInventoryService(newFakeVehicleStore(), store)
	require.NoError(t, svc.CommitReservation(completed(1, 10, 15)))

	conflict, err := svc.HasConflict(1, booking.DateRange{Start: day(12), End: day(14)})
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = svc.HasConflict(1, booking.DateRange{Start: day(16), End: day(18)})
	require.NoError(t, err)
	assert.False(t, conflict)

	// A different vehicle is unaffected.
	conflict, err = svc.HasConflict(2, booking.DateRange{Start: day(12), End: day(14)})
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestCommitReservationRejectsOverlap(t *testing.T) {
	store := &fakeReservationStore{}
	svc := NewInventoryService(newFakeVehicleStore(), store)

	require.NoError(t, svc.CommitReservation(completed(1, 10, 15)))
	err := svc.CommitReservation(completed(1, 14, 18))
	assert.ErrorIs(t, err, booking.ErrReservationConflict)

	// Cancelled rows do not block.
	all, err := svc.ListReservations("")
	require.NoError(t, err)
	require.Len(t, all, 1)
	_, err = svc.CancelReservation(all[0].ID)
	require.NoError(t, err)
	assert.NoError(t, svc.CommitReservation(completed(1, 14, 18)))
}

func TestConcurrentCommitsHaveOneWinner(t *testing.T) {
	store := &fakeReservationStore{}
	svc := NewInventoryService(newFakeVehicleStore(), store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.CommitReservation(completed(1, 10+i, 15+i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, booking.ErrReservationConflict)
		}
	}
	assert.Equal(t, 1, winners, "exactly one of two racing commits succeeds")
}

func TestCommittedReservationsStayPairwiseDisjoint(t *testing.T) {
	store := &fakeReservationStore{}
	svc := NewInventoryService(newFakeVehicleStore(), store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Overlapping 3-day windows marching across the month.
			svc.CommitReservation(completed(1, 1+i, 3+i))
		}(i)
	}
	wg.Wait()

	final, err := store.ListCommittedForVehicle(1)
	require.NoError(t, err)
	require.NotEmpty(t, final)
	for i := range final {
		for j := i + 1; j < len(final); j++ {
			a := booking.DateRange{Start: final[i].StartDate, End: final[i].EndDate}
			b := booking.DateRange{Start: final[j].StartDate, End: final[j].EndDate}
			assert.False(t, a.Overlaps(b), "reservations %d and %d overlap", final[i].ID, final[j].ID)
		}
	}
}

func TestAddVehicleRejectsNegativePrice(t *testing.T) {
	svc := NewInventoryService(newFakeVehicleStore(), &fakeReservationStore{})
	err := svc.AddVehicle(&db.Vehicle{Brand: "Kia", Model: "Rio", PricePerDay: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestListVehiclesFilter(t *testing.T) {
	vehicles := newFakeVehicleStore()
	svc := NewInventoryService(vehicles, &fakeReservationStore{})

	require.NoError(t, svc.AddVehicle(&db.Vehicle{Brand: "Kia", Model: "Rio", Category: "sedan", PricePerDay: decimal.NewFromInt(500), IsAvailable: true}))
	require.NoError(t, svc.AddVehicle(&db.Vehicle{Brand: "BMW", Model: "X5", Category: "suv", PricePerDay: decimal.NewFromInt(3000), IsAvailable: true}))

	min := decimal.NewFromInt(1000)
	out, err := svc.ListVehicles(entities.VehicleFilter{MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "BMW", out[0].Brand)

	out, err = svc.ListVehicles(entities.VehicleFilter{Category: "sedan"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Kia", out[0].Brand)
}
