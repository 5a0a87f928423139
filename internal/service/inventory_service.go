package service

import (
	"fmt"
	"sync"

	"carbooking/internal/booking"
	"carbooking/internal/db"
	"carbooking/internal/entities"
)

// VehicleStore is the persistence contract for catalog vehicles.
type VehicleStore interface {
	ListVehicles(filter entities.VehicleFilter) ([]db.Vehicle, error)
	GetVehicle(id int64) (*db.Vehicle, error)
	CreateVehicle(v *db.Vehicle) error
	DeleteVehicle(id int64) (bool, error)
}

// ReservationStore is the persistence contract for reservations. The
// implementation's CommitReservation must reject overlapping committed
// reservations on its own; the service adds in-process serialization on
// top of it.
type ReservationStore interface {
	ListCommittedForVehicle(vehicleID int64) ([]db.Reservation, error)
	CommitReservation(res *db.Reservation) error
	ListReservations(status string) ([]db.Reservation, error)
	CancelReservation(id int64) (bool, error)
}

// InventoryService owns the vehicle catalog and its committed reservations,
// and answers the availability questions the booking engine asks.
type InventoryService struct {
	vehicles     VehicleStore
	reservations ReservationStore

	mu           sync.Mutex
	vehicleLocks map[int64]*sync.Mutex
}

func NewInventoryService(vehicles VehicleStore, reservations ReservationStore) *InventoryService {
	return &InventoryService{
		vehicles:     vehicles,
		reservations: reservations,
		vehicleLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *InventoryService) ListVehicles(filter entities.VehicleFilter) ([]db.Vehicle, error) {
	return s.vehicles.ListVehicles(filter)
}

// Vehicle returns the vehicle or (nil, nil) when it does not exist.
func (s *InventoryService) Vehicle(id int64) (*db.Vehicle, error) {
	return s.vehicles.GetVehicle(id)
}

// HasConflict reports whether the candidate range overlaps any committed
// reservation for the vehicle. At quote time the answer is advisory;
// CommitReservation repeats it authoritatively.
func (s *InventoryService) HasConflict(vehicleID int64, candidate booking.DateRange) (bool, error) {
	committed, err := s.reservations.ListCommittedForVehicle(vehicleID)
	if err != nil {
		return false, fmt.Errorf("error loading reservations for vehicle %d: %w", vehicleID, err)
	}
	for _, res := range committed {
		if candidate.Overlaps(booking.DateRange{Start: res.StartDate, End: res.EndDate}) {
			return true, nil
		}
	}
	return false, nil
}

// CommitReservation persists a completed reservation, re-checking the
// overlap invariant under a per-vehicle lock so concurrent commits for the
// same vehicle serialize. Exactly one of two racing commits for
// overlapping dates succeeds; the other gets booking.ErrReservationConflict.
func (s *InventoryService) CommitReservation(res *db.Reservation) error {
	lock := s.lockFor(res.VehicleID)
	lock.Lock()
	defer lock.Unlock()

	conflict, err := s.HasConflict(res.VehicleID, booking.DateRange{Start: res.StartDate, End: res.EndDate})
	if err != nil {
		return err
	}
	if conflict {
		return booking.ErrReservationConflict
	}
	return s.reservations.CommitReservation(res)
}

func (s *InventoryService) lockFor(vehicleID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.vehicleLocks[vehicleID]
	if !ok {
		lock = &sync.Mutex{}
		s.vehicleLocks[vehicleID] = lock
	}
	return lock
}

// Admin operations.

func (s *InventoryService) AddVehicle(v *db.Vehicle) error {
	if v.PricePerDay.IsNegative() {
		return fmt.Errorf("price per day cannot be negative")
	}
	return s.vehicles.CreateVehicle(v)
}

func (s *InventoryService) RemoveVehicle(id int64) (bool, error) {
	return s.vehicles.DeleteVehicle(id)
}

func (s *InventoryService) ListReservations(status string) ([]db.Reservation, error) {
	return s.reservations.ListReservations(status)
}

func (s *InventoryService) CancelReservation(id int64) (bool, error) {
	return s.reservations.CancelReservation(id)
}
