package repository

import (
	"database/sql"
	"fmt"
	"time"

	"carbooking/internal/booking"
	"carbooking/internal/db"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

// ListCommittedForVehicle returns the completed reservations for a vehicle.
// Only these count against availability.
func (r *ReservationRepository) ListCommittedForVehicle(vehicleID int64) ([]db.Reservation, error) {
	query := `
		SELECT id, code, user_id, vehicle_id, start_date, end_date, total_price, payment_status, created_at, updated_at
		FROM reservations
		WHERE vehicle_id = $1 AND payment_status = $2
		ORDER BY start_date`
	rows, err := r.DB.Query(query, vehicleID, db.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations for vehicle %d: %w", vehicleID, err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

// CommitReservation persists a reservation after re-checking the overlap
// invariant inside a transaction. The vehicle row is locked first so two
// commits for the same vehicle serialize; the loser gets
// booking.ErrReservationConflict.
func (r *ReservationRepository) CommitReservation(res *db.Reservation) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting commit transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int64
	err = tx.QueryRow(`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, res.VehicleID).Scan(&vehicleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return booking.ErrVehicleUnavailable
		}
		return fmt.Errorf("error locking vehicle %d: %w", res.VehicleID, err)
	}

	var overlapping int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM reservations
		WHERE vehicle_id = $1 AND payment_status = $2
		  AND start_date <= $3 AND end_date >= $4`,
		res.VehicleID, db.StatusCompleted, res.EndDate, res.StartDate).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("error re-checking conflicts for vehicle %d: %w", res.VehicleID, err)
	}
	if overlapping > 0 {
		return booking.ErrReservationConflict
	}

	err = tx.QueryRow(`
		INSERT INTO reservations (code, user_id, vehicle_id, start_date, end_date, total_price, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		res.Code, res.UserID, res.VehicleID, res.StartDate, res.EndDate,
		res.TotalPrice, res.PaymentStatus, res.CreatedAt, res.UpdatedAt).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return tx.Commit()
}

// ListReservations returns reservations for the admin view, newest first,
// optionally filtered by payment status.
func (r *ReservationRepository) ListReservations(status string) ([]db.Reservation, error) {
	query := `
		SELECT id, code, user_id, vehicle_id, start_date, end_date, total_price, payment_status, created_at, updated_at
		FROM reservations`
	var args []interface{}
	if status != "" {
		query += ` WHERE payment_status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

// CancelReservation marks a reservation cancelled, freeing its dates, and
// reports whether a row was updated.
func (r *ReservationRepository) CancelReservation(id int64) (bool, error) {
	result, err := r.DB.Exec(
		`UPDATE reservations SET payment_status = $1, updated_at = $2 WHERE id = $3`,
		db.StatusCancelled, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("error cancelling reservation %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanReservations(rows *sql.Rows) ([]db.Reservation, error) {
	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(&res.ID, &res.Code, &res.UserID, &res.VehicleID, &res.StartDate, &res.EndDate,
			&res.TotalPrice, &res.PaymentStatus, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
