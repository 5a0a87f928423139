package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// DeleteInactiveReservationsBefore purges cancelled and failed reservations
// created before the cutoff. They no longer affect availability and only
// clutter the admin view.
func (r *JobRepository) DeleteInactiveReservationsBefore(statuses []string, before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM reservations WHERE payment_status = ANY($1) AND created_at < $2`,
		pq.Array(statuses), before)
	if err != nil {
		return 0, fmt.Errorf("error purging inactive reservations: %w", err)
	}
	return result.RowsAffected()
}
