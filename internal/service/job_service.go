package service

import (
	"fmt"
	"log"
	"time"

	"carbooking/internal/db"
	"carbooking/internal/session"
)

// InactiveReservationPurger is the persistence half of the cleanup job.
type InactiveReservationPurger interface {
	DeleteInactiveReservationsBefore(statuses []string, before time.Time) (int64, error)
}

// JobService runs the scheduled maintenance the booking engine itself does
// not: it is the timeout policy that evicts abandoned payments, and it
// keeps the reservations table free of dead rows.
type JobService struct {
	repo       InactiveReservationPurger
	pending    *session.PendingStore
	sessions   SessionFinisher
	pendingTTL time.Duration
	retention  time.Duration
}

func NewJobService(repo InactiveReservationPurger, pending *session.PendingStore,
	sessions SessionFinisher, pendingTTL, retention time.Duration) *JobService {
	return &JobService{
		repo:       repo,
		pending:    pending,
		sessions:   sessions,
		pendingTTL: pendingTTL,
		retention:  retention,
	}
}

// EvictStalePendingReservations drops snapshots whose payment never
// arrived and returns the parked sessions to rest. A late success callback
// for an evicted user finds no snapshot and is treated as stale.
func (s *JobService) EvictStalePendingReservations() {
	cutoff := time.Now().UTC().Add(-s.pendingTTL)
	stale := s.pending.TakeStaleBefore(cutoff)
	for _, snap := range stale {
		log.Printf("Cron Job: evicting abandoned pending reservation, user %d, vehicle %d, staged %s",
			snap.UserID, snap.VehicleID, snap.StagedAt.Format(time.RFC3339))
		s.sessions.FinishPayment(snap.UserID)
	}
	if len(stale) > 0 {
		log.Printf("Cron Job: evicted %d abandoned pending reservations", len(stale))
	}
}

// PurgeInactiveReservations removes cancelled and failed rows past the
// retention window.
func (s *JobService) PurgeInactiveReservations() error {
	before := time.Now().UTC().Add(-s.retention)
	purged, err := s.repo.DeleteInactiveReservationsBefore([]string{db.StatusCancelled, db.StatusFailed}, before)
	if err != nil {
		return fmt.Errorf("cron job: failed to purge inactive reservations: %w", err)
	}
	if purged > 0 {
		log.Printf("Cron Job: purged %d inactive reservations", purged)
	}
	return nil
}
