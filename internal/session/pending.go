package session

import (
	"sync"
	"time"

	"carbooking/internal/entities"
)

// PendingStore holds provisionally-confirmed reservations awaiting their
// payment callback, at most one per user. Take is test-and-clear: when a
// duplicate payment event races a legitimate one, exactly one caller gets
// the snapshot and the loser observes nothing.
type PendingStore struct {
	mu     sync.Mutex
	byUser map[int64]entities.PendingReservation
}

func NewPendingStore() *PendingStore {
	return &PendingStore{byUser: make(map[int64]entities.PendingReservation)}
}

// Stage records the snapshot, overwriting any prior entry for the user.
func (p *PendingStore) Stage(snap entities.PendingReservation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[snap.UserID] = snap
}

// Take atomically removes and returns the user's snapshot.
func (p *PendingStore) Take(userID int64) (entities.PendingReservation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.byUser[userID]
	if ok {
		delete(p.byUser, userID)
	}
	return snap, ok
}

// Drop discards the user's snapshot, if any. Used by explicit cancellation.
func (p *PendingStore) Drop(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byUser, userID)
}

// TakeStaleBefore removes and returns every snapshot staged before the
// cutoff. The eviction job uses it to clean up abandoned payments.
func (p *PendingStore) TakeStaleBefore(cutoff time.Time) []entities.PendingReservation {
	p.mu.Lock()
	defer p.mu.Unlock()
	var stale []entities.PendingReservation
	for userID, snap := range p.byUser {
		if snap.StagedAt.Before(cutoff) {
			stale = append(stale, snap)
			delete(p.byUser, userID)
		}
	}
	return stale
}
