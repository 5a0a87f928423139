package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbooking/internal/booking"
	"carbooking/internal/entities"
)

func snapshot(userID int64) entities.PendingReservation {
	return entities.PendingReservation{
		UserID:     userID,
		VehicleID:  7,
		Dates:      booking.DateRange{Start: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)},
		TotalPrice: decimal.NewFromInt(3000),
		StagedAt:   time.Now().UTC(),
	}
}

func TestTakeIsTestAndClear(t *testing.T) {
	store := NewPendingStore()
	store.Stage(snapshot(1))

	snap, ok := store.Take(1)
	require.True(t, ok)
	assert.EqualValues(t, 7, snap.VehicleID)

	_, ok = store.Take(1)
	assert.False(t, ok, "second take must observe nothing")
}

func TestStageOverwrites(t *testing.T) {
	store := NewPendingStore()
	first := snapshot(1)
	second := snapshot(1)
	second.VehicleID = 9

	store.Stage(first)
	store.Stage(second)

	snap, ok := store.Take(1)
	require.True(t, ok)
	assert.EqualValues(t, 9, snap.VehicleID, "latest stage wins")
}

func TestConcurrentTakeHasOneWinner(t *testing.T) {
	store := NewPendingStore()
	store.Stage(snapshot(1))

	var winners int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := store.Take(1); ok {
				atomic.AddInt64(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, winners)
}

func TestTakeStaleBefore(t *testing.T) {
	store := NewPendingStore()
	old := snapshot(1)
	old.StagedAt = time.Now().UTC().Add(-time.Hour)
	fresh := snapshot(2)

	store.Stage(old)
	store.Stage(fresh)

	stale := store.TakeStaleBefore(time.Now().UTC().Add(-30 * time.Minute))
	require.Len(t, stale, 1)
	assert.EqualValues(t, 1, stale[0].UserID)

	_, ok := store.Take(1)
	assert.False(t, ok, "evicted snapshot is gone")
	_, ok = store.Take(2)
	assert.True(t, ok, "fresh snapshot survives eviction")
}
