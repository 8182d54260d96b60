package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsync/eventsync/internal/models"
)

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"server_wins", "client_wins", "last_write_wins", "merge", "manual"} {
		got, err := ParseStrategy(s)
		require.NoError(t, err)
		assert.Equal(t, Strategy(s), got)
	}
	_, err := ParseStrategy("coin_flip")
	assert.Error(t, err)
}

// The canonical divergence: both sides sit at version 3, the stored copy
// says planned at T0, the incoming copy says done at T1 > T0.
func TestResolve(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	now := t1.Add(30 * time.Minute)

	existing := baseEvent(3, models.StatusPlanned, tptr(t0))
	incoming := baseEvent(3, models.StatusDone, tptr(t1))
	conflict := DetectConflict(existing, incoming)
	require.True(t, conflict.HasConflict)

	t.Run("server wins keeps stored version", func(t *testing.T) {
		res := Resolve(existing, incoming, conflict, StrategyServerWins, now)
		assert.False(t, res.Applied)
		assert.Nil(t, res.Event)
	})

	t.Run("client wins takes incoming, stamps now, bumps version", func(t *testing.T) {
		res := Resolve(existing, incoming, conflict, StrategyClientWins, now)
		require.True(t, res.Applied)
		assert.Equal(t, models.StatusDone, res.Event.Status)
		assert.Equal(t, int64(4), res.Event.Version)
		require.NotNil(t, res.Event.UpdatedAt)
		assert.True(t, res.Event.UpdatedAt.Equal(now))
		assert.Equal(t, existing.CreatedAt, res.Event.CreatedAt)
	})

	t.Run("last write wins keeps incoming timestamp", func(t *testing.T) {
		res := Resolve(existing, incoming, conflict, StrategyLastWriteWins, now)
		require.True(t, res.Applied)
		assert.Equal(t, models.StatusDone, res.Event.Status)
		assert.Equal(t, int64(4), res.Event.Version)
		require.NotNil(t, res.Event.UpdatedAt)
		assert.True(t, res.Event.UpdatedAt.Equal(t1))
	})

	t.Run("merge takes conflicting fields only", func(t *testing.T) {
		ex := baseEvent(3, models.StatusPlanned, tptr(t0))
		loc := "warehouse 2"
		ex.Location = &loc
		in := baseEvent(3, models.StatusDone, tptr(t1))
		in.Location = nil
		c := DetectConflict(ex, in)
		require.True(t, c.HasConflict)

		res := Resolve(ex, in, c, StrategyMerge, now)
		require.True(t, res.Applied)
		assert.Equal(t, models.StatusDone, res.Event.Status)
		// Non-conflicting optional stays because incoming has no value.
		require.NotNil(t, res.Event.Location)
		assert.Equal(t, "warehouse 2", *res.Event.Location)
		assert.Equal(t, int64(4), res.Event.Version)
		assert.True(t, res.Event.UpdatedAt.Equal(now))
	})

	t.Run("manual applies nothing", func(t *testing.T) {
		res := Resolve(existing, incoming, conflict, StrategyManual, now)
		assert.False(t, res.Applied)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		exCopy := *existing
		inCopy := *incoming
		_ = Resolve(existing, incoming, conflict, StrategyMerge, now)
		assert.Equal(t, exCopy, *existing)
		assert.Equal(t, inCopy, *incoming)
	})
}
