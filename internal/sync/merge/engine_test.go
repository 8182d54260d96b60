package merge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsync/eventsync/internal/audit"
	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/eventlogs"
)

type memEventRepo struct {
	byID map[int64]models.Event
}

func newMemEventRepo(events ...models.Event) *memEventRepo {
	r := &memEventRepo{byID: make(map[int64]models.Event)}
	for _, e := range events {
		r.byID[e.ID] = e
	}
	return r
}

func (r *memEventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := e
	return &c, nil
}

func (r *memEventRepo) GetAllByOrganization(_ context.Context, orgID int64, _ *time.Time) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.byID {
		if e.OrganizationID == orgID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) Create(_ context.Context, e *models.Event) error {
	e.ID = int64(len(r.byID) + 1)
	r.byID[e.ID] = *e
	return nil
}

func (r *memEventRepo) InsertWithID(_ context.Context, e *models.Event) error {
	r.byID[e.ID] = *e
	return nil
}

func (r *memEventRepo) Update(_ context.Context, e *models.Event) error {
	if _, ok := r.byID[e.ID]; !ok {
		return common.ErrNotFound
	}
	r.byID[e.ID] = *e
	return nil
}

func (r *memEventRepo) UpdateStatus(_ context.Context, id int64, status string, updatedAt time.Time) error {
	e, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = &updatedAt
	e.Version++
	r.byID[id] = e
	return nil
}

type memLogRepo struct {
	entries []models.EventLog
}

func (r *memLogRepo) Append(_ context.Context, e *models.EventLog) error {
	e.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memLogRepo) List(_ context.Context, _ eventlogs.Filter) ([]models.EventLog, error) {
	return r.entries, nil
}

func (r *memLogRepo) ListByEvent(_ context.Context, eventID int64, _ int) ([]models.EventLog, error) {
	var out []models.EventLog
	for _, e := range r.entries {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestEngine(repo *memEventRepo, logRepo *memLogRepo, now time.Time) *Engine {
	e := NewEngine(repo, audit.NewService(logRepo), logging.NewNopLogger())
	e.now = func() time.Time { return now }
	return e
}

func TestMergeEventsCreatesUnknownRecords(t *testing.T) {
	ctx := context.Background()
	repo := newMemEventRepo()
	logs := &memLogRepo{}
	eng := newTestEngine(repo, logs, time.Now().UTC())

	incoming := []models.Event{*baseEvent(2, models.StatusPlanned, nil)}
	res, err := eng.MergeEvents(ctx, incoming, 7, StrategyServerWins)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 0, res.Skipped)

	stored, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stored.ID)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, int64(7), stored.OrganizationID)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.ActionCreate, logs.entries[0].Action)
	assert.Equal(t, models.SourceField, logs.entries[0].Source)
}

func TestMergeEventsSkipsStale(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	existing := *baseEvent(5, models.StatusDone, tptr(t0))
	repo := newMemEventRepo(existing)
	logs := &memLogRepo{}
	eng := newTestEngine(repo, logs, t0.Add(time.Hour))

	incoming := []models.Event{*baseEvent(4, models.StatusPlanned, tptr(t0.Add(time.Minute)))}
	res, err := eng.MergeEvents(ctx, incoming, 7, StrategyClientWins)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, logs.entries)

	stored, _ := repo.GetByID(ctx, 42)
	assert.Equal(t, models.StatusDone, stored.Status)
}

func TestMergeEventsAppliesNewerVersion(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newMemEventRepo(*baseEvent(2, models.StatusPlanned, tptr(t0)))
	logs := &memLogRepo{}
	eng := newTestEngine(repo, logs, t0.Add(time.Hour))

	incoming := *baseEvent(3, models.StatusDone, tptr(t0.Add(time.Minute)))
	res, err := eng.MergeEvents(ctx, []models.Event{incoming}, 7, StrategyServerWins)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	stored, _ := repo.GetByID(ctx, 42)
	assert.Equal(t, models.StatusDone, stored.Status)
	assert.Equal(t, int64(3), stored.Version)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.ActionUpdate, logs.entries[0].Action)
	require.NotNil(t, logs.entries[0].StatusOld)
	assert.Equal(t, models.StatusPlanned, *logs.entries[0].StatusOld)
}

func TestMergeEventsConflictStrategies(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	makeRepo := func() *memEventRepo {
		return newMemEventRepo(*baseEvent(3, models.StatusPlanned, tptr(t0)))
	}
	incoming := []models.Event{*baseEvent(3, models.StatusDone, tptr(t1))}

	t.Run("server wins reports conflict, applies nothing", func(t *testing.T) {
		repo := makeRepo()
		logs := &memLogRepo{}
		eng := newTestEngine(repo, logs, t1)
		res, err := eng.MergeEvents(context.Background(), incoming, 7, StrategyServerWins)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, []string{FieldStatus}, res.Conflicts[0].Fields)

		stored, _ := repo.GetByID(context.Background(), 42)
		assert.Equal(t, models.StatusPlanned, stored.Status)
		assert.Equal(t, int64(3), stored.Version)
		assert.Empty(t, logs.entries)
	})

	t.Run("manual reports conflict, applies nothing", func(t *testing.T) {
		repo := makeRepo()
		eng := newTestEngine(repo, &memLogRepo{}, t1)
		res, err := eng.MergeEvents(context.Background(), incoming, 7, StrategyManual)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		assert.Len(t, res.Conflicts, 1)
	})

	t.Run("client wins applies incoming", func(t *testing.T) {
		repo := makeRepo()
		logs := &memLogRepo{}
		now := t1.Add(time.Minute)
		eng := newTestEngine(repo, logs, now)
		res, err := eng.MergeEvents(context.Background(), incoming, 7, StrategyClientWins)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Updated)
		assert.Len(t, res.Conflicts, 1)

		stored, _ := repo.GetByID(context.Background(), 42)
		assert.Equal(t, models.StatusDone, stored.Status)
		assert.Equal(t, int64(4), stored.Version)
		assert.True(t, stored.UpdatedAt.Equal(now))
		require.Len(t, logs.entries, 1)
		require.NotNil(t, logs.entries[0].Comment)
		assert.Contains(t, *logs.entries[0].Comment, "conflict resolved")
	})

	t.Run("last write wins applies the newer side", func(t *testing.T) {
		repo := makeRepo()
		eng := newTestEngine(repo, &memLogRepo{}, t1.Add(time.Minute))
		res, err := eng.MergeEvents(context.Background(), incoming, 7, StrategyLastWriteWins)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Updated)

		stored, _ := repo.GetByID(context.Background(), 42)
		assert.Equal(t, models.StatusDone, stored.Status)
		assert.True(t, stored.UpdatedAt.Equal(t1))
	})
}

// Merging the same batch twice must leave storage unchanged on the second
// pass: created records keep their ids, applied resolutions bump the
// version past the batch.
func TestMergeEventsIdempotent(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	repo := newMemEventRepo(*baseEvent(3, models.StatusPlanned, tptr(t0)))
	eng := newTestEngine(repo, &memLogRepo{}, t1.Add(time.Minute))

	fresh := *baseEvent(1, models.StatusPlanned, tptr(t0))
	fresh.ID = 99
	batch := []models.Event{
		*baseEvent(3, models.StatusDone, tptr(t1)),
		fresh,
	}

	first, err := eng.MergeEvents(ctx, batch, 7, StrategyClientWins)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)
	assert.Equal(t, 1, first.Updated)

	second, err := eng.MergeEvents(ctx, batch, 7, StrategyClientWins)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 2, second.Skipped)
	assert.Empty(t, second.Conflicts)
}
