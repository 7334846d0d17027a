package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/testutil"
)

// note is a soft-deletable fixture type for Delete dispatch tests.
type note struct {
	ID      uint `gorm:"primaryKey"`
	Body    string
	Deleted bool
}

func (n *note) MarkDeleted() { n.Deleted = true }

func TestRepositoryAddAndGetByID(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := New[model.Event](db, testutil.Logger(t))

	ev := &model.Event{
		Title:        "Team Offsite",
		Date:         time.Now().UTC().AddDate(0, 0, 7),
		Location:     "Muscat",
		MaxAttendees: 50,
	}
	created, err := repo.Add(ctx, ev)
	require.NoError(t, err)
	require.NotZero(t, created.EventID)

	got, err := repo.GetByID(ctx, created.EventID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.EventID, got.EventID)
	assert.Equal(t, "Team Offsite", got.Title)
}

func TestRepositoryGetByIDAbsent(t *testing.T) {
	db := testutil.DB(t)
	repo := New[model.Event](db, testutil.Logger(t))

	got, err := repo.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryUpdateMissingRecord(t *testing.T) {
	db := testutil.DB(t)
	repo := New[model.Event](db, testutil.Logger(t))

	ghost := &model.Event{
		EventID:      4242,
		Title:        "Ghost",
		Date:         time.Now().UTC().AddDate(0, 0, 1),
		Location:     "Nowhere",
		MaxAttendees: 10,
	}
	err := repo.Update(context.Background(), ghost)
	require.ErrorIs(t, err, model.ErrConcurrency)

	// The failed update must not have inserted anything.
	got, err := repo.GetByID(context.Background(), 4242)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryDeletePhysical(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := New[model.Event](db, testutil.Logger(t))

	ev := testutil.SeedEvent(t, db, "Doomed", "Muscat", time.Now().UTC().AddDate(0, 0, 3), 20)
	require.NoError(t, repo.Delete(ctx, ev))

	got, err := repo.GetByID(ctx, ev.EventID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryDeleteSoftDeletable(t *testing.T) {
	db := testutil.DB(t)
	require.NoError(t, db.AutoMigrate(&note{}))
	ctx := context.Background()
	repo := New[note](db, testutil.Logger(t))

	n, err := repo.Add(ctx, &note{Body: "keep me around"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, n))

	// Soft-deletable records stay in the store with the marker flipped.
	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Deleted)
}

func TestRepositoryGetAllWithScopes(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := New[model.Event](db, testutil.Logger(t))

	base := time.Now().UTC()
	testutil.SeedEvent(t, db, "C", "Muscat", base.AddDate(0, 0, 3), 20)
	testutil.SeedEvent(t, db, "A", "Sohar", base.AddDate(0, 0, 1), 20)
	testutil.SeedEvent(t, db, "B", "Muscat", base.AddDate(0, 0, 2), 20)

	events, err := repo.GetAll(ctx, Where("location = ?", "Muscat"), OrderBy("title ASC"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "B", events[0].Title)
	assert.Equal(t, "C", events[1].Title)
}

func TestRepositoryGetPagedEmptySet(t *testing.T) {
	db := testutil.DB(t)
	repo := New[model.Event](db, testutil.Logger(t))

	items, total, err := repo.GetPaged(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestRepositoryGetPagedBeyondLastPage(t *testing.T) {
	db := testutil.DB(t)
	repo := New[model.Event](db, testutil.Logger(t))

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		testutil.SeedEvent(t, db, "Event", "Muscat", base.AddDate(0, 0, i+1), 20)
	}

	items, total, err := repo.GetPaged(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.EqualValues(t, 3, total)
}

func TestRepositoryGetPagedCountsFullFilteredSet(t *testing.T) {
	db := testutil.DB(t)
	repo := New[model.Event](db, testutil.Logger(t))

	base := time.Now().UTC()
	for i := 0; i < 7; i++ {
		testutil.SeedEvent(t, db, "Event", "Muscat", base.AddDate(0, 0, i+1), 20)
	}
	testutil.SeedEvent(t, db, "Event", "Sohar", base.AddDate(0, 0, 9), 20)

	items, total, err := repo.GetPaged(context.Background(), 2, 3,
		Where("location = ?", "Muscat"), OrderBy("date ASC"))
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.EqualValues(t, 7, total)
}

func TestRepositoryExists(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := New[model.Event](db, testutil.Logger(t))

	testutil.SeedEvent(t, db, "Here", "Nizwa", time.Now().UTC().AddDate(0, 0, 2), 20)

	ok, err := repo.Exists(ctx, Where("location = ?", "Nizwa"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, Where("location = ?", "Atlantis"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTxRunnerRollsBackOnError(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	runner := NewTxRunner(db)
	repo := New[model.Event](db, testutil.Logger(t))

	boom := assert.AnError
	err := runner.InTx(ctx, func(tx *gorm.DB) error {
		_, err := repo.WithTx(tx).Add(ctx, &model.Event{
			Title:        "Never Persisted",
			Date:         time.Now().UTC().AddDate(0, 0, 1),
			Location:     "Muscat",
			MaxAttendees: 10,
		})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := repo.Exists(ctx, Where("title = ?", "Never Persisted"))
	require.NoError(t, err)
	assert.False(t, ok)
}
