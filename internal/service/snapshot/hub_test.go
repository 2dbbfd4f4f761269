package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

type stubRepo struct {
	records   []models.HarvestRecord
	prices    models.PriceBook
	factories []models.Factory
	plots     []models.Plot
	reminders []models.Reminder
	events    chan string
	watchErr  error
}

func (s *stubRepo) ListRecords(context.Context) ([]models.HarvestRecord, error) {
	return s.records, nil
}
func (s *stubRepo) PriceBook(context.Context) (models.PriceBook, error) { return s.prices, nil }
func (s *stubRepo) ListFactories(context.Context) ([]models.Factory, error) {
	return s.factories, nil
}
func (s *stubRepo) ListPlots(context.Context) ([]models.Plot, error)         { return s.plots, nil }
func (s *stubRepo) ListReminders(context.Context) ([]models.Reminder, error) { return s.reminders, nil }
func (s *stubRepo) Watch(context.Context) (<-chan string, error) {
	return s.events, s.watchErr
}

func TestHubRefresh(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		records:   []models.HarvestRecord{{ID: "r1"}},
		prices:    models.PriceBook{"2024-05": {"F1": 150}},
		factories: []models.Factory{{ID: "F1", Name: "Highgrown"}},
		plots:     []models.Plot{{ID: "P1", Name: "Upper Field"}},
		reminders: []models.Reminder{{ID: "m1", Status: models.ReminderPending}},
	}

	hub := NewHub(repo, nil)
	require.NoError(t, hub.Refresh(context.Background()))

	snap := hub.Current()
	assert.Len(t, snap.Records, 1)
	assert.Equal(t, 150.0, snap.Prices.Price("2024-05", "F1"))
	assert.Len(t, snap.Factories, 1)
	assert.Len(t, snap.Plots, 1)
	assert.Len(t, snap.Reminders, 1)
}

func TestHubReloadSingleCollection(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	hub := NewHub(repo, nil)
	require.NoError(t, hub.Refresh(context.Background()))
	assert.Empty(t, hub.Current().Records)

	repo.records = []models.HarvestRecord{{ID: "r1"}, {ID: "r2"}}
	require.NoError(t, hub.Reload(context.Background(), CollRecords))

	assert.Len(t, hub.Current().Records, 2)
	// Other collections are untouched by a single-collection reload.
	assert.Empty(t, hub.Current().Factories)
}

func TestHubRunConsumesChangeEvents(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{events: make(chan string, 1)}
	hub := NewHub(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.Run(ctx))

	repo.prices = models.PriceBook{"2024-05": {"F1": 150}}
	repo.events <- CollPrices
	close(repo.events)

	assert.Eventually(t, func() bool {
		return hub.Current().Prices.Price("2024-05", "F1") == 150
	}, time.Second, 10*time.Millisecond)
}

func TestHubRunWithoutWatcher(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{watchErr: assert.AnError}
	hub := NewHub(repo, nil)

	// A store without change streams still serves the initial snapshot.
	require.NoError(t, hub.Run(context.Background()))
	assert.Empty(t, hub.Current().Records)
}
