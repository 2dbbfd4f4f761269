// Package snapshot keeps the latest full view of the estate's collections
// in memory. The engine's computations are pure functions over one
// snapshot, so the hub is the only place that deals with change delivery:
// it reloads collections when the store reports a change and hands out
// immutable copies to callers. Readers never see a half-updated mix.
package snapshot

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// Collection names as reported by the store watcher.
const (
	CollRecords   = "tea_records"
	CollPrices    = "monthly_prices"
	CollFactories = "factories"
	CollPlots     = "plots"
	CollReminders = "reminders"
)

// Repository is the slice of the store the hub reads from.
type Repository interface {
	ListRecords(ctx context.Context) ([]models.HarvestRecord, error)
	PriceBook(ctx context.Context) (models.PriceBook, error)
	ListFactories(ctx context.Context) ([]models.Factory, error)
	ListPlots(ctx context.Context) ([]models.Plot, error)
	ListReminders(ctx context.Context) ([]models.Reminder, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Snapshot is one consistent view of all five collections. Callers must
// treat it as immutable.
type Snapshot struct {
	Records   []models.HarvestRecord
	Prices    models.PriceBook
	Factories []models.Factory
	Plots     []models.Plot
	Reminders []models.Reminder
}

// Hub owns the current snapshot and serializes updates to it.
type Hub struct {
	repo   Repository
	logger *zap.Logger

	mu      sync.RWMutex
	current Snapshot
}

// NewHub wires a hub around the given repository.
func NewHub(repo Repository, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{repo: repo, logger: logger}
}

// Current returns the latest snapshot.
func (h *Hub) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Refresh reloads every collection from the store.
func (h *Hub) Refresh(ctx context.Context) error {
	for _, coll := range []string{CollRecords, CollPrices, CollFactories, CollPlots, CollReminders} {
		if err := h.Reload(ctx, coll); err != nil {
			return err
		}
	}
	return nil
}

// Reload refreshes a single collection. Handlers call this synchronously
// after their own writes so a read that follows the write observes it, even
// when the store watcher is unavailable.
func (h *Hub) Reload(ctx context.Context, coll string) error {
	switch coll {
	case CollRecords:
		records, err := h.repo.ListRecords(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.current.Records = records
		h.mu.Unlock()
	case CollPrices:
		book, err := h.repo.PriceBook(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.current.Prices = book
		h.mu.Unlock()
	case CollFactories:
		factories, err := h.repo.ListFactories(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.current.Factories = factories
		h.mu.Unlock()
	case CollPlots:
		plots, err := h.repo.ListPlots(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.current.Plots = plots
		h.mu.Unlock()
	case CollReminders:
		rems, err := h.repo.ListReminders(ctx)
		if err != nil {
			return err
		}
		h.mu.Lock()
		h.current.Reminders = rems
		h.mu.Unlock()
	default:
		h.logger.Debug("ignoring change on unknown collection", zap.String("collection", coll))
	}
	return nil
}

// Run performs the initial load and then follows store change events until
// the context is canceled. If the store cannot deliver change events the
// hub keeps working on handler-driven reloads alone.
func (h *Hub) Run(ctx context.Context) error {
	if err := h.Refresh(ctx); err != nil {
		return err
	}

	events, err := h.repo.Watch(ctx)
	if err != nil {
		h.logger.Warn("store change stream unavailable, relying on write-path reloads", zap.Error(err))
		return nil
	}

	go func() {
		for coll := range events {
			if err := h.Reload(ctx, coll); err != nil {
				h.logger.Error("failed to reload collection after change event",
					zap.String("collection", coll), zap.Error(err))
			}
		}
		h.logger.Info("store change stream closed")
	}()

	return nil
}
