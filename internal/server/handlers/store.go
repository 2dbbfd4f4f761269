package handlers

import (
	"context"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// Store is the slice of the document store the HTTP layer writes through.
// Reads go through the snapshot hub instead so every view is computed from
// one consistent snapshot.
type Store interface {
	CreateRecord(ctx context.Context, rec models.HarvestRecord) (string, error)
	UpdateRecord(ctx context.Context, rec models.HarvestRecord) error
	DeleteRecord(ctx context.Context, id string) error

	MergeMonthPrices(ctx context.Context, month string, prices models.MonthPrices) error

	CreateFactory(ctx context.Context, name string) (string, error)
	DeleteFactory(ctx context.Context, id string) error
	CreatePlot(ctx context.Context, name string) (string, error)
	DeletePlot(ctx context.Context, id string) error

	CreateReminder(ctx context.Context, date string) (string, error)
	CompleteReminder(ctx context.Context, id string) error
	DeleteReminder(ctx context.Context, id string) error

	Security(ctx context.Context) (models.Security, error)
	SaveSecurity(ctx context.Context, sec models.Security) error
}
