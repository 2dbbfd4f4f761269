// Package advisor builds the monthly consultant prompt from aggregated
// figures and passes it through to the generative backend. The reply is
// returned verbatim; nothing here interprets or caches it.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/pkg/clients/gemini"
)

// ErrNotConfigured indicates no API key was provided at startup.
var ErrNotConfigured = errors.New("advice client not configured")

// Service requests estate advice for a month's figures.
type Service struct {
	client gemini.Client
	logger *zap.Logger
}

// NewService wires an advisor instance. A nil client disables the feature
// rather than failing startup.
func NewService(client gemini.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// BuildPrompt renders the consultant prompt for a month summary. Exported
// so the exact wording stays testable.
func BuildPrompt(monthID string, sum models.Summary) string {
	name := monthID
	if t, err := time.Parse("2006-01", monthID); err == nil {
		name = t.Format("January 2006")
	}

	profit := sum.ConfirmedIncome - sum.TotalExpenses
	return fmt.Sprintf(`You are an expert tea estate consultant. Analyze this data for %s in Sinhala language.
Harvest: %.1fkg, Income: LKR %.2f, Expenses: LKR %.2f, Profit: LKR %.2f.
Provide 3 bullet points of advice in Sinhala on how to improve profit and reduce cost based on these numbers. Keep it encouraging.`,
		name, sum.TotalHarvestKg, sum.ConfirmedIncome, sum.TotalExpenses, profit)
}

// MonthlyAdvice asks the backend for advice on the given month's summary.
func (s *Service) MonthlyAdvice(ctx context.Context, monthID string, sum models.Summary) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	prompt := BuildPrompt(monthID, sum)
	s.logger.Debug("requesting monthly advice", zap.String("month", monthID))

	text, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("monthly advice for %s: %w", monthID, err)
	}
	return text, nil
}
