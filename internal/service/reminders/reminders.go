// Package reminders decides which scheduled maintenance reminders are due.
// The check is read-only; completing a reminder is an external mutation
// owned by the store.
package reminders

import (
	"time"

	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// Service evaluates reminder snapshots against a reference date.
type Service struct {
	logger *zap.Logger
}

// NewService wires a new reminder service instance.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Due returns the pending reminders dated on or before asOf, comparing at
// calendar-day granularity: a reminder dated today is due regardless of the
// time of day. Input order is preserved; callers sort ascending upstream.
func (s *Service) Due(rems []models.Reminder, asOf time.Time) []models.Reminder {
	today := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	due := make([]models.Reminder, 0, len(rems))
	for _, r := range rems {
		if r.Status != models.ReminderPending {
			continue
		}
		d, err := time.Parse(models.DateLayout, r.Date)
		if err != nil {
			s.logger.Debug("skip reminder with unparseable date",
				zap.String("reminder_id", r.ID), zap.String("date", r.Date))
			continue
		}
		if !d.After(today) {
			due = append(due, r)
		}
	}

	return due
}
