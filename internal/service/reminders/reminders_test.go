package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

func TestDue(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	// Late in the day so the midnight normalization actually matters.
	asOf := time.Date(2024, time.May, 10, 23, 45, 0, 0, time.UTC)

	rems := []models.Reminder{
		{ID: "a", Date: "2024-05-01", Status: models.ReminderPending},
		{ID: "b", Date: "2024-05-09", Status: models.ReminderCompleted},
		{ID: "c", Date: "2024-05-10", Status: models.ReminderPending},
		{ID: "d", Date: "2024-05-11", Status: models.ReminderPending},
		{ID: "e", Date: "bogus", Status: models.ReminderPending},
	}

	due := svc.Due(rems, asOf)
	require.Len(t, due, 2)

	// Input ordering survives: overdue first, today second.
	assert.Equal(t, "a", due[0].ID)
	assert.Equal(t, "c", due[1].ID)
}

func TestDueBoundary(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	asOf := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rem  models.Reminder
		due  bool
	}{
		{name: "dated today", rem: models.Reminder{Date: "2024-05-10", Status: models.ReminderPending}, due: true},
		{name: "dated tomorrow", rem: models.Reminder{Date: "2024-05-11", Status: models.ReminderPending}, due: false},
		{name: "completed yesterday", rem: models.Reminder{Date: "2024-05-09", Status: models.ReminderCompleted}, due: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := svc.Due([]models.Reminder{tt.rem}, asOf)
			assert.Equal(t, tt.due, len(got) == 1)
		})
	}
}

func TestDueEmpty(t *testing.T) {
	t.Parallel()
	svc := NewService(nil)

	assert.Empty(t, svc.Due(nil, time.Now()))
}
