package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/internal/service/advisor"
	"github.com/kandauda/tea-estate/internal/service/reminders"
	"github.com/kandauda/tea-estate/internal/service/reporting"
	"github.com/kandauda/tea-estate/pkg/clients/gemini"
)

type stubAdviceClient struct {
	gotPrompt string
}

func (s *stubAdviceClient) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return "advice text", nil
}

func newDashboardHandler(t *testing.T, repo *stubSnapshotRepo, client *stubAdviceClient, loc *time.Location) *DashboardHandler {
	t.Helper()

	var backend gemini.Client
	if client != nil {
		backend = client
	}
	return NewDashboardHandler(
		newTestHub(t, repo),
		reporting.NewService(nil),
		reminders.NewService(nil),
		advisor.NewService(backend, nil),
		loc,
		nil,
	)
}

func getDashboard(t *testing.T, h *DashboardHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/api/dashboard", h.View)
	r.GET("/api/dashboard/advice", h.Advice)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAdviceUsesPlotFilter(t *testing.T) {
	t.Parallel()

	repo := &stubSnapshotRepo{
		records: []models.HarvestRecord{
			{ID: "r1", Date: "2024-05-10", PlotID: "P1", FactoryID: "F1", HarvestAmount: 10},
			{ID: "r2", Date: "2024-05-11", PlotID: "P2", FactoryID: "F1", HarvestAmount: 20},
		},
		prices: models.PriceBook{"2024-05": {"F1": 100}},
	}
	client := &stubAdviceClient{}
	h := newDashboardHandler(t, repo, client, nil)

	w := getDashboard(t, h, "/api/dashboard/advice?month=2024-05&plot=P1")
	require.Equal(t, http.StatusOK, w.Code)

	// Only the P1 record's figures reach the prompt.
	assert.Contains(t, client.gotPrompt, "Harvest: 10.0kg")
	assert.Contains(t, client.gotPrompt, "Income: LKR 1000.00")
}

func TestAdviceWithoutPlotCoversWholeEstate(t *testing.T) {
	t.Parallel()

	repo := &stubSnapshotRepo{
		records: []models.HarvestRecord{
			{ID: "r1", Date: "2024-05-10", PlotID: "P1", FactoryID: "F1", HarvestAmount: 10},
			{ID: "r2", Date: "2024-05-11", PlotID: "P2", FactoryID: "F1", HarvestAmount: 20},
		},
		prices: models.PriceBook{"2024-05": {"F1": 100}},
	}
	client := &stubAdviceClient{}
	h := newDashboardHandler(t, repo, client, nil)

	w := getDashboard(t, h, "/api/dashboard/advice?month=2024-05")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, client.gotPrompt, "Harvest: 30.0kg")
}

func TestViewDefaultsToEstateLocalMonth(t *testing.T) {
	t.Parallel()

	repo := &stubSnapshotRepo{
		reminders: []models.Reminder{
			{ID: "m1", Date: "2024-06-01", Status: models.ReminderPending},
		},
	}
	h := newDashboardHandler(t, repo, nil, time.FixedZone("UTC+5:30", 5*3600+1800))

	// 20:00 UTC on May 31 is already June 1, 01:30 on the estate.
	h.now = func() time.Time {
		return time.Date(2024, time.May, 31, 20, 0, 0, 0, time.UTC)
	}

	w := getDashboard(t, h, "/api/dashboard")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Month        string            `json:"month"`
		DueReminders []models.Reminder `json:"dueReminders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "2024-06", resp.Month)
	require.Len(t, resp.DueReminders, 1)
	assert.Equal(t, "m1", resp.DueReminders[0].ID)
}
