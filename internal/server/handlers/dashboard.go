package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/service/advisor"
	"github.com/kandauda/tea-estate/internal/service/enrich"
	"github.com/kandauda/tea-estate/internal/service/reminders"
	"github.com/kandauda/tea-estate/internal/service/reporting"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
)

const yearSeriesMonths = 12

// DashboardHandler serves the aggregates behind the admin dashboard.
type DashboardHandler struct {
	hub       *snapshot.Hub
	reporting *reporting.Service
	reminders *reminders.Service
	advisor   *advisor.Service
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardHandler constructs the dashboard HTTP adapter. loc is the
// estate's timezone; "today" and the default month follow it, not UTC.
func NewDashboardHandler(hub *snapshot.Hub, rep *reporting.Service, rem *reminders.Service, adv *advisor.Service, loc *time.Location, logger *zap.Logger) *DashboardHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{
		hub:       hub,
		reporting: rep,
		reminders: rem,
		advisor:   adv,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// localNow is the reference time in the estate's timezone.
func (h *DashboardHandler) localNow() time.Time {
	return h.now().In(h.loc)
}

// monthParam returns the requested month, defaulting to the current one.
func (h *DashboardHandler) monthParam(c *gin.Context) (string, bool) {
	month := c.Query("month")
	if month == "" {
		return h.localNow().Format("2006-01"), true
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return "", false
	}
	return month, true
}

// View returns the month summary, expense distribution, due reminders and
// the trailing twelve month trend in one response.
func (h *DashboardHandler) View(c *gin.Context) {
	month, ok := h.monthParam(c)
	if !ok {
		return
	}
	plot := c.Query("plot")
	if plot == "" {
		plot = reporting.PlotAll
	}

	snap := h.hub.Current()
	processed, diags := enrich.EnrichAll(snap.Records, snap.Prices)
	for _, diag := range diags {
		h.logger.Warn("record excluded from dashboard", zap.Error(diag))
	}

	filter := reporting.Filter{Month: month, Plot: plot}

	filtered := processed[:0:0]
	for _, r := range processed {
		if filter.Match(r) {
			filtered = append(filtered, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"month":          month,
		"plot":           plot,
		"summary":        h.reporting.Summarize(processed, filter),
		"distribution":   h.reporting.Distribute(filtered),
		"dueReminders":   h.reminders.Due(snap.Reminders, h.localNow()),
		"yearSeries":     h.reporting.SeriesByMonth(processed, h.localNow(), yearSeriesMonths),
		"invalidRecords": len(diags),
	})
}

// Advice asks the generative backend to comment on the month's figures.
func (h *DashboardHandler) Advice(c *gin.Context) {
	month, ok := h.monthParam(c)
	if !ok {
		return
	}
	plot := c.Query("plot")
	if plot == "" {
		plot = reporting.PlotAll
	}

	snap := h.hub.Current()
	processed, _ := enrich.EnrichAll(snap.Records, snap.Prices)
	sum := h.reporting.Summarize(processed, reporting.Filter{Month: month, Plot: plot})

	text, err := h.advisor.MonthlyAdvice(c.Request.Context(), month, sum)
	if err != nil {
		if errors.Is(err, advisor.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advice is not configured"})
			return
		}
		h.logger.Error("advice request failed", zap.String("month", month), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "advice backend unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": month, "plot": plot, "advice": text})
}
