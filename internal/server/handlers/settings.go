package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/internal/repository/mongodb"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
)

const minPINLength = 4

// SettingsHandler covers the reference entities (factories, plots),
// fertilizer reminders and the estate PINs.
type SettingsHandler struct {
	store  Store
	hub    *snapshot.Hub
	logger *zap.Logger
}

// NewSettingsHandler constructs the settings HTTP adapter.
func NewSettingsHandler(store Store, hub *snapshot.Hub, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{store: store, hub: hub, logger: logger}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListFactories returns the factory reference list.
func (h *SettingsHandler) ListFactories(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Current().Factories)
}

// CreateFactory adds a factory.
func (h *SettingsHandler) CreateFactory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	id, err := h.store.CreateFactory(c.Request.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to create factory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save factory"})
		return
	}
	h.reload(c, snapshot.CollFactories)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteFactory removes a factory. Existing records keep their denormalized
// factory name; no cascade.
func (h *SettingsHandler) DeleteFactory(c *gin.Context) {
	h.delete(c, snapshot.CollFactories, h.store.DeleteFactory)
}

// ListPlots returns the plot reference list.
func (h *SettingsHandler) ListPlots(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Current().Plots)
}

// CreatePlot adds a plot.
func (h *SettingsHandler) CreatePlot(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	id, err := h.store.CreatePlot(c.Request.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to create plot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save plot"})
		return
	}
	h.reload(c, snapshot.CollPlots)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeletePlot removes a plot without touching records that reference it.
func (h *SettingsHandler) DeletePlot(c *gin.Context) {
	h.delete(c, snapshot.CollPlots, h.store.DeletePlot)
}

// ListReminders returns reminders sorted by date ascending.
func (h *SettingsHandler) ListReminders(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Current().Reminders)
}

type reminderRequest struct {
	Date string `json:"date" binding:"required"`
}

// CreateReminder schedules a pending reminder.
func (h *SettingsHandler) CreateReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	if _, err := models.MonthID(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be a valid YYYY-MM-DD calendar date"})
		return
	}

	id, err := h.store.CreateReminder(c.Request.Context(), req.Date)
	if err != nil {
		h.logger.Error("failed to create reminder", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save reminder"})
		return
	}
	h.reload(c, snapshot.CollReminders)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// CompleteReminder acknowledges a pending reminder.
func (h *SettingsHandler) CompleteReminder(c *gin.Context) {
	h.delete(c, snapshot.CollReminders, h.store.CompleteReminder)
}

// DeleteReminder removes a reminder from either state.
func (h *SettingsHandler) DeleteReminder(c *gin.Context) {
	h.delete(c, snapshot.CollReminders, h.store.DeleteReminder)
}

// delete runs an id-keyed mutation and refreshes the affected collection.
func (h *SettingsHandler) delete(c *gin.Context, coll string, op func(ctx context.Context, id string) error) {
	id := c.Param("id")
	if err := op(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error("mutation failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}
	h.reload(c, coll)
	c.Status(http.StatusNoContent)
}

func (h *SettingsHandler) reload(c *gin.Context, coll string) {
	if err := h.hub.Reload(c.Request.Context(), coll); err != nil {
		h.logger.Error("failed to refresh snapshot after write", zap.String("collection", coll), zap.Error(err))
	}
}
