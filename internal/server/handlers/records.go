package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/internal/repository/mongodb"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
)

// unknownName is the display fallback when a record references a deleted
// plot or factory and carries no snapshot name of its own.
const unknownName = "(unknown)"

// RecordsHandler covers worker entry and admin edits of harvest records.
type RecordsHandler struct {
	store  Store
	hub    *snapshot.Hub
	logger *zap.Logger
}

// NewRecordsHandler constructs the records HTTP adapter.
func NewRecordsHandler(store Store, hub *snapshot.Hub, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{store: store, hub: hub, logger: logger}
}

type recordRequest struct {
	Date          string  `json:"date" binding:"required"`
	PlotID        string  `json:"plotId" binding:"required"`
	FactoryID     string  `json:"factoryId"`
	HarvestAmount float64 `json:"harvestAmount" binding:"gte=0"`
	WorkerCount   int     `json:"workerCount" binding:"gte=0"`
	LaborCost     float64 `json:"laborCost" binding:"gte=0"`
	TransportCost float64 `json:"transportCost" binding:"gte=0"`
	OtherCost     float64 `json:"otherCost" binding:"gte=0"`
	Notes         string  `json:"notes"`
	Image         string  `json:"image"`
}

// toRecord validates the boundary invariants and materializes a record with
// denormalized name snapshots resolved from the current reference lists.
// prior is the stored record on an edit (zero on create); when the edit
// keeps pointing at a since-deleted reference, its stored name survives.
func (h *RecordsHandler) toRecord(c *gin.Context, req recordRequest, prior models.HarvestRecord) (models.HarvestRecord, bool) {
	if _, err := models.MonthID(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be a valid YYYY-MM-DD calendar date"})
		return models.HarvestRecord{}, false
	}
	// Harvested leaf has to be attributable to a factory to ever be priced.
	if req.HarvestAmount > 0 && req.FactoryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "factoryId is required when harvestAmount > 0"})
		return models.HarvestRecord{}, false
	}

	var storedPlot, storedFactory string
	if prior.PlotID == req.PlotID {
		storedPlot = prior.PlotName
	}
	if prior.FactoryID == req.FactoryID {
		storedFactory = prior.FactoryName
	}

	snap := h.hub.Current()
	rec := models.HarvestRecord{
		Date:          req.Date,
		PlotID:        req.PlotID,
		PlotName:      h.plotName(snap, req.PlotID, storedPlot),
		FactoryID:     req.FactoryID,
		HarvestAmount: req.HarvestAmount,
		WorkerCount:   req.WorkerCount,
		LaborCost:     req.LaborCost,
		TransportCost: req.TransportCost,
		OtherCost:     req.OtherCost,
		Notes:         req.Notes,
		Image:         req.Image,
	}
	if req.FactoryID != "" {
		rec.FactoryName = h.factoryName(snap, req.FactoryID, storedFactory)
	}
	return rec, true
}

// storedRecord finds the current stored state of a record being edited.
func (h *RecordsHandler) storedRecord(id string) models.HarvestRecord {
	for _, r := range h.hub.Current().Records {
		if r.ID == id {
			return r
		}
	}
	return models.HarvestRecord{}
}

func (h *RecordsHandler) plotName(snap snapshot.Snapshot, id, stored string) string {
	for _, p := range snap.Plots {
		if p.ID == id {
			return p.Name
		}
	}
	if stored != "" {
		return stored
	}
	h.logger.Warn("record references unknown plot", zap.String("plot_id", id))
	return unknownName
}

func (h *RecordsHandler) factoryName(snap snapshot.Snapshot, id, stored string) string {
	for _, f := range snap.Factories {
		if f.ID == id {
			return f.Name
		}
	}
	if stored != "" {
		return stored
	}
	h.logger.Warn("record references unknown factory", zap.String("factory_id", id))
	return unknownName
}

// Create ingests a worker's daily entry.
func (h *RecordsHandler) Create(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, ok := h.toRecord(c, req, models.HarvestRecord{})
	if !ok {
		return
	}

	id, err := h.store.CreateRecord(c.Request.Context(), rec)
	if err != nil {
		h.logger.Error("failed to create record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
		return
	}

	h.reload(c, snapshot.CollRecords)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update applies an admin edit to an existing record.
func (h *RecordsHandler) Update(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, ok := h.toRecord(c, req, h.storedRecord(c.Param("id")))
	if !ok {
		return
	}
	rec.ID = c.Param("id")

	if err := h.store.UpdateRecord(c.Request.Context(), rec); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		h.logger.Error("failed to update record", zap.String("record_id", rec.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update record"})
		return
	}

	h.reload(c, snapshot.CollRecords)
	c.Status(http.StatusNoContent)
}

// Delete removes a record permanently.
func (h *RecordsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteRecord(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		h.logger.Error("failed to delete record", zap.String("record_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete record"})
		return
	}

	h.reload(c, snapshot.CollRecords)
	c.Status(http.StatusNoContent)
}

func (h *RecordsHandler) reload(c *gin.Context, coll string) {
	if err := h.hub.Reload(c.Request.Context(), coll); err != nil {
		h.logger.Error("failed to refresh snapshot after write", zap.String("collection", coll), zap.Error(err))
	}
}
