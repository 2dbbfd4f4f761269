package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
)

// PricesHandler covers the admin's monthly buy-back price tables.
type PricesHandler struct {
	store  Store
	hub    *snapshot.Hub
	logger *zap.Logger
}

// NewPricesHandler constructs the prices HTTP adapter.
func NewPricesHandler(store Store, hub *snapshot.Hub, logger *zap.Logger) *PricesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricesHandler{store: store, hub: hub, logger: logger}
}

// List returns the full price book.
func (h *PricesHandler) List(c *gin.Context) {
	book := h.hub.Current().Prices
	if book == nil {
		book = models.PriceBook{}
	}
	c.JSON(http.StatusOK, book)
}

// Merge upserts per-factory prices into a month's table. Existing entries
// for factories not in the payload are kept; this mirrors how price
// negotiation concludes factory by factory over weeks.
func (h *PricesHandler) Merge(c *gin.Context) {
	month := c.Param("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	var prices models.MonthPrices
	if err := c.ShouldBindJSON(&prices); err != nil || len(prices) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must map factory ids to prices"})
		return
	}
	for factoryID, price := range prices {
		if factoryID == "" || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prices must be non-negative and keyed by factory id"})
			return
		}
	}

	if err := h.store.MergeMonthPrices(c.Request.Context(), month, prices); err != nil {
		h.logger.Error("failed to merge prices", zap.String("month", month), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save prices"})
		return
	}

	if err := h.hub.Reload(c.Request.Context(), snapshot.CollPrices); err != nil {
		h.logger.Error("failed to refresh price snapshot", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}
