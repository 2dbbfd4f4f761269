package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// AuthHandler covers PIN setup, verification and rotation. PINs are opaque
// secrets compared by equality; real credential handling belongs to the
// external identity provider in front of this service.
type AuthHandler struct {
	store  Store
	logger *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(store Store, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{store: store, logger: logger}
}

type pinRequest struct {
	PIN string `json:"pin" binding:"required"`
}

type changePINRequest struct {
	Type       string `json:"type" binding:"required,oneof=admin app"`
	CurrentPIN string `json:"currentPin" binding:"required"`
	NewPIN     string `json:"newPin" binding:"required"`
}

// Setup stores the first admin PIN. Refused once one exists.
func (h *AuthHandler) Setup(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.PIN) < minPINLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pin must be at least 4 characters"})
		return
	}

	sec, err := h.store.Security(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load security settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	if sec.AdminPIN != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "admin pin already configured"})
		return
	}

	sec.AdminPIN = req.PIN
	if err := h.store.SaveSecurity(c.Request.Context(), sec); err != nil {
		h.logger.Error("failed to save security settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.Status(http.StatusCreated)
}

// Verify resolves a PIN to its role.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pin is required"})
		return
	}

	sec, err := h.store.Security(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load security settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}

	switch req.PIN {
	case "":
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid pin"})
	case sec.AdminPIN:
		c.JSON(http.StatusOK, gin.H{"role": models.RoleAdmin})
	case sec.AppPIN:
		c.JSON(http.StatusOK, gin.H{"role": models.RoleWorker})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid pin"})
	}
}

// Change rotates either PIN. Both rotations require the current admin PIN,
// matching how the admin manages worker access.
func (h *AuthHandler) Change(c *gin.Context) {
	var req changePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type, currentPin and newPin are required"})
		return
	}
	if len(req.NewPIN) < minPINLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new pin must be at least 4 characters"})
		return
	}

	sec, err := h.store.Security(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load security settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	if sec.AdminPIN == "" || req.CurrentPIN != sec.AdminPIN {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin pin mismatch"})
		return
	}

	if req.Type == "admin" {
		sec.AdminPIN = req.NewPIN
	} else {
		sec.AppPIN = req.NewPIN
	}
	if err := h.store.SaveSecurity(c.Request.Context(), sec); err != nil {
		h.logger.Error("failed to save security settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.Status(http.StatusNoContent)
}
