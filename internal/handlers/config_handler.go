package handlers

import (
	"net/http"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ConfigHandler exposes the business profile.
type ConfigHandler struct {
	cfg   ConfigServiceInterface
	audit AuditServiceInterface
}

// NewConfigHandler creates a config handler.
func NewConfigHandler(cfg ConfigServiceInterface, audit AuditServiceInterface) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, audit: audit}
}

// GetBusinessProfile returns the profile (GET /config/businessProfile).
func (h *ConfigHandler) GetBusinessProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	bp, err := h.cfg.BusinessProfile(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, bp)
}

// SetBusinessProfile replaces the profile (POST /config/businessProfile).
func (h *ConfigHandler) SetBusinessProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var bp models.BusinessProfile
	if err := c.ShouldBindJSON(&bp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile payload"})
		return
	}

	if err := h.cfg.SetBusinessProfile(uid, &bp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	h.audit.Append(uid, map[string]interface{}{"type": "businessProfile_update", "profile": bp})

	c.JSON(http.StatusOK, bp)
}
