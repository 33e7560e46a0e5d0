package handlers

import (
	"net/http"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// NotificationUpdate is the body for POST /notifications.
type NotificationUpdate struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=new acknowledged resolved"`
}

// NotificationHandler exposes the notification center.
type NotificationHandler struct {
	notifications NotificationServiceInterface
	cfg           ConfigServiceInterface
	audit         AuditServiceInterface
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(notifications NotificationServiceInterface, cfg ConfigServiceInterface, audit AuditServiceInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, cfg: cfg, audit: audit}
}

// List returns the alert list with synthetic alerts recomputed
// (GET /notifications).
func (h *NotificationHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	alerts, err := h.notifications.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// UpdateStatus sets one alert's status (POST /notifications).
func (h *NotificationHandler) UpdateStatus(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var req NotificationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and a valid status are required"})
		return
	}

	alerts, err := h.notifications.UpdateStatus(uid, req.ID, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	h.audit.Append(uid, map[string]interface{}{"type": "notification_update", "id": req.ID, "status": req.Status})

	c.JSON(http.StatusOK, alerts)
}

// GetRouting returns the delivery settings (GET /notifications/routing).
func (h *NotificationHandler) GetRouting(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	routing, err := h.cfg.NotificationRouting(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load routing"})
		return
	}
	c.JSON(http.StatusOK, routing)
}

// SetRouting replaces the delivery settings (POST /notifications/routing).
func (h *NotificationHandler) SetRouting(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var routing models.NotificationRouting
	if err := c.ShouldBindJSON(&routing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid routing payload"})
		return
	}
	if routing.MinSeverity == "" {
		routing.MinSeverity = models.SeverityHigh
	}

	if err := h.cfg.SetNotificationRouting(uid, &routing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save routing"})
		return
	}
	h.audit.Append(uid, map[string]interface{}{"type": "notification_routing_update"})

	c.JSON(http.StatusOK, routing)
}
