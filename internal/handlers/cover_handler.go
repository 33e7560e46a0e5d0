package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/pkg/logger"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CoverHandler exposes the inbound pipeline and its cover settings.
type CoverHandler struct {
	cover         CoverServiceInterface
	cfg           ConfigServiceInterface
	notifications NotificationServiceInterface
	audit         AuditServiceInterface
}

// NewCoverHandler creates a cover handler.
func NewCoverHandler(cover CoverServiceInterface, cfg ConfigServiceInterface, notifications NotificationServiceInterface, audit AuditServiceInterface) *CoverHandler {
	return &CoverHandler{cover: cover, cfg: cfg, notifications: notifications, audit: audit}
}

// HandleInbound processes one customer message (POST /ownercover/handleInbound).
func (h *CoverHandler) HandleInbound(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var inbound models.InboundMessage
	if err := c.ShouldBindJSON(&inbound); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_id and text are required"})
		return
	}

	res, err := h.cover.HandleInbound(c.Request.Context(), uid, &inbound)
	if err != nil {
		logger.Error("Inbound processing failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	logger.Info("Inbound processed",
		zap.String("uid", uid),
		zap.String("status", res.Status),
		zap.String("decision_id", res.DecisionID),
	)
	c.JSON(http.StatusOK, res)
}

// ListDecisions returns decision records (GET /decisions).
func (h *CoverHandler) ListDecisions(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	rows, err := h.cover.ListDecisions(uid, c.Query("contact_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list decisions"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetSettings returns the cover settings (GET /ownercover/settings).
func (h *CoverHandler) GetSettings(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	cs, err := h.cfg.CoverSettings(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, cs)
}

// SetSettings replaces the cover settings (POST /ownercover/settings).
// Saving a non-autosend mode raises the mode alert so the owner knows
// approvals are now required.
func (h *CoverHandler) SetSettings(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var cs models.CoverSettings
	if err := c.ShouldBindJSON(&cs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings payload"})
		return
	}
	if err := validateCoverSettings(&cs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cfg.SetCoverSettings(uid, &cs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	h.audit.Append(uid, map[string]interface{}{"type": "ownerCover_update", "settings": cs})

	if cs.Mode != models.ModeAutosend {
		status := models.AlertAcknowledged
		if cs.Mode == models.ModeOff {
			status = models.AlertNew
		}
		if err := h.notifications.Add(uid, models.Notification{
			ID:       "alert-ownercover-mode",
			Title:    "Owner Cover not in Auto-Send",
			Detail:   "Owner Cover is " + cs.Mode + ". Approvals are required.",
			Severity: models.SeverityMedium,
			Status:   status,
			Ts:       time.Now().Unix(),
			Tags:     []string{"ownercover", "mode"},
		}); err != nil {
			logger.Error("Mode alert failed", zap.String("uid", uid), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, cs)
}

func validateCoverSettings(cs *models.CoverSettings) error {
	switch cs.Mode {
	case models.ModeOff, models.ModeMonitor, models.ModeAutosend:
	default:
		return errors.New("mode must be off, monitor or autosend")
	}
	if cs.ConfidenceThreshold < 0 || cs.ConfidenceThreshold > 1 {
		return errors.New("confidence_threshold must be between 0 and 1")
	}
	return nil
}

// RunFollowups triggers one follow-up sweep (POST /cron/run). Guarded by
// the shared cron secret instead of a role check so an external scheduler
// can call it.
type CronHandler struct {
	followups FollowupServiceInterface
	secret    string
	budget    time.Duration
}

// NewCronHandler creates a cron handler.
func NewCronHandler(followups FollowupServiceInterface, secret string, budget time.Duration) *CronHandler {
	if budget <= 0 {
		budget = 60 * time.Second
	}
	return &CronHandler{followups: followups, secret: secret, budget: budget}
}

// Run executes the follow-up sweep for the calling tenant.
func (h *CronHandler) Run(c *gin.Context) {
	if c.GetHeader("X-Cron-Secret") != h.secret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bad cron secret"})
		return
	}

	// The scheduler authenticates with the secret, not a bearer token, so
	// the tenant comes from the query string.
	uid := c.Query("uid")
	if uid == "" {
		uid = c.GetString(middleware.ContextUID)
	}
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.budget)
	defer cancel()

	res, err := h.followups.Run(ctx, uid)
	if err != nil {
		logger.Error("Follow-up sweep failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Follow-up sweep failed"})
		return
	}

	if res.Disabled {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "follow_up disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sent": res.Sent, "queued": res.Queued})
}
