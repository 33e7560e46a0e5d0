package handlers

import (
	"errors"
	"net/http"

	"github.com/konman95/mainst.ai/internal/services"
	"github.com/konman95/mainst.ai/pkg/logger"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApproveRequest is the body for POST /actionQueue/approve.
type ApproveRequest struct {
	ActionID string `json:"action_id" binding:"required"`
	Approve  *bool  `json:"approve" binding:"required"`
}

// ActionHandler exposes the action queue.
type ActionHandler struct {
	actions ActionServiceInterface
	audit   AuditServiceInterface
}

// NewActionHandler creates an action handler.
func NewActionHandler(actions ActionServiceInterface, audit AuditServiceInterface) *ActionHandler {
	return &ActionHandler{actions: actions, audit: audit}
}

// List returns every queue item (GET /actionQueue).
func (h *ActionHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	items, err := h.actions.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list action queue"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Approve resolves one pending item (POST /actionQueue/approve).
func (h *ActionHandler) Approve(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action_id and approve are required"})
		return
	}

	res, err := h.actions.Approve(uid, req.ActionID, *req.Approve)
	if errors.Is(err, services.ErrActionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
		return
	}
	if err != nil {
		logger.Error("Approval failed",
			zap.String("uid", uid),
			zap.String("action_id", req.ActionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// AuditLog returns the audit trail (GET /auditLog).
func (h *ActionHandler) AuditLog(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	entries, err := h.audit.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
