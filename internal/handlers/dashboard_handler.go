package handlers

import (
	"net/http"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// DashboardHandler exposes the daily counters and the outcomes loop.
type DashboardHandler struct {
	dashboard DashboardServiceInterface
	outcomes  OutcomeServiceInterface
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(dashboard DashboardServiceInterface, outcomes OutcomeServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, outcomes: outcomes}
}

// Summary returns today's counters, or the weekly minutes-saved rollup
// when range=week (GET /dashboard/summary).
func (h *DashboardHandler) Summary(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	if c.Query("range") == "week" {
		week, err := h.dashboard.Week(uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
			return
		}
		c.JSON(http.StatusOK, week)
		return
	}

	today, err := h.dashboard.Today(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}
	c.JSON(http.StatusOK, today)
}

// RecordOutcome persists one outcome (POST /outcomes).
func (h *DashboardHandler) RecordOutcome(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var outcome models.Outcome
	if err := c.ShouldBindJSON(&outcome); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_id and type are required"})
		return
	}

	rec, err := h.outcomes.Record(uid, &outcome)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record outcome"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": rec.ID})
}

// ListOutcomes returns outcomes, optionally filtered by contact
// (GET /outcomes).
func (h *DashboardHandler) ListOutcomes(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	rows, err := h.outcomes.List(uid, c.Query("contact_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list outcomes"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
