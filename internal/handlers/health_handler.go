package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and which collaborators are
// configured.
type HealthHandler struct {
	storageDriver      string
	generatorEnabled   bool
	emailEnabled       bool
	smsEnabled         bool
	generatorModelName string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(storageDriver, generatorModel string, generatorEnabled, emailEnabled, smsEnabled bool) *HealthHandler {
	return &HealthHandler{
		storageDriver:      storageDriver,
		generatorModelName: generatorModel,
		generatorEnabled:   generatorEnabled,
		emailEnabled:       emailEnabled,
		smsEnabled:         smsEnabled,
	}
}

// Check responds to GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"storage":         h.storageDriver,
		"generator":       h.generatorEnabled,
		"generator_model": h.generatorModelName,
		"email":           h.emailEnabled,
		"sms":             h.smsEnabled,
	})
}
