package handlers

import (
	"net/http"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler exposes contacts, threads and messages.
type ContactHandler struct {
	contacts ContactServiceInterface
}

// NewContactHandler creates a contact handler.
func NewContactHandler(contacts ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List returns every contact (GET /contacts).
func (h *ContactHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	rows, err := h.contacts.ListContacts(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Create upserts a contact (POST /contacts). Missing ids are generated.
func (h *ContactHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact payload"})
		return
	}
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.LeadStatus == "" {
		contact.LeadStatus = "new"
	}

	if err := h.contacts.UpsertContact(uid, &contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contact"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

// ListThreads returns threads, optionally filtered by contact
// (GET /threads).
func (h *ContactHandler) ListThreads(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	rows, err := h.contacts.ListThreads(uid, c.Query("contact_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list threads"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListMessages returns a thread's messages (GET /threads/:id/messages).
func (h *ContactHandler) ListMessages(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	rows, err := h.contacts.ListMessages(uid, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
