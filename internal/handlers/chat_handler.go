package handlers

import (
	"net/http"

	"github.com/konman95/mainst.ai/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatRequest is the body for POST /chat.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	ContactID string `json:"contact_id"`
	ThreadID  string `json:"thread_id"`
}

// ManualReplyRequest is the body for POST /chat/manual.
type ManualReplyRequest struct {
	ThreadID string `json:"thread_id"`
	Response string `json:"response"`
}

// ChatHandler exposes the owner console chat.
type ChatHandler struct {
	chat ChatServiceInterface
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat ChatServiceInterface) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat answers one owner message (POST /chat).
func (h *ChatHandler) Chat(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	res, err := h.chat.Chat(c.Request.Context(), uid, req.ContactID, req.ThreadID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// History returns a chat thread's messages (GET /chat/history).
func (h *ChatHandler) History(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	msgs, err := h.chat.History(uid, c.Query("thread_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Manual appends an operator-written reply (POST /chat/manual).
func (h *ChatHandler) Manual(c *gin.Context) {
	uid := c.GetString(middleware.ContextUID)

	var req ManualReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.chat.Manual(uid, req.ThreadID, req.Response); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
