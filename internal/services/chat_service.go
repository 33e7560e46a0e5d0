package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/konman95/mainst.ai/internal/models"

	"github.com/google/uuid"
)

// ChatResponse is the reply to one owner chat message.
type ChatResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"thread_id"`
}

// ChatService runs the owner console chat: same composer as the inbound
// pipeline, but no policy evaluation and no queueing.
type ChatService struct {
	cfg      *ConfigService
	contacts *ContactService
	stats    *StatsService
	audit    *AuditService
	composer *Composer
}

// NewChatService creates a chat service.
func NewChatService(cfg *ConfigService, contacts *ContactService, stats *StatsService, audit *AuditService, composer *Composer) *ChatService {
	return &ChatService{cfg: cfg, contacts: contacts, stats: stats, audit: audit, composer: composer}
}

// Chat answers one owner message and records both sides of the exchange.
func (s *ChatService) Chat(ctx context.Context, uid, contactID, threadID, message string) (*ChatResponse, error) {
	bp, err := s.cfg.BusinessProfile(uid)
	if err != nil {
		return nil, err
	}
	cs, err := s.cfg.CoverSettings(uid)
	if err != nil {
		return nil, err
	}

	if contactID == "" {
		contactID = "owner"
	}
	contact, err := s.contacts.GetContact(uid, contactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		contact = models.NewContact(contactID)
		contact.Name = "Owner"
	}
	if err := s.contacts.UpsertContact(uid, contact); err != nil {
		return nil, err
	}

	if threadID == "" {
		threadID = models.ThreadID(contactID, models.ChannelWebchat)
	}
	thread := &models.Thread{ID: threadID, ContactID: contactID, Channel: models.ChannelWebchat}
	if err := s.contacts.UpsertThread(uid, thread); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	msgIn := &models.Message{ID: uuid.New().String(), Role: models.RoleUser, Text: message, Ts: now}
	if err := s.contacts.SaveMessage(uid, threadID, msgIn); err != nil {
		return nil, err
	}

	reply := s.composer.Compose(ctx, bp, cs, contact, message, "chat", IntentDefault)
	msgOut := &models.Message{ID: uuid.New().String(), Role: models.RoleAssistant, Text: reply, Ts: time.Now().Unix()}
	if err := s.contacts.SaveMessage(uid, threadID, msgOut); err != nil {
		return nil, err
	}

	if err := s.stats.Inc(uid, "chat_messages", 1); err != nil {
		return nil, err
	}
	s.audit.Append(uid, map[string]interface{}{"type": "chat", "thread_id": threadID, "in": message, "out": reply})

	return &ChatResponse{Reply: reply, ThreadID: threadID}, nil
}

// History returns the messages in a chat thread, defaulting to the owner's
// webchat thread.
func (s *ChatService) History(uid, threadID string) ([]models.Message, error) {
	if threadID == "" {
		threadID = models.ThreadID("owner", models.ChannelWebchat)
	}
	return s.contacts.ListMessages(uid, threadID)
}

// Manual appends an operator-written reply to a thread without involving
// the composer.
func (s *ChatService) Manual(uid, threadID, response string) error {
	if threadID == "" {
		threadID = models.ThreadID("owner", models.ChannelWebchat)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return fmt.Errorf("response is required")
	}

	msg := &models.Message{ID: uuid.New().String(), Role: models.RoleAssistant, Text: response, Ts: time.Now().Unix()}
	if err := s.contacts.SaveMessage(uid, threadID, msg); err != nil {
		return err
	}
	s.audit.Append(uid, map[string]interface{}{"type": "chat_manual", "thread_id": threadID, "out": response})
	return nil
}
