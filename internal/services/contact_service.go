package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"
)

// ContactService manages contacts, threads and the messages within them.
type ContactService struct {
	store store.Store
}

// NewContactService creates a contact service backed by st.
func NewContactService(st store.Store) *ContactService {
	return &ContactService{store: st}
}

// GetContact returns the contact, or nil if it does not exist.
func (s *ContactService) GetContact(uid, contactID string) (*models.Contact, error) {
	c := &models.Contact{}
	err := s.store.GetDoc(uid, "contacts/"+contactID, c)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpsertContact writes the contact, replacing any previous version.
func (s *ContactService) UpsertContact(uid string, c *models.Contact) error {
	if c.ID == "" {
		return fmt.Errorf("contact ID is required")
	}
	return s.store.SetDoc(uid, "contacts/"+c.ID, c)
}

// ListContacts returns every contact for the tenant.
func (s *ContactService) ListContacts(uid string) ([]models.Contact, error) {
	rows, err := s.store.ListDocs(uid, "contacts/")
	if err != nil {
		return nil, err
	}
	out := make([]models.Contact, 0, len(rows))
	for _, raw := range rows {
		var c models.Contact
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// UpsertThread writes the thread, replacing any previous version.
func (s *ContactService) UpsertThread(uid string, t *models.Thread) error {
	if t.ID == "" {
		return fmt.Errorf("thread ID is required")
	}
	return s.store.SetDoc(uid, "threads/"+t.ID, t)
}

// ListThreads returns the tenant's threads, optionally filtered by contact.
func (s *ContactService) ListThreads(uid, contactID string) ([]models.Thread, error) {
	rows, err := s.store.ListDocs(uid, "threads/")
	if err != nil {
		return nil, err
	}
	out := make([]models.Thread, 0, len(rows))
	for _, raw := range rows {
		var t models.Thread
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		if contactID != "" && t.ContactID != contactID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func messagesCollection(threadID string) string {
	return fmt.Sprintf("threads/%s/messages", threadID)
}

// SaveMessage appends a message to the thread's history.
func (s *ContactService) SaveMessage(uid, threadID string, m *models.Message) error {
	return s.store.AppendDoc(uid, messagesCollection(threadID), m)
}

// ListMessages returns the thread's messages in insertion order.
func (s *ContactService) ListMessages(uid, threadID string) ([]models.Message, error) {
	rows, err := s.store.ListCollection(uid, messagesCollection(threadID))
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(rows))
	for _, raw := range rows {
		var m models.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
