package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"

	"github.com/google/uuid"
)

// ErrActionNotFound indicates the referenced action queue item does not
// exist.
var ErrActionNotFound = errors.New("action not found")

// ApprovalResult is the outcome of one approve or reject call.
type ApprovalResult struct {
	Status   string `json:"status"`
	ActionID string `json:"action_id"`
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ActionService owns the action queue state machine. Items start in
// needs_approval (or pre-closed as sent for autosend decisions) and only
// move forward; all transitions run as atomic read-modify-writes so two
// racing approvals cannot both send.
type ActionService struct {
	store          store.Store
	contacts       *ContactService
	stats          *StatsService
	audit          *AuditService
	cfg            *ConfigService
	defaultMinutes int
}

// NewActionService creates an action service. defaultMinutes is the
// minutes-saved credit applied when the tenant has not configured one.
func NewActionService(st store.Store, contacts *ContactService, stats *StatsService, audit *AuditService, cfg *ConfigService, defaultMinutes int) *ActionService {
	if defaultMinutes <= 0 {
		defaultMinutes = 2
	}
	return &ActionService{
		store:          st,
		contacts:       contacts,
		stats:          stats,
		audit:          audit,
		cfg:            cfg,
		defaultMinutes: defaultMinutes,
	}
}

func actionPath(id string) string {
	return "actionQueue/" + id
}

func listActionQueueItems(st store.Store, uid string) ([]models.ActionQueueItem, error) {
	rows, err := st.ListDocs(uid, "actionQueue/")
	if err != nil {
		return nil, err
	}
	out := make([]models.ActionQueueItem, 0, len(rows))
	for _, raw := range rows {
		var a models.ActionQueueItem
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// List returns every action queue item for the tenant.
func (s *ActionService) List(uid string) ([]models.ActionQueueItem, error) {
	return listActionQueueItems(s.store, uid)
}

// Create writes a new queue item for a decision. status must be one of the
// initial states (needs_approval or sent).
func (s *ActionService) Create(uid string, d *models.Decision, status, reason string, sentTs *int64) (*models.ActionQueueItem, error) {
	action := &models.ActionQueueItem{
		ID:         uuid.New().String(),
		DecisionID: d.ID,
		Status:     status,
		ContactID:  d.ContactID,
		ThreadID:   d.ThreadID,
		Channel:    d.Channel,
		Draft:      d.Draft,
		Reason:     reason,
		Confidence: d.Confidence,
		CreatedTs:  time.Now().Unix(),
		SentTs:     sentTs,
	}
	if err := s.store.SetDoc(uid, actionPath(action.ID), action); err != nil {
		return nil, err
	}
	return action, nil
}

// minutesSaved resolves the per-action minutes credit from the tenant's
// settings, falling back to the configured default.
func (s *ActionService) minutesSaved(cs *models.CoverSettings) int {
	if cs != nil && cs.MinutesPerAction > 0 {
		return cs.MinutesPerAction
	}
	return s.defaultMinutes
}

// Approve resolves a pending item. approve=true walks it through approved
// to sent and delivers the draft as an outbound message; approve=false
// blocks it. Items not in needs_approval yield a noop result with their
// current status, which makes repeated calls harmless.
func (s *ActionService) Approve(uid, actionID string, approve bool) (*ApprovalResult, error) {
	var action models.ActionQueueItem

	err := s.store.UpdateDoc(uid, actionPath(actionID), func(raw []byte) (interface{}, error) {
		if raw == nil {
			return nil, ErrActionNotFound
		}
		if err := json.Unmarshal(raw, &action); err != nil {
			return nil, err
		}
		if action.Status != models.ActionNeedsApproval {
			return nil, store.ErrUnchanged
		}
		if !approve {
			action.Status = models.ActionBlocked
		} else {
			action.Status = models.ActionApproved
		}
		return &action, nil
	})
	if errors.Is(err, store.ErrUnchanged) {
		return &ApprovalResult{
			Status:   "noop",
			ActionID: actionID,
			Message:  fmt.Sprintf("Action already %s", action.Status),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if action.Status == models.ActionBlocked {
		if err := s.stats.Inc(uid, "blocked", 1); err != nil {
			return nil, err
		}
		s.audit.Append(uid, map[string]interface{}{"type": "action_blocked", "action": action})
		return &ApprovalResult{Status: "blocked", ActionID: action.ID}, nil
	}

	now := time.Now().Unix()
	msg := &models.Message{
		ID:   uuid.New().String(),
		Role: models.RoleAssistant,
		Text: action.Draft,
		Ts:   now,
	}
	if err := s.contacts.SaveMessage(uid, action.ThreadID, msg); err != nil {
		return nil, err
	}

	if contact, err := s.contacts.GetContact(uid, action.ContactID); err == nil && contact != nil {
		contact.LastOutboundTs = now
		if err := s.contacts.UpsertContact(uid, contact); err != nil {
			return nil, err
		}
	}

	sentTs := now
	action.Status = models.ActionSent
	action.SentTs = &sentTs
	if err := s.store.SetDoc(uid, actionPath(action.ID), &action); err != nil {
		return nil, err
	}

	cs, err := s.cfg.CoverSettings(uid)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "approved_sent", 1); err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "minutes_saved", s.minutesSaved(cs)); err != nil {
		return nil, err
	}
	s.audit.Append(uid, map[string]interface{}{"type": "action_approved_sent", "action": action})

	return &ApprovalResult{Status: "sent", ActionID: action.ID, ThreadID: action.ThreadID}, nil
}
