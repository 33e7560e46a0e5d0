package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"
	"github.com/konman95/mainst.ai/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InboundResult is the response for one processed inbound message.
type InboundResult struct {
	Status     string `json:"status"`
	ThreadID   string `json:"thread_id"`
	DecisionID string `json:"decision_id"`
	ActionID   string `json:"action_id"`
	Reason     string `json:"reason,omitempty"`
}

// CoverService runs the inbound pipeline: classify, draft, decide, record
// the decision and its action queue item, and raise alerts for queued
// escalations.
type CoverService struct {
	store         store.Store
	cfg           *ConfigService
	contacts      *ContactService
	stats         *StatsService
	audit         *AuditService
	policy        *PolicyEngine
	actions       *ActionService
	notifications *NotificationService
}

// NewCoverService wires the inbound pipeline together.
func NewCoverService(st store.Store, cfg *ConfigService, contacts *ContactService, stats *StatsService, audit *AuditService, policy *PolicyEngine, actions *ActionService, notifications *NotificationService) *CoverService {
	return &CoverService{
		store:         st,
		cfg:           cfg,
		contacts:      contacts,
		stats:         stats,
		audit:         audit,
		policy:        policy,
		actions:       actions,
		notifications: notifications,
	}
}

func decisionPath(id string) string {
	return "decisions/" + id
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HandleInbound processes one customer message end to end.
func (s *CoverService) HandleInbound(ctx context.Context, uid string, inbound *models.InboundMessage) (*InboundResult, error) {
	if inbound.Channel == "" {
		inbound.Channel = models.ChannelWebchat
	}
	if inbound.Ts == 0 {
		inbound.Ts = time.Now().Unix()
	}

	bp, err := s.cfg.BusinessProfile(uid)
	if err != nil {
		return nil, err
	}
	cs, err := s.cfg.CoverSettings(uid)
	if err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetContact(uid, inbound.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		contact = models.NewContact(inbound.ContactID)
	}
	contact.LastTouchTs = inbound.Ts
	contact.LastInboundTs = inbound.Ts
	if err := s.contacts.UpsertContact(uid, contact); err != nil {
		return nil, err
	}

	threadID := models.ThreadID(inbound.ContactID, inbound.Channel)
	thread := &models.Thread{
		ID:            threadID,
		ContactID:     inbound.ContactID,
		Channel:       inbound.Channel,
		LastMessageTs: inbound.Ts,
	}
	if err := s.contacts.UpsertThread(uid, thread); err != nil {
		return nil, err
	}

	msgIn := &models.Message{ID: uuid.New().String(), Role: models.RoleUser, Text: inbound.Text, Ts: inbound.Ts}
	if err := s.contacts.SaveMessage(uid, threadID, msgIn); err != nil {
		return nil, err
	}

	d := s.policy.Evaluate(ctx, uid, inbound, bp, cs, contact, threadID)
	if err := s.store.SetDoc(uid, decisionPath(d.ID), d); err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "decisions_made", 1); err != nil {
		return nil, err
	}

	if d.Decision == models.DecisionSend {
		return s.autosend(uid, cs, contact, d)
	}
	return s.queueForApproval(uid, cs, d)
}

// autosend delivers the draft immediately and records the action item
// pre-closed as sent.
func (s *CoverService) autosend(uid string, cs *models.CoverSettings, contact *models.Contact, d *models.Decision) (*InboundResult, error) {
	now := time.Now().Unix()

	msgOut := &models.Message{ID: uuid.New().String(), Role: models.RoleAssistant, Text: d.Draft, Ts: now}
	if err := s.contacts.SaveMessage(uid, d.ThreadID, msgOut); err != nil {
		return nil, err
	}

	contact.LastOutboundTs = now
	if err := s.contacts.UpsertContact(uid, contact); err != nil {
		return nil, err
	}

	action, err := s.actions.Create(uid, d, models.ActionSent, d.Reason, &now)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "autosent", 1); err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "minutes_saved", s.actions.minutesSaved(cs)); err != nil {
		return nil, err
	}
	s.audit.Append(uid, map[string]interface{}{"type": "ownercover_sent", "decision": d, "action": action})

	return &InboundResult{Status: "sent", ThreadID: d.ThreadID, DecisionID: d.ID, ActionID: action.ID}, nil
}

// queueForApproval records the action item as needs_approval and raises an
// alert for escalations and low-confidence queues.
func (s *CoverService) queueForApproval(uid string, cs *models.CoverSettings, d *models.Decision) (*InboundResult, error) {
	action, err := s.actions.Create(uid, d, models.ActionNeedsApproval, d.Reason, nil)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "queued", 1); err != nil {
		return nil, err
	}
	s.audit.Append(uid, map[string]interface{}{"type": "ownercover_queued", "decision": d, "action": action})

	switch {
	case cs.HasEscalationTopic(d.Intent) || d.Intent == IntentLegal || d.Intent == IntentComplaint:
		if err := s.notifications.Add(uid, models.Notification{
			ID:         "alert-escalation-" + d.ID,
			Title:      "Escalation queued",
			Detail:     fmt.Sprintf("%s intent routed for approval.", titleCase(d.Intent)),
			Severity:   models.SeverityHigh,
			Status:     models.AlertNew,
			Tags:       []string{"escalation", "intent:" + d.Intent},
			Link:       "/action-queue",
			ActionID:   action.ID,
			DecisionID: d.ID,
		}); err != nil {
			logger.Error("Escalation alert failed", zap.String("uid", uid), zap.Error(err))
		}
	case strings.Contains(d.Reason, "Low confidence"):
		if err := s.notifications.Add(uid, models.Notification{
			ID:         "alert-confidence-" + d.ID,
			Title:      "Low confidence queued",
			Detail:     fmt.Sprintf("Confidence %.2f below threshold.", d.Confidence),
			Severity:   models.SeverityMedium,
			Status:     models.AlertNew,
			Tags:       []string{"confidence", "queue"},
			Link:       "/action-queue",
			ActionID:   action.ID,
			DecisionID: d.ID,
		}); err != nil {
			logger.Error("Confidence alert failed", zap.String("uid", uid), zap.Error(err))
		}
	}

	return &InboundResult{Status: "queued", ThreadID: d.ThreadID, DecisionID: d.ID, ActionID: action.ID, Reason: d.Reason}, nil
}

// ListDecisions returns the tenant's decisions, optionally filtered by
// contact.
func (s *CoverService) ListDecisions(uid, contactID string) ([]models.Decision, error) {
	rows, err := s.store.ListDocs(uid, "decisions/")
	if err != nil {
		return nil, err
	}
	out := make([]models.Decision, 0, len(rows))
	for _, raw := range rows {
		var d models.Decision
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		if contactID != "" && d.ContactID != contactID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
