package services

import (
	"context"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"
	"github.com/konman95/mainst.ai/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxFollowupsPerRun caps how many contacts one sweep touches.
const maxFollowupsPerRun = 50

// FollowupResult summarizes one sweep.
type FollowupResult struct {
	Disabled bool `json:"disabled,omitempty"`
	Sent     int  `json:"sent"`
	Queued   int  `json:"queued"`
}

// FollowupService is the periodic sweep that nudges contacts who wrote in
// and never got a reply. It does not schedule itself; an external trigger
// invokes Run.
type FollowupService struct {
	store    store.Store
	cfg      *ConfigService
	contacts *ContactService
	stats    *StatsService
	audit    *AuditService
	actions  *ActionService
}

// NewFollowupService creates a follow-up service.
func NewFollowupService(st store.Store, cfg *ConfigService, contacts *ContactService, stats *StatsService, audit *AuditService, actions *ActionService) *FollowupService {
	return &FollowupService{
		store:    st,
		cfg:      cfg,
		contacts: contacts,
		stats:    stats,
		audit:    audit,
		actions:  actions,
	}
}

// stale reports whether a contact is due for a follow-up: they wrote in,
// that message is older than the configured window, and no reply has gone
// out since.
func stale(c *models.Contact, now time.Time, afterHours int) bool {
	if c.LastInboundTs <= 0 {
		return false
	}
	age := now.Unix() - c.LastInboundTs
	return age > int64(afterHours)*3600 && c.LastOutboundTs < c.LastInboundTs
}

// Run executes one sweep. Each contact's steps are independently
// idempotent, so stopping at the context deadline mid-sweep is safe; the
// next run picks up the remainder.
func (s *FollowupService) Run(ctx context.Context, uid string) (*FollowupResult, error) {
	cs, err := s.cfg.CoverSettings(uid)
	if err != nil {
		return nil, err
	}
	if !cs.FollowUpEnabled {
		return &FollowupResult{Disabled: true}, nil
	}

	all, err := s.contacts.ListContacts(uid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var targets []models.Contact
	for _, c := range all {
		c := c
		if stale(&c, now, cs.FollowUpAfterHours) {
			targets = append(targets, c)
		}
	}
	if len(targets) > maxFollowupsPerRun {
		targets = targets[:maxFollowupsPerRun]
	}

	result := &FollowupResult{}
	template := cs.Template("follow_up")

	for i := range targets {
		select {
		case <-ctx.Done():
			logger.Warn("Follow-up sweep stopped at budget",
				zap.String("uid", uid),
				zap.Int("processed", result.Sent+result.Queued),
				zap.Int("remaining", len(targets)-i))
			s.audit.Append(uid, map[string]interface{}{"type": "cron_run", "sent": result.Sent, "queued": result.Queued, "partial": true})
			return result, nil
		default:
		}

		contact := &targets[i]
		if err := s.followUp(uid, cs, contact, template, now, result); err != nil {
			return nil, err
		}
	}

	s.audit.Append(uid, map[string]interface{}{"type": "cron_run", "sent": result.Sent, "queued": result.Queued})
	return result, nil
}

// followUp synthesizes one inbound event for the contact and routes it.
// Follow-ups skip the full precedence table: autosend mode sends, any
// other mode queues. They are never escalation or money gated.
func (s *FollowupService) followUp(uid string, cs *models.CoverSettings, contact *models.Contact, template string, now time.Time, result *FollowupResult) error {
	threadID := models.ThreadID(contact.ID, models.ChannelWebchat)
	thread := &models.Thread{
		ID:            threadID,
		ContactID:     contact.ID,
		Channel:       models.ChannelWebchat,
		LastMessageTs: now.Unix(),
	}
	if err := s.contacts.UpsertThread(uid, thread); err != nil {
		return err
	}

	decision := models.DecisionQueue
	reason := "Proactive follow-up"
	if cs.Mode == models.ModeAutosend {
		decision = models.DecisionSend
	}

	d := &models.Decision{
		ID:         uuid.New().String(),
		UID:        uid,
		ContactID:  contact.ID,
		ThreadID:   threadID,
		Channel:    models.ChannelWebchat,
		Intent:     IntentFollowUp,
		Risk:       0.20,
		Confidence: 0.85,
		Decision:   decision,
		Reason:     reason,
		Draft:      template,
		CreatedTs:  now.Unix(),
	}
	if err := s.store.SetDoc(uid, decisionPath(d.ID), d); err != nil {
		return err
	}

	if decision == models.DecisionSend {
		msg := &models.Message{ID: uuid.New().String(), Role: models.RoleAssistant, Text: d.Draft, Ts: now.Unix()}
		if err := s.contacts.SaveMessage(uid, threadID, msg); err != nil {
			return err
		}

		contact.LastOutboundTs = now.Unix()
		if err := s.contacts.UpsertContact(uid, contact); err != nil {
			return err
		}

		sentTs := now.Unix()
		if _, err := s.actions.Create(uid, d, models.ActionSent, d.Reason, &sentTs); err != nil {
			return err
		}
		if err := s.stats.Inc(uid, "followups_sent", 1); err != nil {
			return err
		}
		if err := s.stats.Inc(uid, "minutes_saved", s.actions.minutesSaved(cs)); err != nil {
			return err
		}
		result.Sent++
		return nil
	}

	if _, err := s.actions.Create(uid, d, models.ActionNeedsApproval, "Follow-up requires approval (mode not autosend)", nil); err != nil {
		return err
	}
	if err := s.stats.Inc(uid, "followups_queued", 1); err != nil {
		return err
	}
	result.Queued++
	return nil
}
