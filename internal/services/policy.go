package services

import (
	"context"
	"fmt"
	"time"

	"github.com/konman95/mainst.ai/internal/models"

	"github.com/google/uuid"
)

// PolicyEngine evaluates inbound messages against the tenant's cover
// settings and produces Decision records.
type PolicyEngine struct {
	composer *Composer
}

// NewPolicyEngine creates a policy engine backed by composer.
func NewPolicyEngine(composer *Composer) *PolicyEngine {
	return &PolicyEngine{composer: composer}
}

// Resolve applies the precedence-ordered rule table to one classified
// message. First matching rule wins:
//
//  1. mode off or monitor queues everything
//  2. confidence below threshold queues, and this outranks the
//     escalation check so low-confidence legal messages cite confidence
//  3. escalation topics queue
//  4. money mentions queue when approval is required
//  5. allow-listed topics send
//  6. everything else queues
//
// The block outcome is reserved for guardrail rules and is never produced
// here.
func Resolve(cs *models.CoverSettings, intent string, confidence float64, mentionsMoney bool) (decision, reason string) {
	switch {
	case cs.Mode == models.ModeOff:
		return models.DecisionQueue, "Owner Cover is OFF"
	case cs.Mode == models.ModeMonitor:
		return models.DecisionQueue, "Monitor mode"
	case confidence < cs.ConfidenceThreshold:
		return models.DecisionQueue, fmt.Sprintf("Low confidence (%.2f)", confidence)
	case cs.HasEscalationTopic(intent) || intent == IntentLegal || intent == IntentComplaint:
		return models.DecisionQueue, "Escalation topic"
	case cs.MoneyRequiresApproval && mentionsMoney:
		return models.DecisionQueue, "Money-related message requires approval"
	case cs.HasAutosendTopic(intent):
		return models.DecisionSend, "Allowed autosend topic"
	default:
		return models.DecisionQueue, "Not in autosend topics"
	}
}

// Evaluate classifies inbound, drafts a reply and resolves the routing
// decision. The returned Decision is complete and ready to persist.
func (e *PolicyEngine) Evaluate(ctx context.Context, uid string, inbound *models.InboundMessage, bp *models.BusinessProfile, cs *models.CoverSettings, contact *models.Contact, threadID string) *models.Decision {
	cls := ClassifyIntent(inbound.Text)
	confidence := IntentConfidence(cls.Intent)

	draft := e.composer.Compose(ctx, bp, cs, contact, inbound.Text, "ownercover", cls.Intent)
	decision, reason := Resolve(cs, cls.Intent, confidence, cls.MentionsMoney)

	return &models.Decision{
		ID:         uuid.New().String(),
		UID:        uid,
		ContactID:  inbound.ContactID,
		ThreadID:   threadID,
		Channel:    inbound.Channel,
		Intent:     cls.Intent,
		Risk:       cls.Risk,
		Confidence: confidence,
		Decision:   decision,
		Reason:     reason,
		Draft:      draft,
		CreatedTs:  time.Now().Unix(),
	}
}
