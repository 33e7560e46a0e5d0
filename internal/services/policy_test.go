package services

import (
	"context"
	"testing"
	"time"

	"github.com/konman95/mainst.ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModeDominance(t *testing.T) {
	// Off and monitor queue everything, whatever the intent or confidence.
	for _, mode := range []string{models.ModeOff, models.ModeMonitor} {
		cs := models.DefaultCoverSettings()
		cs.Mode = mode

		for _, intent := range []string{IntentHours, IntentLegal, IntentPricingBasic, IntentDefault} {
			decision, _ := Resolve(cs, intent, 0.99, true)
			assert.Equal(t, models.DecisionQueue, decision, "mode=%s intent=%s", mode, intent)
		}
	}

	cs := models.DefaultCoverSettings()
	cs.Mode = models.ModeOff
	_, reason := Resolve(cs, IntentHours, 0.82, false)
	assert.Equal(t, "Owner Cover is OFF", reason)

	cs.Mode = models.ModeMonitor
	_, reason = Resolve(cs, IntentHours, 0.82, false)
	assert.Equal(t, "Monitor mode", reason)
}

func TestResolveConfidenceDominatesEscalation(t *testing.T) {
	// Legal has fixed confidence 0.55, below the default 0.70 threshold,
	// so the queue reason cites confidence even though legal is an
	// escalation topic.
	cs := models.DefaultCoverSettings()
	decision, reason := Resolve(cs, IntentLegal, IntentConfidence(IntentLegal), false)
	assert.Equal(t, models.DecisionQueue, decision)
	assert.Equal(t, "Low confidence (0.55)", reason)
}

func TestResolveEscalationTopic(t *testing.T) {
	// Complaint confidence 0.72 passes a lowered threshold, so the
	// escalation rule fires.
	cs := models.DefaultCoverSettings()
	cs.ConfidenceThreshold = 0.50
	decision, reason := Resolve(cs, IntentComplaint, IntentConfidence(IntentComplaint), false)
	assert.Equal(t, models.DecisionQueue, decision)
	assert.Equal(t, "Escalation topic", reason)

	// Hard-coded escalation intents queue even when removed from the list.
	cs.EscalationTopics = []string{}
	decision, reason = Resolve(cs, IntentComplaint, IntentConfidence(IntentComplaint), false)
	assert.Equal(t, models.DecisionQueue, decision)
	assert.Equal(t, "Escalation topic", reason)
}

func TestResolveMoneyGating(t *testing.T) {
	cs := models.DefaultCoverSettings()
	decision, reason := Resolve(cs, IntentPricingBasic, IntentConfidence(IntentPricingBasic), true)
	assert.Equal(t, models.DecisionQueue, decision)
	assert.Equal(t, "Money-related message requires approval", reason)

	// With money gating off, pricing is a normal autosend topic.
	cs.MoneyRequiresApproval = false
	decision, reason = Resolve(cs, IntentPricingBasic, IntentConfidence(IntentPricingBasic), true)
	assert.Equal(t, models.DecisionSend, decision)
	assert.Equal(t, "Allowed autosend topic", reason)
}

func TestResolveAutosendHappyPath(t *testing.T) {
	cs := models.DefaultCoverSettings()
	decision, reason := Resolve(cs, IntentHours, IntentConfidence(IntentHours), false)
	assert.Equal(t, models.DecisionSend, decision)
	assert.Equal(t, "Allowed autosend topic", reason)
}

func TestResolveNotInAutosendTopics(t *testing.T) {
	cs := models.DefaultCoverSettings()
	cs.AutosendTopics = []string{"hours"}
	decision, reason := Resolve(cs, IntentStatus, IntentConfidence(IntentStatus), false)
	assert.Equal(t, models.DecisionQueue, decision)
	assert.Equal(t, "Not in autosend topics", reason)
}

func TestEvaluateBuildsDecision(t *testing.T) {
	engine := NewPolicyEngine(NewComposer(nil, time.Second))
	bp := models.DefaultBusinessProfile()
	cs := models.DefaultCoverSettings()
	contact := models.NewContact("c1")

	inbound := &models.InboundMessage{
		ContactID: "c1",
		Channel:   models.ChannelWebchat,
		Text:      "what are your hours",
		Ts:        time.Now().Unix(),
	}

	d := engine.Evaluate(context.Background(), "tenant1", inbound, bp, cs, contact, "thread-c1-webchat")
	require.NotNil(t, d)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "tenant1", d.UID)
	assert.Equal(t, "c1", d.ContactID)
	assert.Equal(t, "thread-c1-webchat", d.ThreadID)
	assert.Equal(t, IntentHours, d.Intent)
	assert.Equal(t, 0.15, d.Risk)
	assert.Equal(t, 0.82, d.Confidence)
	assert.Equal(t, models.DecisionSend, d.Decision)
	assert.Equal(t, "Allowed autosend topic", d.Reason)
	assert.Equal(t, "Our hours are: Mon-Fri 9am-5pm.", d.Draft)
	assert.NotZero(t, d.CreatedTs)
}
