package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/konman95/mainst.ai/internal/models"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Reply(ctx context.Context, bp *models.BusinessProfile, contact *models.Contact, inbound, mode string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func TestComposerUsesGenerator(t *testing.T) {
	gen := &stubGenerator{reply: "  Generated reply.  "}
	c := NewComposer(gen, time.Second)

	out := c.Compose(context.Background(), models.DefaultBusinessProfile(), models.DefaultCoverSettings(), models.NewContact("c1"), "hi", "ownercover", IntentDefault)
	assert.Equal(t, "Generated reply.", out)
	assert.Equal(t, 1, gen.calls)
}

func TestComposerFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	c := NewComposer(gen, time.Second)
	cs := models.DefaultCoverSettings()

	out := c.Compose(context.Background(), models.DefaultBusinessProfile(), cs, models.NewContact("c1"), "hi", "ownercover", IntentDefault)
	assert.Equal(t, cs.Templates["default"], out)
}

func TestComposerFallsBackOnEmptyOutput(t *testing.T) {
	gen := &stubGenerator{reply: "   "}
	c := NewComposer(gen, time.Second)
	cs := models.DefaultCoverSettings()

	out := c.Compose(context.Background(), models.DefaultBusinessProfile(), cs, models.NewContact("c1"), "hi", "ownercover", IntentComplaint)
	assert.Equal(t, cs.Templates["escalation"], out)
}

func TestComposerNilGenerator(t *testing.T) {
	c := NewComposer(nil, time.Second)
	cs := models.DefaultCoverSettings()

	out := c.Compose(context.Background(), models.DefaultBusinessProfile(), cs, models.NewContact("c1"), "hi", "ownercover", IntentDefault)
	assert.Equal(t, cs.Templates["default"], out)
}

func TestFallbackReply(t *testing.T) {
	bp := models.DefaultBusinessProfile()
	bp.Services = []string{"plumbing", "heating"}
	bp.PricingNotes = "Service calls start at $95"
	cs := models.DefaultCoverSettings()

	tests := []struct {
		intent string
		want   string
	}{
		{IntentLegal, cs.Templates["escalation"]},
		{IntentComplaint, cs.Templates["escalation"]},
		{IntentBooking, "We can get you scheduled. What day/time works best? Our hours are Mon-Fri 9am-5pm."},
		{IntentHours, "Our hours are: Mon-Fri 9am-5pm."},
		{IntentServices, "We can help with that. We offer: plumbing, heating. What are you trying to accomplish?"},
		{IntentPricingBasic, "Pricing info: Service calls start at $95. What exactly do you need done?"},
		{IntentStatus, "Thanks for checking in. Can you share your name/order/job info so I can look into the status?"},
		{IntentDefault, cs.Templates["default"]},
		{IntentFollowUp, cs.Templates["default"]},
	}

	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackReply(bp, cs, tt.intent))
			assert.NotEmpty(t, FallbackReply(bp, cs, tt.intent))
		})
	}
}

func TestFallbackReplyEmptyProfile(t *testing.T) {
	bp := models.DefaultBusinessProfile()
	cs := models.DefaultCoverSettings()

	assert.Contains(t, FallbackReply(bp, cs, IntentServices), "a range of services")
	assert.Contains(t, FallbackReply(bp, cs, IntentPricingBasic), "Pricing depends on scope")
}
