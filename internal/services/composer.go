package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/pkg/logger"

	"go.uber.org/zap"
)

// Generator produces a drafted reply for an inbound message. mode tags the
// flow the draft is for ("ownercover" for customer-facing replies, "chat"
// for the owner console) so the prompt can be shaped accordingly.
// Implementations may fail or return empty output; the composer recovers.
type Generator interface {
	Reply(ctx context.Context, bp *models.BusinessProfile, contact *models.Contact, inbound, mode string) (string, error)
}

// Composer turns an inbound message into reply text. It prefers the
// generator and falls back to the per-intent templates, so it always
// returns non-empty text and never fails.
type Composer struct {
	gen     Generator
	timeout time.Duration
}

// NewComposer creates a composer. gen may be nil, in which case every
// reply comes from the templates.
func NewComposer(gen Generator, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Composer{gen: gen, timeout: timeout}
}

// Compose drafts a reply for inbound text classified as intent.
func (c *Composer) Compose(ctx context.Context, bp *models.BusinessProfile, cs *models.CoverSettings, contact *models.Contact, inbound, mode, intent string) string {
	if c.gen != nil {
		genCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := c.gen.Reply(genCtx, bp, contact, inbound, mode)
		if err != nil {
			logger.Warn("Generator failed, using template", zap.Error(err))
		} else if strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
	}
	return FallbackReply(bp, cs, intent)
}

// FallbackReply is the deterministic per-intent reply used when the
// generator is unavailable, times out or returns nothing.
func FallbackReply(bp *models.BusinessProfile, cs *models.CoverSettings, intent string) string {
	switch intent {
	case IntentLegal, IntentComplaint:
		return cs.Template("escalation")
	case IntentBooking:
		return fmt.Sprintf("We can get you scheduled. What day/time works best? Our hours are %s.", bp.Hours)
	case IntentHours:
		return fmt.Sprintf("Our hours are: %s.", bp.Hours)
	case IntentServices:
		offered := "a range of services"
		if len(bp.Services) > 0 {
			offered = strings.Join(bp.Services, ", ")
		}
		return fmt.Sprintf("We can help with that. We offer: %s. What are you trying to accomplish?", offered)
	case IntentPricingBasic:
		pricing := bp.PricingNotes
		if pricing == "" {
			pricing = "Pricing depends on scope - share one detail and I will estimate it"
		}
		return fmt.Sprintf("Pricing info: %s. What exactly do you need done?", pricing)
	case IntentStatus:
		return "Thanks for checking in. Can you share your name/order/job info so I can look into the status?"
	}
	return cs.Template("default")
}
