package services

import "strings"

// Intent categories. Exactly one is assigned per message.
const (
	IntentLegal        = "legal"
	IntentComplaint    = "complaint"
	IntentBooking      = "booking"
	IntentPricingBasic = "pricing_basic"
	IntentHours        = "hours"
	IntentServices     = "services"
	IntentStatus       = "status"
	IntentFollowUp     = "follow_up"
	IntentDefault      = "default"
)

// ClassificationResult is the classifier's output for one message.
// MentionsMoney is orthogonal to the intent: a booking message can still
// mention money and trigger the approval gate.
type ClassificationResult struct {
	Intent        string
	Risk          float64
	MentionsMoney bool
}

var (
	moneyKeywords     = []string{"price", "cost", "how much", "$", "payment", "invoice", "refund", "chargeback"}
	bookingKeywords   = []string{"book", "schedule", "appointment", "availability"}
	hoursKeywords     = []string{"hours", "open", "close", "when are you open"}
	servicesKeywords  = []string{"services", "do you", "offer", "can you"}
	legalKeywords     = []string{"lawsuit", "attorney", "legal", "sue"}
	complaintKeywords = []string{"complaint", "angry", "bad service", "refund", "chargeback"}
	statusKeywords    = []string{"status", "update", "where is", "eta", "when will"}
)

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// ClassifyIntent maps raw message text to an intent, a risk score and a
// money flag. Total and deterministic; unmatched text resolves to the
// default intent. The priority order is fixed: legal beats complaint beats
// booking beats pricing, then hours, services, status.
func ClassifyIntent(text string) ClassificationResult {
	t := strings.ToLower(text)

	mentionsMoney := containsAny(t, moneyKeywords)

	var intent string
	switch {
	case containsAny(t, legalKeywords):
		intent = IntentLegal
	case containsAny(t, complaintKeywords):
		intent = IntentComplaint
	case containsAny(t, bookingKeywords):
		intent = IntentBooking
	case mentionsMoney:
		intent = IntentPricingBasic
	case containsAny(t, hoursKeywords):
		intent = IntentHours
	case containsAny(t, servicesKeywords):
		intent = IntentServices
	case containsAny(t, statusKeywords):
		intent = IntentStatus
	default:
		intent = IntentDefault
	}

	risk := 0.15
	switch {
	case intent == IntentLegal:
		risk = 0.95
	case intent == IntentComplaint:
		risk = 0.80
	case mentionsMoney:
		risk = 0.55
	case intent == IntentBooking:
		risk = 0.25
	}

	return ClassificationResult{Intent: intent, Risk: risk, MentionsMoney: mentionsMoney}
}

// IntentConfidence is the fixed per-intent confidence table used by the
// policy engine. It is independent of how the draft was produced.
func IntentConfidence(intent string) float64 {
	switch intent {
	case IntentHours, IntentServices, IntentBooking, IntentStatus, IntentPricingBasic:
		return 0.82
	case IntentComplaint:
		return 0.72
	case IntentLegal:
		return 0.55
	default:
		return 0.62
	}
}
