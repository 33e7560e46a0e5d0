package models

// BusinessProfile describes the business the assistant is answering for.
// The composer reads these fields when building prompts and fallback replies.
type BusinessProfile struct {
	BusinessName string   `json:"business_name"`
	Services     []string `json:"services"`
	ServiceArea  string   `json:"service_area"`
	Hours        string   `json:"hours"`
	PricingNotes string   `json:"pricing_notes"`
	Policies     string   `json:"policies"`
	Tone         string   `json:"tone"`
}

// DefaultBusinessProfile returns the profile used until the owner edits it.
func DefaultBusinessProfile() *BusinessProfile {
	return &BusinessProfile{
		BusinessName: "Main St AI Business",
		Services:     []string{},
		Hours:        "Mon-Fri 9am-5pm",
		Tone:         "professional, concise, friendly",
	}
}

// Cover modes. Off and monitor force every inbound message into the
// approval queue; only autosend allows automatic replies.
const (
	ModeOff      = "off"
	ModeMonitor  = "monitor"
	ModeAutosend = "autosend"
)

// CoverSettings is the tenant's routing policy: mode, confidence gate,
// topic allow/deny lists and reply templates.
type CoverSettings struct {
	Mode                  string            `json:"mode"`
	ConfidenceThreshold   float64           `json:"confidence_threshold"`
	MoneyRequiresApproval bool              `json:"money_requires_approval"`
	MinutesPerAction      int               `json:"minutes_per_action"`
	AutosendTopics        []string          `json:"autosend_topics"`
	EscalationTopics      []string          `json:"escalation_topics"`
	FollowUpEnabled       bool              `json:"follow_up_enabled"`
	FollowUpAfterHours    int               `json:"follow_up_after_hours"`
	Templates             map[string]string `json:"templates"`
}

// DefaultCoverSettings returns the shipped policy: autosend with a 0.70
// confidence floor, money gating on, daily follow-ups after 24h.
func DefaultCoverSettings() *CoverSettings {
	return &CoverSettings{
		Mode:                  ModeAutosend,
		ConfidenceThreshold:   0.70,
		MoneyRequiresApproval: true,
		MinutesPerAction:      2,
		AutosendTopics:        []string{"hours", "services", "booking", "pricing_basic", "status", "default"},
		EscalationTopics:      []string{"complaint", "legal", "refund"},
		FollowUpEnabled:       true,
		FollowUpAfterHours:    24,
		Templates: map[string]string{
			"default":     "Thanks for reaching out! Can you share a little more detail so I can help you best?",
			"escalation":  "Thanks for the message. I am looping in the owner to make sure this is handled correctly.",
			"after_hours": "Thanks for reaching out! We are currently away. We will respond as soon as we are back in business hours.",
			"follow_up":   "Just checking in. Did you still want help with this?",
		},
	}
}

// Template returns the named template, falling back to the shipped default
// so a partially edited settings document never yields empty reply text.
func (s *CoverSettings) Template(name string) string {
	if s.Templates != nil {
		if t, ok := s.Templates[name]; ok && t != "" {
			return t
		}
	}
	return DefaultCoverSettings().Templates[name]
}

// HasAutosendTopic reports whether intent is allow-listed for automatic sends.
func (s *CoverSettings) HasAutosendTopic(intent string) bool {
	for _, t := range s.AutosendTopics {
		if t == intent {
			return true
		}
	}
	return false
}

// HasEscalationTopic reports whether intent is deny-listed for automatic sends.
func (s *CoverSettings) HasEscalationTopic(intent string) bool {
	for _, t := range s.EscalationTopics {
		if t == intent {
			return true
		}
	}
	return false
}

// NotificationRouting controls external alert delivery: which channels are
// enabled, where alerts go, and the minimum severity worth delivering.
type NotificationRouting struct {
	EmailEnabled bool   `json:"email_enabled"`
	SMSEnabled   bool   `json:"sms_enabled"`
	Email        string `json:"email"`
	SMS          string `json:"sms"`
	MinSeverity  string `json:"min_severity"`
}

// DefaultNotificationRouting delivers only high-severity alerts, by email.
func DefaultNotificationRouting() *NotificationRouting {
	return &NotificationRouting{
		EmailEnabled: true,
		SMSEnabled:   false,
		Email:        "owner@mainst.ai",
		MinSeverity:  SeverityHigh,
	}
}
