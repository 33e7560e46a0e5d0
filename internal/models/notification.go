package models

// Alert severities, ordered low < medium < high.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Alert statuses.
const (
	AlertNew          = "new"
	AlertAcknowledged = "acknowledged"
	AlertResolved     = "resolved"
)

// Notification is a deduplicated alert surfaced to the tenant's operators.
// Identity is the ID field: re-adding an existing id merges fields in place
// instead of duplicating the entry.
type Notification struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Detail     string   `json:"detail"`
	Severity   string   `json:"severity"`
	Status     string   `json:"status"`
	Ts         int64    `json:"ts"`
	Tags       []string `json:"tags"`
	Link       string   `json:"link,omitempty"`
	ActionID   string   `json:"action_id,omitempty"`
	DecisionID string   `json:"decision_id,omitempty"`
}

// SeverityRank maps a severity to its ordering value. Unknown severities
// rank as low.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// DefaultAlerts seeds a new tenant's notification list.
func DefaultAlerts() []Notification {
	return []Notification{
		{
			ID:       "alert-weekly",
			Title:    "Weekly report ready",
			Detail:   "Operator summary is ready to download.",
			Severity: SeverityLow,
			Status:   AlertResolved,
			Tags:     []string{"report"},
			Link:     "/outcomes",
		},
	}
}
