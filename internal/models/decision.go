package models

// Decision outcomes. Block is reserved for future guardrail rules; the
// current rule set only ever produces send and queue, but the value must
// stay representable.
const (
	DecisionSend  = "send"
	DecisionQueue = "queue"
	DecisionBlock = "block"
)

// Decision is the immutable record of one policy evaluation over one
// inbound message. Created exactly once per message processed.
type Decision struct {
	ID         string  `json:"id"`
	UID        string  `json:"uid"`
	ContactID  string  `json:"contact_id"`
	ThreadID   string  `json:"thread_id"`
	Channel    string  `json:"channel"`
	Intent     string  `json:"intent"`
	Risk       float64 `json:"risk"`
	Confidence float64 `json:"confidence"`
	Decision   string  `json:"decision"`
	Reason     string  `json:"reason"`
	Draft      string  `json:"draft"`
	CreatedTs  int64   `json:"created_ts"`
}

// Action queue statuses. needs_approval is the only state transitions are
// accepted from; approved is transient on the approval path; error is a
// reserved terminal state for delivery failures, never produced today.
const (
	ActionNeedsApproval = "needs_approval"
	ActionApproved      = "approved"
	ActionSent          = "sent"
	ActionBlocked       = "blocked"
	ActionError         = "error"
)

// ActionQueueItem is the stateful unit of work tracking whether a drafted
// reply has been approved, sent or blocked. 1:1 with a Decision.
type ActionQueueItem struct {
	ID         string  `json:"id"`
	DecisionID string  `json:"decision_id"`
	Status     string  `json:"status"`
	ContactID  string  `json:"contact_id"`
	ThreadID   string  `json:"thread_id"`
	Channel    string  `json:"channel"`
	Draft      string  `json:"draft"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
	CreatedTs  int64   `json:"created_ts"`
	SentTs     *int64  `json:"sent_ts,omitempty"`
}

// Outcome records how a conversation ended, for the learning loop.
type Outcome struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id" binding:"required"`
	ThreadID  string `json:"thread_id"`
	Type      string `json:"type" binding:"required"`
	Note      string `json:"note"`
	Ts        int64  `json:"ts"`
}
