package models

import "fmt"

// Supported inbound channels.
const (
	ChannelWebchat = "webchat"
	ChannelEmail   = "email"
	ChannelSMS     = "sms"
)

// Contact is a customer or lead. The engagement timestamps drive the
// follow-up sweep: a contact is stale when last_inbound_ts is old and
// last_outbound_ts still predates it.
type Contact struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Tags           []string `json:"tags"`
	LeadStatus     string   `json:"lead_status"`
	Notes          string   `json:"notes"`
	LastTouchTs    int64    `json:"last_touch_ts"`
	LastInboundTs  int64    `json:"last_inbound_ts"`
	LastOutboundTs int64    `json:"last_outbound_ts"`
}

// NewContact creates a contact with the "new" lead status.
func NewContact(id string) *Contact {
	return &Contact{ID: id, LeadStatus: "new", Tags: []string{}}
}

// Thread groups the messages exchanged with one contact over one channel.
type Thread struct {
	ID            string `json:"id"`
	ContactID     string `json:"contact_id"`
	Channel       string `json:"channel"`
	CreatedTs     int64  `json:"created_ts"`
	LastMessageTs int64  `json:"last_message_ts"`
}

// ThreadID returns the deterministic thread id for a contact/channel pair.
// One thread per pair keeps inbound routing and follow-ups on the same
// conversation.
func ThreadID(contactID, channel string) string {
	return fmt.Sprintf("thread-%s-%s", contactID, channel)
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one utterance in a thread.
type Message struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
	Ts   int64  `json:"ts"`
}

// InboundMessage is the immutable pipeline input: one customer message on
// one channel at one moment.
type InboundMessage struct {
	ContactID string `json:"contact_id" binding:"required"`
	Channel   string `json:"channel"`
	Text      string `json:"text" binding:"required"`
	Ts        int64  `json:"ts"`
}
