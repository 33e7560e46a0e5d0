package handlers

import (
	"context"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/services"
)

// CoverServiceInterface is the inbound pipeline contract.
// Used for dependency injection and testing.
type CoverServiceInterface interface {
	HandleInbound(ctx context.Context, uid string, inbound *models.InboundMessage) (*services.InboundResult, error)
	ListDecisions(uid, contactID string) ([]models.Decision, error)
}

// ActionServiceInterface is the action queue contract.
type ActionServiceInterface interface {
	List(uid string) ([]models.ActionQueueItem, error)
	Approve(uid, actionID string, approve bool) (*services.ApprovalResult, error)
}

// NotificationServiceInterface is the notification center contract.
type NotificationServiceInterface interface {
	List(uid string) ([]models.Notification, error)
	Add(uid string, alert models.Notification) error
	UpdateStatus(uid, id, status string) ([]models.Notification, error)
}

// ConfigServiceInterface is the tenant configuration contract.
type ConfigServiceInterface interface {
	BusinessProfile(uid string) (*models.BusinessProfile, error)
	SetBusinessProfile(uid string, bp *models.BusinessProfile) error
	CoverSettings(uid string) (*models.CoverSettings, error)
	SetCoverSettings(uid string, cs *models.CoverSettings) error
	NotificationRouting(uid string) (*models.NotificationRouting, error)
	SetNotificationRouting(uid string, nr *models.NotificationRouting) error
}

// ContactServiceInterface is the contacts/threads/messages contract.
type ContactServiceInterface interface {
	ListContacts(uid string) ([]models.Contact, error)
	UpsertContact(uid string, c *models.Contact) error
	ListThreads(uid, contactID string) ([]models.Thread, error)
	ListMessages(uid, threadID string) ([]models.Message, error)
}

// ChatServiceInterface is the owner chat contract.
type ChatServiceInterface interface {
	Chat(ctx context.Context, uid, contactID, threadID, message string) (*services.ChatResponse, error)
	History(uid, threadID string) ([]models.Message, error)
	Manual(uid, threadID, response string) error
}

// FollowupServiceInterface is the follow-up sweep contract.
type FollowupServiceInterface interface {
	Run(ctx context.Context, uid string) (*services.FollowupResult, error)
}

// OutcomeServiceInterface is the outcomes contract.
type OutcomeServiceInterface interface {
	Record(uid string, o *models.Outcome) (*models.Outcome, error)
	List(uid, contactID string) ([]models.Outcome, error)
}

// DashboardServiceInterface is the dashboard summary contract.
type DashboardServiceInterface interface {
	Today(uid string) (*services.DaySummary, error)
	Week(uid string) (*services.WeekSummary, error)
}

// AuditServiceInterface is the audit trail contract.
type AuditServiceInterface interface {
	Append(uid string, entry map[string]interface{})
	List(uid string) ([]map[string]interface{}, error)
}
