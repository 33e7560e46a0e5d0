package services

import (
	"sync"
	"testing"
	"time"

	"github.com/konman95/mainst.ai/internal/store"
)

// recordingMessenger captures outbound alert deliveries for assertions.
type recordingMessenger struct {
	mu     sync.Mutex
	emails []string
	sms    []string
}

func (m *recordingMessenger) SendEmail(to, subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, subject)
}

func (m *recordingMessenger) SendSMS(to, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sms = append(m.sms, body)
}

type testEnv struct {
	store         *store.MemoryStore
	messenger     *recordingMessenger
	cfg           *ConfigService
	contacts      *ContactService
	stats         *StatsService
	audit         *AuditService
	actions       *ActionService
	notifications *NotificationService
	cover         *CoverService
	followups     *FollowupService
	chat          *ChatService
	outcomes      *OutcomeService
	dashboard     *DashboardService
}

// newTestEnv wires the full service graph over a memory store, with no
// generator so every draft comes from the templates.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	messenger := &recordingMessenger{}

	cfg := NewConfigService(st)
	contacts := NewContactService(st)
	stats := NewStatsService(st)
	audit := NewAuditService(st)
	composer := NewComposer(nil, time.Second)
	actions := NewActionService(st, contacts, stats, audit, cfg, 2)
	notifications := NewNotificationService(st, cfg, messenger)
	policy := NewPolicyEngine(composer)
	cover := NewCoverService(st, cfg, contacts, stats, audit, policy, actions, notifications)
	followups := NewFollowupService(st, cfg, contacts, stats, audit, actions)
	chat := NewChatService(cfg, contacts, stats, audit, composer)
	outcomes := NewOutcomeService(st, stats, audit)
	dashboard := NewDashboardService(stats)

	return &testEnv{
		store:         st,
		messenger:     messenger,
		cfg:           cfg,
		contacts:      contacts,
		stats:         stats,
		audit:         audit,
		actions:       actions,
		notifications: notifications,
		cover:         cover,
		followups:     followups,
		chat:          chat,
		outcomes:      outcomes,
		dashboard:     dashboard,
	}
}

func (e *testEnv) todayStats(t *testing.T, uid string) map[string]int {
	t.Helper()
	stats, err := e.stats.Day(uid, StatsDay(time.Now()))
	if err != nil {
		t.Fatalf("reading stats: %v", err)
	}
	return stats
}
