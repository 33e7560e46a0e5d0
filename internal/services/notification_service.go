package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"
	"github.com/konman95/mainst.ai/pkg/logger"

	"go.uber.org/zap"
)

const notificationsDoc = "notifications"

// Messenger delivers alerts out of band. Implementations are best-effort:
// they log failures and never return them.
type Messenger interface {
	SendEmail(to, subject, body string)
	SendSMS(to, body string)
}

// NotificationService maintains the tenant's deduplicated alert list and
// routes qualifying alerts to external delivery. All list mutations go
// through the store's per-document update lock, which serializes writers
// per tenant.
type NotificationService struct {
	store     store.Store
	cfg       *ConfigService
	messenger Messenger
}

// NewNotificationService creates a notification service. messenger may be
// nil to disable external delivery entirely.
func NewNotificationService(st store.Store, cfg *ConfigService, messenger Messenger) *NotificationService {
	return &NotificationService{store: st, cfg: cfg, messenger: messenger}
}

// UpsertAlert merges alert into base by id. An existing id is replaced in
// place, keeping its position; a new id is prepended, so the list stays
// most-recent-first without any timestamp sort.
func UpsertAlert(base []models.Notification, alert models.Notification) []models.Notification {
	for i, row := range base {
		if row.ID == alert.ID {
			out := make([]models.Notification, len(base))
			copy(out, base)
			out[i] = alert
			return out
		}
	}
	out := make([]models.Notification, 0, len(base)+1)
	out = append(out, alert)
	return append(out, base...)
}

// MergeSynthetic recomputes the two read-time alerts over base: the
// approval-backlog alert (present while any item needs approval, high
// severity once the oldest is 30 minutes old) and the cover-mode alert
// (present while the mode is not autosend). Pure; persistence is the
// caller's problem.
func MergeSynthetic(base []models.Notification, actions []models.ActionQueueItem, cs *models.CoverSettings, now time.Time) []models.Notification {
	var pending []models.ActionQueueItem
	for _, a := range actions {
		if a.Status == models.ActionNeedsApproval {
			pending = append(pending, a)
		}
	}

	if len(pending) > 0 {
		oldest := pending[0]
		for _, a := range pending[1:] {
			if a.CreatedTs < oldest.CreatedTs {
				oldest = a
			}
		}
		ageMin := (now.Unix() - oldest.CreatedTs) / 60
		severity := models.SeverityMedium
		if ageMin >= 30 {
			severity = models.SeverityHigh
		}
		base = UpsertAlert(base, models.Notification{
			ID:       "alert-queue",
			Title:    "Approval queue backlog",
			Detail:   fmt.Sprintf("%d actions waiting. Oldest at %d minutes.", len(pending), ageMin),
			Severity: severity,
			Status:   models.AlertNew,
			Ts:       now.Unix(),
			Tags:     []string{"sla", "queue", "approval"},
			Link:     "/action-queue",
			ActionID: oldest.ID,
		})
	}

	if cs.Mode != models.ModeAutosend {
		status := models.AlertNew
		if cs.Mode == models.ModeMonitor {
			status = models.AlertAcknowledged
		}
		base = UpsertAlert(base, models.Notification{
			ID:       "alert-cover",
			Title:    "Owner Cover not in Auto-Send",
			Detail:   fmt.Sprintf("Owner Cover is %s. Approvals are required.", cs.Mode),
			Severity: models.SeverityMedium,
			Status:   status,
			Ts:       now.Unix(),
			Tags:     []string{"ownercover", "mode"},
			Link:     "/owner-cover",
		})
	}

	return base
}

func loadAlerts(raw []byte) ([]models.Notification, error) {
	if raw == nil {
		return models.DefaultAlerts(), nil
	}
	var alerts []models.Notification
	if err := json.Unmarshal(raw, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Add upserts alert into the tenant's list and routes it to delivery.
func (s *NotificationService) Add(uid string, alert models.Notification) error {
	if alert.Ts == 0 {
		alert.Ts = time.Now().Unix()
	}
	if alert.Tags == nil {
		alert.Tags = []string{}
	}

	err := s.store.UpdateDoc(uid, notificationsDoc, func(raw []byte) (interface{}, error) {
		base, err := loadAlerts(raw)
		if err != nil {
			return nil, err
		}
		return UpsertAlert(base, alert), nil
	})
	if err != nil {
		return err
	}

	s.deliver(uid, alert)
	return nil
}

// List returns the alert list with the synthetic alerts recomputed and
// persisted.
func (s *NotificationService) List(uid string) ([]models.Notification, error) {
	actions, err := listActionQueueItems(s.store, uid)
	if err != nil {
		return nil, err
	}
	cs, err := s.cfg.CoverSettings(uid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var result []models.Notification
	err = s.store.UpdateDoc(uid, notificationsDoc, func(raw []byte) (interface{}, error) {
		base, err := loadAlerts(raw)
		if err != nil {
			return nil, err
		}
		result = MergeSynthetic(base, actions, cs, now)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus sets the status of one alert and returns the full list.
// Unknown ids leave the list unchanged.
func (s *NotificationService) UpdateStatus(uid, id, status string) ([]models.Notification, error) {
	var result []models.Notification
	err := s.store.UpdateDoc(uid, notificationsDoc, func(raw []byte) (interface{}, error) {
		base, err := loadAlerts(raw)
		if err != nil {
			return nil, err
		}
		for i := range base {
			if base[i].ID == id {
				base[i].Status = status
				base[i].Ts = time.Now().Unix()
			}
		}
		result = base
		return base, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deliver routes a new alert at or above the tenant's minimum severity to
// email and/or SMS. Best-effort all the way down.
func (s *NotificationService) deliver(uid string, alert models.Notification) {
	if s.messenger == nil || alert.Status != models.AlertNew {
		return
	}

	routing, err := s.cfg.NotificationRouting(uid)
	if err != nil {
		logger.Warn("Notification routing unavailable", zap.String("uid", uid), zap.Error(err))
		return
	}

	if models.SeverityRank(alert.Severity) < models.SeverityRank(routing.MinSeverity) {
		return
	}

	body := alert.Detail
	if alert.Link != "" {
		body = fmt.Sprintf("%s\n\nOpen: %s", body, alert.Link)
	}

	if routing.EmailEnabled && routing.Email != "" {
		s.messenger.SendEmail(routing.Email, fmt.Sprintf("Main St AI Alert: %s", alert.Title), body)
	}
	if routing.SMSEnabled && routing.SMS != "" {
		s.messenger.SendSMS(routing.SMS, fmt.Sprintf("%s: %s", alert.Title, alert.Detail))
	}
}
