package services

import (
	"testing"
	"time"

	"github.com/konman95/mainst.ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAlertPrependsNew(t *testing.T) {
	base := []models.Notification{{ID: "a"}, {ID: "b"}}
	out := UpsertAlert(base, models.Notification{ID: "c", Title: "newest"})

	require.Len(t, out, 3)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "b", out[2].ID)
}

func TestUpsertAlertMergesInPlace(t *testing.T) {
	base := []models.Notification{{ID: "a"}, {ID: "b", Title: "old"}, {ID: "c"}}
	out := UpsertAlert(base, models.Notification{ID: "b", Title: "updated"})

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "updated", out[1].Title)
	assert.Equal(t, "c", out[2].ID)

	// Input slice untouched.
	assert.Equal(t, "old", base[1].Title)
}

func TestMergeSyntheticBacklogAlert(t *testing.T) {
	now := time.Now()
	cs := models.DefaultCoverSettings()

	actions := []models.ActionQueueItem{
		{ID: "a1", Status: models.ActionNeedsApproval, CreatedTs: now.Add(-5 * time.Minute).Unix()},
		{ID: "a2", Status: models.ActionNeedsApproval, CreatedTs: now.Add(-10 * time.Minute).Unix()},
		{ID: "a3", Status: models.ActionSent, CreatedTs: now.Add(-90 * time.Minute).Unix()},
	}

	out := MergeSynthetic(nil, actions, cs, now)
	require.Len(t, out, 1)
	alert := out[0]
	assert.Equal(t, "alert-queue", alert.ID)
	assert.Equal(t, models.SeverityMedium, alert.Severity)
	assert.Equal(t, "2 actions waiting. Oldest at 10 minutes.", alert.Detail)
	assert.Equal(t, "a2", alert.ActionID)
	assert.Equal(t, models.AlertNew, alert.Status)
}

func TestMergeSyntheticBacklogGoesHighAtThirtyMinutes(t *testing.T) {
	now := time.Now()
	cs := models.DefaultCoverSettings()

	actions := []models.ActionQueueItem{
		{ID: "a1", Status: models.ActionNeedsApproval, CreatedTs: now.Add(-31 * time.Minute).Unix()},
	}

	out := MergeSynthetic(nil, actions, cs, now)
	require.Len(t, out, 1)
	assert.Equal(t, models.SeverityHigh, out[0].Severity)
	assert.Equal(t, "1 actions waiting. Oldest at 31 minutes.", out[0].Detail)
}

func TestMergeSyntheticModeAlert(t *testing.T) {
	now := time.Now()

	cs := models.DefaultCoverSettings()
	cs.Mode = models.ModeMonitor
	out := MergeSynthetic(nil, nil, cs, now)
	require.Len(t, out, 1)
	assert.Equal(t, "alert-cover", out[0].ID)
	assert.Equal(t, models.AlertAcknowledged, out[0].Status)
	assert.Equal(t, "Owner Cover is monitor. Approvals are required.", out[0].Detail)

	cs.Mode = models.ModeOff
	out = MergeSynthetic(nil, nil, cs, now)
	require.Len(t, out, 1)
	assert.Equal(t, models.AlertNew, out[0].Status)

	cs.Mode = models.ModeAutosend
	out = MergeSynthetic(nil, nil, cs, now)
	assert.Empty(t, out)
}

func TestMergeSyntheticUpdatesExistingAlertInPlace(t *testing.T) {
	now := time.Now()
	cs := models.DefaultCoverSettings()
	base := []models.Notification{
		{ID: "alert-other"},
		{ID: "alert-queue", Detail: "stale"},
	}
	actions := []models.ActionQueueItem{
		{ID: "a1", Status: models.ActionNeedsApproval, CreatedTs: now.Unix()},
	}

	out := MergeSynthetic(base, actions, cs, now)
	require.Len(t, out, 2)
	assert.Equal(t, "alert-other", out[0].ID)
	assert.Equal(t, "alert-queue", out[1].ID)
	assert.Equal(t, "1 actions waiting. Oldest at 0 minutes.", out[1].Detail)
}

func TestNotificationListSeedsDefaultsAndPersists(t *testing.T) {
	env := newTestEnv(t)

	list, err := env.notifications.List("tenant1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alert-weekly", list[0].ID)

	// A second read returns the persisted list, not fresh defaults.
	again, err := env.notifications.List("tenant1")
	require.NoError(t, err)
	assert.Equal(t, list, again)
}

func TestNotificationAddDeliversHighSeverity(t *testing.T) {
	env := newTestEnv(t)

	// Default routing: email on, min severity high.
	err := env.notifications.Add("tenant1", models.Notification{
		ID:       "alert-x",
		Title:    "Escalation queued",
		Detail:   "Legal intent routed for approval.",
		Severity: models.SeverityHigh,
		Status:   models.AlertNew,
		Link:     "/action-queue",
	})
	require.NoError(t, err)

	require.Len(t, env.messenger.emails, 1)
	assert.Equal(t, "Main St AI Alert: Escalation queued", env.messenger.emails[0])
	assert.Empty(t, env.messenger.sms)
}

func TestNotificationAddSkipsDeliveryBelowMinSeverity(t *testing.T) {
	env := newTestEnv(t)

	err := env.notifications.Add("tenant1", models.Notification{
		ID:       "alert-y",
		Severity: models.SeverityMedium,
		Status:   models.AlertNew,
	})
	require.NoError(t, err)
	assert.Empty(t, env.messenger.emails)
}

func TestNotificationAddSkipsDeliveryForNonNewStatus(t *testing.T) {
	env := newTestEnv(t)

	err := env.notifications.Add("tenant1", models.Notification{
		ID:       "alert-z",
		Severity: models.SeverityHigh,
		Status:   models.AlertAcknowledged,
	})
	require.NoError(t, err)
	assert.Empty(t, env.messenger.emails)
}

func TestNotificationSMSDelivery(t *testing.T) {
	env := newTestEnv(t)

	routing := models.DefaultNotificationRouting()
	routing.SMSEnabled = true
	routing.SMS = "+15555550100"
	routing.MinSeverity = models.SeverityLow
	require.NoError(t, env.cfg.SetNotificationRouting("tenant1", routing))

	err := env.notifications.Add("tenant1", models.Notification{
		ID:       "alert-sms",
		Title:    "Backlog",
		Detail:   "3 waiting",
		Severity: models.SeverityLow,
		Status:   models.AlertNew,
	})
	require.NoError(t, err)
	require.Len(t, env.messenger.sms, 1)
	assert.Equal(t, "Backlog: 3 waiting", env.messenger.sms[0])
}

func TestNotificationUpdateStatus(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.notifications.Add("tenant1", models.Notification{
		ID: "alert-a", Severity: models.SeverityLow, Status: models.AlertNew,
	}))

	list, err := env.notifications.UpdateStatus("tenant1", "alert-a", models.AlertResolved)
	require.NoError(t, err)

	var found bool
	for _, n := range list {
		if n.ID == "alert-a" {
			found = true
			assert.Equal(t, models.AlertResolved, n.Status)
		}
	}
	assert.True(t, found)
}
