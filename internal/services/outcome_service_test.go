package services

import (
	"testing"
	"time"

	"github.com/konman95/mainst.ai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeRecordAndList(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.outcomes.Record("tenant1", &models.Outcome{
		ContactID: "c1",
		ThreadID:  "thread-c1-webchat",
		Type:      "booked",
		Note:      "scheduled for Tuesday",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.NotZero(t, rec.Ts)

	_, err = env.outcomes.Record("tenant1", &models.Outcome{ContactID: "c2", Type: "lost"})
	require.NoError(t, err)

	all, err := env.outcomes.List("tenant1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := env.outcomes.List("tenant1", "c1")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "booked", filtered[0].Type)

	stats := env.todayStats(t, "tenant1")
	assert.Equal(t, 1, stats["outcome_booked"])
	assert.Equal(t, 1, stats["outcome_lost"])
}

func TestDashboardSummaries(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.stats.Inc("tenant1", "minutes_saved", 6))
	require.NoError(t, env.stats.Inc("tenant1", "autosent", 3))

	today, err := env.dashboard.Today("tenant1")
	require.NoError(t, err)
	assert.Equal(t, StatsDay(time.Now()), today.Day)
	assert.Equal(t, 6, today.Stats["minutes_saved"])
	assert.Equal(t, 3, today.Stats["autosent"])

	week, err := env.dashboard.Week("tenant1")
	require.NoError(t, err)
	assert.Equal(t, "week", week.Range)
	assert.Equal(t, 6, week.MinutesSaved)
}
