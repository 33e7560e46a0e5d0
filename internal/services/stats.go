package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/konman95/mainst.ai/internal/store"
)

// StatsService maintains per-day counter documents under stats/daily_<day>.
type StatsService struct {
	store store.Store
}

// NewStatsService creates a stats service backed by st.
func NewStatsService(st store.Store) *StatsService {
	return &StatsService{store: st}
}

// StatsDay formats t as the daily document key suffix.
func StatsDay(t time.Time) string {
	return t.Format("20060102")
}

func statsPath(day string) string {
	return fmt.Sprintf("stats/daily_%s", day)
}

// Inc adds amount to the named counter on today's document. The
// read-modify-write runs inside the store's update lock so concurrent
// increments never lose counts.
func (s *StatsService) Inc(uid, key string, amount int) error {
	day := StatsDay(time.Now())
	return s.store.UpdateDoc(uid, statsPath(day), func(raw []byte) (interface{}, error) {
		stats := map[string]interface{}{}
		if raw != nil {
			if err := json.Unmarshal(raw, &stats); err != nil {
				return nil, err
			}
		}
		current := 0
		if v, ok := stats[key].(float64); ok {
			current = int(v)
		}
		stats[key] = current + amount
		stats["day"] = day
		return stats, nil
	})
}

// Day returns the counters recorded for one day. A day with no activity
// returns an empty map.
func (s *StatsService) Day(uid, day string) (map[string]int, error) {
	raw := map[string]interface{}{}
	err := s.store.GetDoc(uid, statsPath(day), &raw)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}
	out := map[string]int{}
	for k, v := range raw {
		if n, ok := v.(float64); ok {
			out[k] = int(n)
		}
	}
	return out, nil
}
