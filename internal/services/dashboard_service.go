package services

import "time"

// DashboardService aggregates the daily counters for the owner dashboard.
type DashboardService struct {
	stats *StatsService
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(stats *StatsService) *DashboardService {
	return &DashboardService{stats: stats}
}

// DaySummary is the dashboard payload for one day.
type DaySummary struct {
	Day   string         `json:"day"`
	Stats map[string]int `json:"stats"`
}

// WeekSummary is the rolled-up dashboard payload for the last seven days.
type WeekSummary struct {
	Range        string `json:"range"`
	MinutesSaved int    `json:"minutes_saved"`
}

// Today returns today's counters.
func (s *DashboardService) Today(uid string) (*DaySummary, error) {
	day := StatsDay(time.Now())
	stats, err := s.stats.Day(uid, day)
	if err != nil {
		return nil, err
	}
	return &DaySummary{Day: day, Stats: stats}, nil
}

// Week sums the minutes-saved counter over the last seven days.
func (s *DashboardService) Week(uid string) (*WeekSummary, error) {
	total := 0
	now := time.Now()
	for i := 0; i < 7; i++ {
		day := StatsDay(now.AddDate(0, 0, -i))
		stats, err := s.stats.Day(uid, day)
		if err != nil {
			return nil, err
		}
		total += stats["minutes_saved"]
	}
	return &WeekSummary{Range: "week", MinutesSaved: total}, nil
}
