package services

import (
	"encoding/json"
	"time"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"

	"github.com/google/uuid"
)

// OutcomeService records how conversations ended, feeding the per-type
// outcome counters.
type OutcomeService struct {
	store store.Store
	stats *StatsService
	audit *AuditService
}

// NewOutcomeService creates an outcome service.
func NewOutcomeService(st store.Store, stats *StatsService, audit *AuditService) *OutcomeService {
	return &OutcomeService{store: st, stats: stats, audit: audit}
}

// Record persists an outcome and bumps its type counter.
func (s *OutcomeService) Record(uid string, o *models.Outcome) (*models.Outcome, error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Ts == 0 {
		o.Ts = time.Now().Unix()
	}
	if err := s.store.SetDoc(uid, "outcomes/"+o.ID, o); err != nil {
		return nil, err
	}
	if err := s.stats.Inc(uid, "outcome_"+o.Type, 1); err != nil {
		return nil, err
	}
	s.audit.Append(uid, map[string]interface{}{"type": "outcome_recorded", "outcome": o})
	return o, nil
}

// List returns outcomes, optionally filtered by contact.
func (s *OutcomeService) List(uid, contactID string) ([]models.Outcome, error) {
	rows, err := s.store.ListDocs(uid, "outcomes/")
	if err != nil {
		return nil, err
	}
	out := make([]models.Outcome, 0, len(rows))
	for _, raw := range rows {
		var o models.Outcome
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		if contactID != "" && o.ContactID != contactID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
