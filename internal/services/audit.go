package services

import (
	"encoding/json"
	"time"

	"github.com/konman95/mainst.ai/internal/store"
	"github.com/konman95/mainst.ai/pkg/logger"

	"go.uber.org/zap"
)

const auditCollection = "auditLog"

// AuditService appends structured records to the tenant's audit trail.
// Audit failures are logged and swallowed so bookkeeping never breaks the
// pipeline.
type AuditService struct {
	store store.Store
}

// NewAuditService creates an audit service backed by st.
func NewAuditService(st store.Store) *AuditService {
	return &AuditService{store: st}
}

// Append records one audit entry, stamping it with the current time.
func (s *AuditService) Append(uid string, entry map[string]interface{}) {
	record := make(map[string]interface{}, len(entry)+1)
	for k, v := range entry {
		record[k] = v
	}
	record["ts"] = time.Now().Unix()

	if err := s.store.AppendDoc(uid, auditCollection, record); err != nil {
		logger.Error("Audit append failed", zap.String("uid", uid), zap.Error(err))
	}
}

// List returns the audit trail in insertion order.
func (s *AuditService) List(uid string) ([]map[string]interface{}, error) {
	rows, err := s.store.ListCollection(uid, auditCollection)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for _, raw := range rows {
		entry := map[string]interface{}{}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
