package services

import (
	"errors"

	"github.com/konman95/mainst.ai/internal/models"
	"github.com/konman95/mainst.ai/internal/store"
)

// Config document paths.
const (
	pathBusinessProfile     = "config/businessProfile"
	pathCoverSettings       = "config/ownerCover"
	pathNotificationRouting = "config/notificationRouting"
)

// ConfigService reads and writes the per-tenant configuration documents.
// Reads return the shipped defaults until the tenant saves a document.
type ConfigService struct {
	store store.Store
}

// NewConfigService creates a config service backed by st.
func NewConfigService(st store.Store) *ConfigService {
	return &ConfigService{store: st}
}

// BusinessProfile returns the tenant's profile.
func (s *ConfigService) BusinessProfile(uid string) (*models.BusinessProfile, error) {
	bp := &models.BusinessProfile{}
	err := s.store.GetDoc(uid, pathBusinessProfile, bp)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultBusinessProfile(), nil
	}
	if err != nil {
		return nil, err
	}
	return bp, nil
}

// SetBusinessProfile replaces the tenant's profile.
func (s *ConfigService) SetBusinessProfile(uid string, bp *models.BusinessProfile) error {
	return s.store.SetDoc(uid, pathBusinessProfile, bp)
}

// CoverSettings returns the tenant's routing policy.
func (s *ConfigService) CoverSettings(uid string) (*models.CoverSettings, error) {
	cs := &models.CoverSettings{}
	err := s.store.GetDoc(uid, pathCoverSettings, cs)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultCoverSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// SetCoverSettings replaces the tenant's routing policy.
func (s *ConfigService) SetCoverSettings(uid string, cs *models.CoverSettings) error {
	return s.store.SetDoc(uid, pathCoverSettings, cs)
}

// NotificationRouting returns the tenant's alert delivery settings.
func (s *ConfigService) NotificationRouting(uid string) (*models.NotificationRouting, error) {
	nr := &models.NotificationRouting{}
	err := s.store.GetDoc(uid, pathNotificationRouting, nr)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultNotificationRouting(), nil
	}
	if err != nil {
		return nil, err
	}
	return nr, nil
}

// SetNotificationRouting replaces the tenant's alert delivery settings.
func (s *ConfigService) SetNotificationRouting(uid string, nr *models.NotificationRouting) error {
	return s.store.SetDoc(uid, pathNotificationRouting, nr)
}
