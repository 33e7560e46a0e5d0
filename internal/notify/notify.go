// Package notify implements best-effort outbound alert delivery. Provider
// errors are logged and swallowed; nothing in here can fail the pipeline.
package notify

import (
	"github.com/konman95/mainst.ai/pkg/logger"

	"go.uber.org/zap"
)

// Service fans alert deliveries out to the configured providers. Either
// client may be nil, which disables that channel.
type Service struct {
	email *SendGridClient
	sms   *TwilioClient
}

// NewService creates a delivery service over the given clients.
func NewService(email *SendGridClient, sms *TwilioClient) *Service {
	return &Service{email: email, sms: sms}
}

// SendEmail delivers an email alert, logging and discarding failures.
func (s *Service) SendEmail(to, subject, body string) {
	if s.email == nil {
		return
	}
	if err := s.email.Send(to, subject, body); err != nil {
		logger.Error("Email delivery failed", zap.String("to", to), zap.Error(err))
	}
}

// SendSMS delivers an SMS alert, logging and discarding failures.
func (s *Service) SendSMS(to, body string) {
	if s.sms == nil {
		return
	}
	if err := s.sms.Send(to, body); err != nil {
		logger.Error("SMS delivery failed", zap.String("to", to), zap.Error(err))
	}
}
