package sms

//go:generate go run go.uber.org/mock/mockgen -source=./sms.go -destination=./mocks/sms_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Sender delivers transactional SMS. Deployments plug in a real provider;
// the default implementation only logs, which is enough for development and
// keeps OTP issuance testable.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

type logSender struct {
}

func NewLogSender() Sender {
	return &logSender{}
}

// Send implements Sender.
func (s *logSender) Send(_ context.Context, phone, message string) error {
	log.Info().Str("phone", phone).Str("message", message).Msg("SMS dispatched")

	return nil
}
