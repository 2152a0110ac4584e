// Package notify delivers OTP codes to their destination. Email and SMS
// backends are stand-ins: codes are logged instead of sent. The Sender
// contract stays so a real mailer or SMS gateway can be dropped in.
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendCode routes by destination shape: anything containing "@" is treated
// as an email address, everything else as a mobile number.
func (s *LogSender) SendCode(_ context.Context, destination, code string) error {
	channel := "sms"
	if strings.Contains(destination, "@") {
		channel = "email"
	}
	s.logger.Info("otp code dispatched",
		zap.String("channel", channel),
		zap.String("destination", destination),
		zap.String("code", code))
	return nil
}
