package adapters

import (
	"context"
	"log/slog"

	"zaitan_backend/internal/feature/auth/usecase"
)

// LogSMSSender writes codes to the log instead of sending an SMS.
// No SMS gateway is integrated yet.
type LogSMSSender struct{}

var _ usecase.SMSSender = LogSMSSender{}

// Send logs the phone number. The code itself is logged at debug level only.
func (LogSMSSender) Send(ctx context.Context, phone, code string) error {
	slog.InfoContext(ctx, "sms verification code issued", "phone", phone)
	slog.DebugContext(ctx, "sms verification code", "phone", phone, "code", code)
	return nil
}
