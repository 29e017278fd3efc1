package error_notificator

import (
	"context"

	"github.com/Vovarama1992/go-utils/logger"
)

// LogInfra пишет алерт в лог, когда Telegram не настроен.
type LogInfra struct {
	log *logger.ZapLogger
}

func NewLogInfra(log *logger.ZapLogger) *LogInfra {
	return &LogInfra{log: log}
}

func (i *LogInfra) Notify(ctx context.Context, requestID string, err error, details string) error {
	i.log.Log(logger.LogEntry{
		Level:   "error",
		Message: "admin alert",
		Service: "error_notificator",
		Error:   err,
		Fields: map[string]any{
			"request_id": requestID,
			"details":    details,
		},
	})
	return nil
}
