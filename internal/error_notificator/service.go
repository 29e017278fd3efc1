package error_notificator

import (
	"context"
	"time"
)

const sendTimeout = 10 * time.Second

type Service struct {
	infra   Notificator
	timeout time.Duration
}

func NewService(infra Notificator) *Service {
	return &Service{infra: infra, timeout: sendTimeout}
}

// Notify не даёт медленному Telegram задержать ответ клиенту дольше timeout.
func (s *Service) Notify(ctx context.Context, requestID string, err error, details string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	return s.infra.Notify(ctx, requestID, err, details)
}
