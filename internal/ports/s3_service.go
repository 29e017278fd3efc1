package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

// Exchange is one finished round trip as it is archived.
type Exchange struct {
	RequestID  string
	Transcript string
	ReplyText  string
	Input      models.AudioPayload
	Reply      models.AudioPayload
	CreatedAt  time.Time
}

type Archiver interface {
	SaveExchange(ctx context.Context, ex Exchange) error
}
