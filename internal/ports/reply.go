package ports

import (
	"context"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

// LLMClient sends a fully built prompt and returns the raw model output.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ReplyGenerator interface {
	GenerateReply(ctx context.Context, userText string) (models.ReplyText, error)
}
