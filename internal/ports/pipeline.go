package ports

import (
	"context"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

type PipelineService interface {
	Process(ctx context.Context, audio models.AudioPayload) models.PipelineResponse
}
