package ports

import (
	"context"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

// Низкоуровневые движки: возвращают сырой результат, без валидации.

type STTClient interface {
	Transcribe(ctx context.Context, filePath string) (string, error) // голос → текст
}

type TTSClient interface {
	Synthesize(ctx context.Context, text, outPath string) error // текст → голос (пишет файл)
}

// Transcriber returns only transcripts that passed the token gate.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (models.TranscriptionResult, error)
}

// Synthesizer writes verified, non-empty audio to outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outPath string) (models.AudioFormat, error)
}
