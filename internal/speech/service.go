package speech

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
)

// Service wraps the raw engines with the validation gates: a transcript must
// carry at least two tokens, and synthesized audio must decode to at least one
// sample.
type Service struct {
	stt ports.STTClient
	tts ports.TTSClient
}

func NewService(stt ports.STTClient, tts ports.TTSClient) *Service {
	return &Service{
		stt: stt,
		tts: tts,
	}
}

func (s *Service) Transcribe(ctx context.Context, filePath string) (models.TranscriptionResult, error) {
	log.Printf("[stt] transcribing %s", filePath)

	text, err := s.stt.Transcribe(ctx, filePath)
	if err != nil {
		return models.TranscriptionResult{}, fmt.Errorf("%w: %w", models.ErrTranscription, err)
	}

	res := models.TranscriptionResult{Text: NormalizeTranscript(text)}
	if !res.Valid() {
		log.Printf("[stt] transcript too short or empty: %q", res.Text)
		return res, fmt.Errorf("%w: %w", models.ErrTranscription, models.ErrNoSpeech)
	}

	log.Printf("[stt] transcribed: %q", res.Text)
	return res, nil
}

func (s *Service) Synthesize(ctx context.Context, text, outPath string) (models.AudioFormat, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.AudioFormatUnknown, fmt.Errorf("%w: empty text", models.ErrSynthesis)
	}

	log.Printf("[tts] synthesizing %d chars -> %s", len(text), outPath)

	if err := s.tts.Synthesize(ctx, text, outPath); err != nil {
		return models.AudioFormatUnknown, fmt.Errorf("%w: %w", models.ErrSynthesis, err)
	}

	// не доверяем движку: декодируем то, что он записал
	data, err := os.ReadFile(outPath)
	if err != nil {
		return models.AudioFormatUnknown, fmt.Errorf("%w: read output: %w", models.ErrSynthesis, err)
	}

	info, err := Decode(data)
	if err != nil {
		return models.AudioFormatUnknown, fmt.Errorf("%w: %w", models.ErrSynthesis, err)
	}
	if info.Samples == 0 {
		return info.Format, fmt.Errorf("%w: %w", models.ErrSynthesis, models.ErrEmptyAudio)
	}

	log.Printf("[tts] ok format=%s size=%s duration=%s",
		info.Format, humanize.Bytes(uint64(len(data))), info.Duration())
	return info.Format, nil
}

// NormalizeTranscript trims the engine output and collapses inner whitespace.
func NormalizeTranscript(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
