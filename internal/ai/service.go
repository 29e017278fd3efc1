package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
)

type Options struct {
	// MaxChars > 0 hard-truncates the reply. The prompt only asks for
	// ReplyTargetChars, nothing enforces it otherwise.
	MaxChars int
	// RequireMarker turns a missing "Answer:" marker into an error instead of
	// falling back to the whole cleaned output.
	RequireMarker bool
}

type AiService struct {
	llm  ports.LLMClient
	opts Options
}

func NewAiService(llm ports.LLMClient, opts Options) *AiService {
	return &AiService{
		llm:  llm,
		opts: opts,
	}
}

// диагностика ошибок модели для логов
func analyzeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "inference timed out"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "inference service is not running"
	case strings.Contains(msg, "not found"), strings.Contains(msg, "status code: 404"):
		return "model not found, pull it first"
	case strings.Contains(msg, "status code: 401"):
		return "invalid API key"
	case strings.Contains(msg, "status code: 429"):
		return "rate limited"
	case strings.Contains(msg, "status code: 5"):
		return "inference service internal error"
	}
	return "unknown inference error"
}

func (s *AiService) GenerateReply(ctx context.Context, userText string) (models.ReplyText, error) {
	start := time.Now()
	log.Printf("[ai] >>> START prompt=%q", userText)

	raw, err := s.llm.Complete(ctx, BuildPrompt(userText))
	if err != nil {
		log.Printf("[ai][%.1fs] fail: %v (%s)", time.Since(start).Seconds(), err, analyzeLLMError(err))
		return models.ReplyText{}, fmt.Errorf("%w: %w", models.ErrReply, err)
	}

	text, found := ExtractAnswer(raw)
	if !found {
		if s.opts.RequireMarker {
			return models.ReplyText{}, fmt.Errorf("%w: %w", models.ErrReply, models.ErrMissingAnswerMarker)
		}
		log.Printf("[ai] no 'Answer:' found in response, using full response")
	}

	if text == "" {
		return models.ReplyText{}, fmt.Errorf("%w: %w", models.ErrReply, models.ErrEmptyReply)
	}

	reply := models.ReplyText{Text: text, MarkerFound: found}
	reply.Text, reply.Truncated = Truncate(reply.Text, s.opts.MaxChars)

	log.Printf("[ai][%.1fs] done reply=%q marker=%t truncated=%t",
		time.Since(start).Seconds(), reply.Text, reply.MarkerFound, reply.Truncated)
	return reply, nil
}
