package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
)

const archiveTimeout = 30 * time.Second

type PipelineConfig struct {
	TempDir      string
	StageTimeout time.Duration
}

// PipelineService turns one uploaded clip into transcript, reply text and
// reply audio. It keeps no per-request state in the struct, so one instance
// serves concurrent requests.
type PipelineService struct {
	stt      ports.Transcriber
	replier  ports.ReplyGenerator
	tts      ports.Synthesizer
	archiver ports.Archiver
	notifier ports.Notificator
	log      *logger.ZapLogger
	cfg      PipelineConfig
}

// NewPipelineService: archiver и notifier могут быть nil.
func NewPipelineService(
	stt ports.Transcriber,
	replier ports.ReplyGenerator,
	tts ports.Synthesizer,
	archiver ports.Archiver,
	notifier ports.Notificator,
	log *logger.ZapLogger,
	cfg PipelineConfig,
) *PipelineService {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &PipelineService{
		stt:      stt,
		replier:  replier,
		tts:      tts,
		archiver: archiver,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
	}
}

// Process runs the whole round trip. Failures come back inside the response
// with their kind set; the function itself never panics on engine errors.
func (s *PipelineService) Process(ctx context.Context, audio models.AudioPayload) models.PipelineResponse {
	start := time.Now()
	rt := newRoundTrip(uuid.NewString())

	resp, perr := s.run(ctx, rt, audio)
	if perr != nil {
		return s.fail(ctx, rt, perr, start)
	}

	resp.RequestID = rt.id
	resp.State = rt.state
	resp.Trace = rt.trace

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "round trip completed",
		Fields: map[string]any{
			"request_id": rt.id,
			"input":      humanize.Bytes(uint64(len(audio.Data))),
			"output":     humanize.Bytes(uint64(len(resp.ReplyAudio.Data))),
			"elapsed":    time.Since(start).String(),
		},
	})

	s.archive(rt.id, audio, resp)
	return resp
}

func (s *PipelineService) run(ctx context.Context, rt *roundTrip, audio models.AudioPayload) (models.PipelineResponse, *PipelineError) {
	var resp models.PipelineResponse

	if audio.Empty() {
		return resp, invalidInput(rt.state, models.NoSpeechMessage, errors.New("empty audio upload"))
	}

	// 1) голос -> текст; входной файл живёт только на время распознавания
	var transcript models.TranscriptionResult
	err := withTempFile(s.cfg.TempDir, "input-*"+audio.FileExt(), audio.Data, func(path string) error {
		if perr := rt.step(models.StateTranscribing); perr != nil {
			return perr
		}

		stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
		defer cancel()

		res, err := s.stt.Transcribe(stageCtx, path)
		if err != nil {
			return s.classifyTranscription(rt.state, err)
		}
		// клиент уже проверил, но шлюз держим и здесь
		if !res.Valid() {
			return invalidInput(rt.state, models.NoSpeechMessage, models.ErrNoSpeech)
		}
		transcript = res
		return nil
	})
	if perr := asPipelineError(rt.state, err); perr != nil {
		return resp, perr
	}
	if perr := rt.step(models.StateTranscribed); perr != nil {
		return resp, perr
	}
	resp.Transcript = transcript.Text

	// 2) текст -> ответ модели
	if perr := rt.step(models.StateGenerating); perr != nil {
		return resp, perr
	}
	reply, err := s.generate(ctx, transcript.Text)
	if err != nil {
		return resp, stageFailure(rt.state, "reply generation", err)
	}
	if reply.Text == "" {
		return resp, downstreamFailure(rt.state, models.ErrEmptyReply)
	}
	if perr := rt.step(models.StateGenerated); perr != nil {
		return resp, perr
	}
	resp.ReplyText = reply.Text

	// 3) ответ -> голос; выходной файл удаляется сразу после чтения
	if perr := rt.step(models.StateSynthesizing); perr != nil {
		return resp, perr
	}
	err = withTempFile(s.cfg.TempDir, "reply-*.audio", nil, func(path string) error {
		stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
		defer cancel()

		format, err := s.tts.Synthesize(stageCtx, reply.Text, path)
		if err != nil {
			return stageFailure(rt.state, "speech synthesis", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return internalFailure(rt.state, fmt.Errorf("read synthesized audio: %w", err))
		}
		if len(data) == 0 {
			return downstreamFailure(rt.state, fmt.Errorf("%w: %w", models.ErrSynthesis, models.ErrEmptyAudio))
		}

		resp.ReplyAudio = models.AudioPayload{Data: data, Format: format}
		return nil
	})
	if perr := asPipelineError(rt.state, err); perr != nil {
		return resp, perr
	}
	if perr := rt.step(models.StateSynthesized); perr != nil {
		return resp, perr
	}

	if perr := rt.step(models.StateCompleted); perr != nil {
		return resp, perr
	}
	return resp, nil
}

func (s *PipelineService) generate(ctx context.Context, text string) (models.ReplyText, error) {
	stageCtx, cancel := context.WithTimeout(ctx, s.cfg.StageTimeout)
	defer cancel()
	return s.replier.GenerateReply(stageCtx, text)
}

func (s *PipelineService) classifyTranscription(stage models.State, err error) *PipelineError {
	if errors.Is(err, models.ErrNoSpeech) {
		return invalidInput(stage, models.NoSpeechMessage, err)
	}
	return stageFailure(stage, "transcription", err)
}

// stageFailure maps an engine error to DownstreamFailure, naming timeouts.
func stageFailure(stage models.State, what string, err error) *PipelineError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &PipelineError{
			Kind:    models.ErrorKindDownstreamFailure,
			Stage:   stage,
			Message: what + " timed out",
			Err:     err,
		}
	}
	return downstreamFailure(stage, err)
}

// asPipelineError keeps typed stage errors and treats anything else coming
// out of withTempFile (create/write/close) as an internal failure.
func asPipelineError(stage models.State, err error) *PipelineError {
	if err == nil {
		return nil
	}
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr
	}
	return internalFailure(stage, err)
}

func (s *PipelineService) fail(ctx context.Context, rt *roundTrip, perr *PipelineError, start time.Time) models.PipelineResponse {
	if err := rt.advance(models.StateFailed); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "round trip state",
			Error:   err,
			Fields:  map[string]any{"request_id": rt.id},
		})
	}

	level := "error"
	if perr.Kind == models.ErrorKindInvalidInput {
		level = "warn"
	}
	s.log.Log(logger.LogEntry{
		Level:   level,
		Message: "round trip failed",
		Error:   perr.Err,
		Fields: map[string]any{
			"request_id": rt.id,
			"kind":       string(perr.Kind),
			"stage":      string(perr.Stage),
			"message":    perr.Message,
			"elapsed":    time.Since(start).String(),
		},
	})

	if perr.Kind != models.ErrorKindInvalidInput && s.notifier != nil {
		details := fmt.Sprintf("kind=%s stage=%s", perr.Kind, perr.Stage)
		if err := s.notifier.Notify(ctx, rt.id, perr, details); err != nil {
			s.log.Log(logger.LogEntry{Level: "warn", Message: "admin notification failed", Error: err})
		}
	}

	return models.PipelineResponse{
		RequestID: rt.id,
		ErrorKind: perr.Kind,
		Message:   perr.Message,
		State:     rt.state,
		Trace:     rt.trace,
	}
}

// archive uploads a finished exchange in the background; the response never
// waits for it.
func (s *PipelineService) archive(id string, input models.AudioPayload, resp models.PipelineResponse) {
	if s.archiver == nil {
		return
	}

	ex := ports.Exchange{
		RequestID:  id,
		Transcript: resp.Transcript,
		ReplyText:  resp.ReplyText,
		Input:      input,
		Reply:      resp.ReplyAudio,
		CreatedAt:  time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := s.archiver.SaveExchange(ctx, ex); err != nil {
			s.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "archive exchange failed",
				Error:   err,
				Fields:  map[string]any{"request_id": id},
			})
		}
	}()
}
