package models

import "errors"

// Ошибки клиентов. Клиенты оборачивают причину: fmt.Errorf("%w: %w", ErrX, err).
var (
	ErrTranscription = errors.New("transcription failed")
	ErrNoSpeech      = errors.New("audio too short or unclear")

	ErrReply               = errors.New("reply generation failed")
	ErrEmptyReply          = errors.New("model returned empty response")
	ErrMissingAnswerMarker = errors.New("no 'Answer:' marker in model response")

	ErrSynthesis  = errors.New("speech synthesis failed")
	ErrEmptyAudio = errors.New("synthesized audio is empty")
)

// ErrorKind is the coarse failure class reported to the caller.
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindInvalidInput      ErrorKind = "invalid_input"
	ErrorKindDownstreamFailure ErrorKind = "downstream_failure"
	ErrorKindInternalFailure   ErrorKind = "internal_failure"
)

// NoSpeechMessage is the fixed message returned for InvalidInput.
const NoSpeechMessage = "No speech detected"
