package domain

import (
	"fmt"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

// PipelineError is the single typed failure of one round trip.
type PipelineError struct {
	Kind    models.ErrorKind
	Stage   models.State // state the run was in when it failed
	Message string       // what the caller sees
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func invalidInput(stage models.State, msg string, err error) *PipelineError {
	return &PipelineError{Kind: models.ErrorKindInvalidInput, Stage: stage, Message: msg, Err: err}
}

func downstreamFailure(stage models.State, err error) *PipelineError {
	return &PipelineError{Kind: models.ErrorKindDownstreamFailure, Stage: stage, Message: err.Error(), Err: err}
}

func internalFailure(stage models.State, err error) *PipelineError {
	return &PipelineError{Kind: models.ErrorKindInternalFailure, Stage: stage, Message: err.Error(), Err: err}
}
