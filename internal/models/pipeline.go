package models

// State of one round trip. Completed and Failed are terminal.
type State string

const (
	StateReceived     State = "received"
	StateTranscribing State = "transcribing"
	StateTranscribed  State = "transcribed"
	StateGenerating   State = "generating"
	StateGenerated    State = "generated"
	StateSynthesizing State = "synthesizing"
	StateSynthesized  State = "synthesized"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// PipelineResponse is the result of one Process call: either the three outputs or
// an error kind with a message.
type PipelineResponse struct {
	RequestID string

	Transcript string
	ReplyText  string
	ReplyAudio AudioPayload

	ErrorKind ErrorKind
	Message   string

	State State
	Trace []State
}

func (r PipelineResponse) OK() bool {
	return r.ErrorKind == ErrorKindNone && r.State == StateCompleted
}
