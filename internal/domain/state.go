package domain

import (
	"fmt"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

var nextState = map[models.State]models.State{
	models.StateReceived:     models.StateTranscribing,
	models.StateTranscribing: models.StateTranscribed,
	models.StateTranscribed:  models.StateGenerating,
	models.StateGenerating:   models.StateGenerated,
	models.StateGenerated:    models.StateSynthesizing,
	models.StateSynthesizing: models.StateSynthesized,
	models.StateSynthesized:  models.StateCompleted,
}

// roundTrip tracks the state of one request. Not shared between requests.
type roundTrip struct {
	id    string
	state models.State
	trace []models.State
}

func newRoundTrip(id string) *roundTrip {
	return &roundTrip{
		id:    id,
		state: models.StateReceived,
		trace: []models.State{models.StateReceived},
	}
}

// advance moves to the next state of the linear chain. Failed is reachable
// from every non-terminal state.
func (rt *roundTrip) advance(to models.State) error {
	if rt.state.Terminal() {
		return fmt.Errorf("round trip %s already %s", rt.id, rt.state)
	}
	if to != models.StateFailed && nextState[rt.state] != to {
		return fmt.Errorf("illegal transition %s -> %s", rt.state, to)
	}
	rt.state = to
	rt.trace = append(rt.trace, to)
	return nil
}

// step advances and turns an illegal transition into an internal failure.
func (rt *roundTrip) step(to models.State) *PipelineError {
	from := rt.state
	if err := rt.advance(to); err != nil {
		return internalFailure(from, err)
	}
	return nil
}
