package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

type fakeLLM struct {
	out    string
	err    error
	prompt string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func TestAiService_GenerateReply(t *testing.T) {
	llm := &fakeLLM{out: "<think>\nsmall talk\n</think>\nAnswer: I am fine, thank you."}
	svc := NewAiService(llm, Options{})

	reply, err := svc.GenerateReply(context.Background(), "hello how are you today")
	require.NoError(t, err)

	assert.Equal(t, "I am fine, thank you.", reply.Text)
	assert.True(t, reply.MarkerFound)
	assert.False(t, reply.Truncated)
	assert.Equal(t, BuildPrompt("hello how are you today"), llm.prompt)
}

func TestAiService_FallbackWithoutMarker(t *testing.T) {
	svc := NewAiService(&fakeLLM{out: "Fine, thanks for asking."}, Options{})

	reply, err := svc.GenerateReply(context.Background(), "how are you")
	require.NoError(t, err)
	assert.Equal(t, "Fine, thanks for asking.", reply.Text)
	assert.False(t, reply.MarkerFound)
}

func TestAiService_DanglingMarkerFallsBack(t *testing.T) {
	svc := NewAiService(&fakeLLM{out: "<think>hmm</think>The capital is Paris.\nAnswer:"}, Options{})

	reply, err := svc.GenerateReply(context.Background(), "what is the capital of france")
	require.NoError(t, err)
	assert.Equal(t, "The capital is Paris.\nAnswer:", reply.Text)
	assert.False(t, reply.MarkerFound)

	strict := NewAiService(&fakeLLM{out: "The capital is Paris.\nAnswer:"}, Options{RequireMarker: true})
	_, err = strict.GenerateReply(context.Background(), "what is the capital of france")
	assert.ErrorIs(t, err, models.ErrMissingAnswerMarker)
}

func TestAiService_RequireMarker(t *testing.T) {
	svc := NewAiService(&fakeLLM{out: "Fine, thanks for asking."}, Options{RequireMarker: true})

	_, err := svc.GenerateReply(context.Background(), "how are you")
	assert.ErrorIs(t, err, models.ErrReply)
	assert.ErrorIs(t, err, models.ErrMissingAnswerMarker)
}

func TestAiService_MaxChars(t *testing.T) {
	svc := NewAiService(&fakeLLM{out: "Answer: I am fine, thank you. How about you?"}, Options{MaxChars: 12})

	reply, err := svc.GenerateReply(context.Background(), "how are you")
	require.NoError(t, err)
	assert.Equal(t, "I am fine", reply.Text)
	assert.True(t, reply.Truncated)
}

func TestAiService_Errors(t *testing.T) {
	cases := []struct {
		name    string
		llm     *fakeLLM
		wantErr error
	}{
		{name: "service error", llm: &fakeLLM{err: errors.New("connection refused")}, wantErr: models.ErrReply},
		{name: "timeout", llm: &fakeLLM{err: context.DeadlineExceeded}, wantErr: context.DeadlineExceeded},
		{name: "empty output", llm: &fakeLLM{out: "   "}, wantErr: models.ErrEmptyReply},
		{name: "only reasoning", llm: &fakeLLM{out: "<think>...</think>"}, wantErr: models.ErrEmptyReply},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAiService(tc.llm, Options{})
			_, err := svc.GenerateReply(context.Background(), "hello there")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, models.ErrReply)
		})
	}
}

func TestAnalyzeLLMError(t *testing.T) {
	assert.Equal(t, "inference timed out", analyzeLLMError(context.DeadlineExceeded))
	assert.Equal(t, "inference service is not running", analyzeLLMError(errors.New("dial tcp: connection refused")))
	assert.Equal(t, "model not found, pull it first", analyzeLLMError(errors.New(`model "x" not found`)))
	assert.Equal(t, "unknown inference error", analyzeLLMError(errors.New("weird")))
}
