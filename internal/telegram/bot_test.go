package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
)

type fakeBot struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	deleted int
	fileURL string
	urlErr  error
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeBot) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetFileDirectURL(string) (string, error) { return f.fileURL, f.urlErr }

func (f *fakeBot) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

type fakePipeline struct {
	resp models.PipelineResponse
	got  models.AudioPayload
}

func (f *fakePipeline) Process(_ context.Context, audio models.AudioPayload) models.PipelineResponse {
	f.got = audio
	return f.resp
}

func fileServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestBot(bot *fakeBot, p *fakePipeline, max int64) *VoiceBot {
	return NewVoiceBot(bot, p, max, logger.NewZapLogger(zap.NewNop().Sugar()))
}

func voiceUpdate() tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 7},
		Voice: &tgbotapi.Voice{FileID: "f1", FileSize: 3},
	}}
}

func TestVoiceBot_Success(t *testing.T) {
	srv := fileServer(t, []byte("ogg"))
	bot := &fakeBot{fileURL: srv.URL + "/file.oga"}
	p := &fakePipeline{resp: models.PipelineResponse{
		RequestID:  "r1",
		Transcript: "hello how are you today",
		ReplyText:  "I am fine, thank you.",
		ReplyAudio: models.AudioPayload{Data: []byte("mp3"), Format: models.AudioFormatMP3},
		State:      models.StateCompleted,
	}}

	newTestBot(bot, p, 1<<20).routeUpdate(context.Background(), voiceUpdate())

	assert.Equal(t, []byte("ogg"), p.got.Data)
	assert.Equal(t, "voice.ogg", p.got.Name)

	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, thinkingText, texts[0])
	assert.Contains(t, texts[1], "hello how are you today")
	assert.Contains(t, texts[1], "I am fine, thank you.")

	require.Len(t, bot.sent, 3)
	audio, ok := bot.sent[2].(tgbotapi.AudioConfig)
	require.True(t, ok)
	file, ok := audio.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "reply.mp3", file.Name)
	assert.Equal(t, []byte("mp3"), file.Bytes)
	assert.Equal(t, 1, bot.deleted)
}

func TestVoiceBot_NoSpeech(t *testing.T) {
	srv := fileServer(t, []byte("ogg"))
	bot := &fakeBot{fileURL: srv.URL}
	p := &fakePipeline{resp: models.PipelineResponse{ErrorKind: models.ErrorKindInvalidInput, Message: "No speech detected"}}

	newTestBot(bot, p, 1<<20).routeUpdate(context.Background(), voiceUpdate())

	assert.Equal(t, []string{thinkingText, noSpeechText}, bot.texts())
}

func TestVoiceBot_SystemFailure(t *testing.T) {
	srv := fileServer(t, []byte("ogg"))
	bot := &fakeBot{fileURL: srv.URL}
	p := &fakePipeline{resp: models.PipelineResponse{ErrorKind: models.ErrorKindDownstreamFailure, Message: "boom"}}

	newTestBot(bot, p, 1<<20).routeUpdate(context.Background(), voiceUpdate())

	assert.Equal(t, []string{thinkingText, failureText}, bot.texts())
}

func TestVoiceBot_DownloadErrors(t *testing.T) {
	t.Run("url", func(t *testing.T) {
		bot := &fakeBot{urlErr: errors.New("file is too big")}
		p := &fakePipeline{}
		newTestBot(bot, p, 1<<20).routeUpdate(context.Background(), voiceUpdate())

		assert.Equal(t, []string{downloadText}, bot.texts())
		assert.Nil(t, p.got.Data)
	})

	t.Run("too large declared", func(t *testing.T) {
		bot := &fakeBot{}
		upd := voiceUpdate()
		upd.Message.Voice.FileSize = 10
		newTestBot(bot, &fakePipeline{}, 5).routeUpdate(context.Background(), upd)

		assert.Equal(t, []string{tooLargeText}, bot.texts())
	})

	t.Run("too large body", func(t *testing.T) {
		srv := fileServer(t, make([]byte, 64))
		bot := &fakeBot{fileURL: srv.URL}
		newTestBot(bot, &fakePipeline{}, 8).routeUpdate(context.Background(), voiceUpdate())

		assert.Equal(t, []string{tooLargeText}, bot.texts())
	})
}

func TestVoiceBot_TextGetsHint(t *testing.T) {
	bot := &fakeBot{}
	upd := tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}, Text: "hi"}}

	newTestBot(bot, &fakePipeline{}, 0).routeUpdate(context.Background(), upd)

	assert.Equal(t, []string{hintText}, bot.texts())
}

func TestVoiceBot_RunStopsOnCancel(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		newTestBot(bot, &fakePipeline{}, 0).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	bot.mu.Lock()
	assert.True(t, bot.stopped)
	bot.mu.Unlock()
}
