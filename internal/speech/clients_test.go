package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevenLabsClient_Synthesize(t *testing.T) {
	var got elevenLabsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/voice-1", r.URL.Path)
		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))
		assert.Equal(t, "xi-key", r.Header.Get("xi-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ID3fake-mp3"))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("xi-key", "voice-1", "eleven_multilingual_v2", "en")
	c.baseURL = srv.URL

	out := filepath.Join(t.TempDir(), "nested", "reply.mp3")
	require.NoError(t, c.Synthesize(context.Background(), "hello there", out))

	assert.Equal(t, "hello there", got.Text)
	assert.Equal(t, "eleven_multilingual_v2", got.ModelID)
	assert.Empty(t, got.LanguageCode)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3fake-mp3", string(data))
}

func TestElevenLabsClient_LanguageForTurbo(t *testing.T) {
	var got elevenLabsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("k", "v", "eleven_turbo_v2_5", "en")
	c.baseURL = srv.URL
	require.NoError(t, c.Synthesize(context.Background(), "hi", filepath.Join(t.TempDir(), "o.mp3")))
	assert.Equal(t, "en", got.LanguageCode)
}

func TestElevenLabsClient_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("bad", "v", "m", "en")
	c.baseURL = srv.URL

	out := filepath.Join(t.TempDir(), "reply.mp3")
	err := c.Synthesize(context.Background(), "hi", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.NoFileExists(t, out)
}

func TestXTTSClient_Synthesize(t *testing.T) {
	wav := makeWAV(1600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tts", r.URL.Path)
		assert.Equal(t, "I am fine, thank you.", r.URL.Query().Get("text"))
		assert.Equal(t, "reference.wav", r.URL.Query().Get("speaker_wav"))
		assert.Equal(t, "en", r.URL.Query().Get("language_id"))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	}))
	defer srv.Close()

	c := NewXTTSClient(srv.URL+"/", "reference.wav", "en")
	out := filepath.Join(t.TempDir(), "reply.wav")
	require.NoError(t, c.Synthesize(context.Background(), "I am fine, thank you.", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, wav, data)
}

func TestXTTSClient_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewXTTSClient(srv.URL, "reference.wav", "en")
	err := c.Synthesize(context.Background(), "hi", filepath.Join(t.TempDir(), "o.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDeepgramClient_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/listen", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "Token dg-key", r.Header.Get("Authorization"))
		assert.Equal(t, "audio/wav", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "RIFFdata", string(body))
		_, _ = w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"hello how are you today"}]}]}}`))
	}))
	defer srv.Close()

	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(in, []byte("RIFFdata"), 0o600))

	c := NewDeepgramClient("dg-key", "en")
	c.baseURL = srv.URL

	text, err := c.Transcribe(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "hello how are you today", text)
}

func TestDeepgramClient_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"channels":[]}}`))
	}))
	defer srv.Close()

	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o600))

	c := NewDeepgramClient("k", "en")
	c.baseURL = srv.URL

	text, err := c.Transcribe(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDeepgramClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"err_msg":"corrupt audio"}`))
	}))
	defer srv.Close()

	c := NewDeepgramClient("k", "en")
	c.baseURL = srv.URL

	_, err := c.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0o600))
	_, err = c.Transcribe(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt audio")
}

func TestOpenAIClient_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" hello how are you today "}`))
	}))
	defer srv.Close()

	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(in, makeWAV(100), 0o600))

	c := NewOpenAIClient(srv.URL+"/v1", "sk-test", "whisper-1", "en", "alloy")
	text, err := c.Transcribe(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, " hello how are you today ", text)
}

func TestOpenAIClient_Synthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["input"])
		assert.Equal(t, "alloy", req["voice"])
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3speech"))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.URL+"/v1", "sk-test", "whisper-1", "en", "alloy")
	out := filepath.Join(t.TempDir(), "reply.mp3")
	require.NoError(t, c.Synthesize(context.Background(), "hello", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3speech", string(data))
}

func TestHTTPClients_HaveTimeout(t *testing.T) {
	assert.Equal(t, engineTimeout, NewElevenLabsClient("k", "v", "m", "en").httpCli.Timeout)
	assert.Equal(t, engineTimeout, NewXTTSClient("http://x", "ref.wav", "en").httpCli.Timeout)
	assert.Equal(t, engineTimeout, NewDeepgramClient("k", "en").client.Timeout)
}
