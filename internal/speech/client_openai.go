package speech

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient covers both directions through the OpenAI audio API. The base
// URL may point at any OpenAI-compatible server (e.g. a local whisper).
type OpenAIClient struct {
	client   *openai.Client
	sttModel string
	language string
	voice    openai.SpeechVoice
}

func NewOpenAIClient(baseURL, apiKey, sttModel, language, voice string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		sttModel: sttModel,
		language: language,
		voice:    openai.SpeechVoice(voice),
	}
}

// голос → текст (Whisper)
func (c *OpenAIClient) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.sttModel,
		FilePath: filePath,
		Language: c.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper request: %w", err)
	}
	return resp.Text, nil
}

// текст → голос (mp3)
func (c *OpenAIClient) Synthesize(ctx context.Context, text, outPath string) error {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("openai speech request: %w", err)
	}
	defer resp.Close()

	return writeAudio(outPath, resp)
}
