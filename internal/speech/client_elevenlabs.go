package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io"

type ElevenLabsClient struct {
	apiKey   string
	voiceID  string
	modelID  string
	language string
	baseURL  string
	httpCli  *http.Client
}

// NewElevenLabsClient: voiceID играет роль референсного голоса.
func NewElevenLabsClient(apiKey, voiceID, modelID, language string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:   apiKey,
		voiceID:  voiceID,
		modelID:  modelID,
		language: language,
		baseURL:  elevenLabsBaseURL,
		httpCli:  &http.Client{Timeout: engineTimeout},
	}
}

type elevenLabsRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// TEXT → SPEECH (mp3)
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, outPath string) error {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", c.baseURL, c.voiceID)

	body := elevenLabsRequest{Text: text, ModelID: c.modelID}
	// язык принудительно задают только turbo/flash модели, остальные отвечают 400
	if strings.Contains(c.modelID, "turbo") || strings.Contains(c.modelID, "flash") {
		body.LanguageCode = c.language
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elevenlabs error %d: %s", resp.StatusCode, string(b))
	}

	return writeAudio(outPath, resp.Body)
}
