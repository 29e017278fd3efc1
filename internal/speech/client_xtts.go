package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// XTTSClient talks to a local Coqui XTTS server that clones the reference
// voice sample and returns WAV.
type XTTSClient struct {
	baseURL        string
	referenceVoice string
	language       string
	httpCli        *http.Client
}

func NewXTTSClient(baseURL, referenceVoice, language string) *XTTSClient {
	return &XTTSClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		referenceVoice: referenceVoice,
		language:       language,
		httpCli:        &http.Client{Timeout: engineTimeout},
	}
}

func (c *XTTSClient) Synthesize(ctx context.Context, text, outPath string) error {
	q := url.Values{}
	q.Set("text", text)
	q.Set("speaker_wav", c.referenceVoice)
	q.Set("language_id", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tts?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "audio/wav")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("xtts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("xtts error %d: %s", resp.StatusCode, string(b))
	}

	return writeAudio(outPath, resp.Body)
}
