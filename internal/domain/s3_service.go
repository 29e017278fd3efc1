package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
)

// ArchiveService stores finished exchanges in S3:
// <date>/<request id>/{input<ext>, reply<ext>, exchange.json}
type ArchiveService struct {
	client ports.S3Client
}

func NewArchiveService(client ports.S3Client) *ArchiveService {
	return &ArchiveService{client: client}
}

// ObjectKey: путь в бакете
func (s *ArchiveService) ObjectKey(ex ports.Exchange, name string) string {
	date := ex.CreatedAt.UTC().Format("2006-01-02")
	return fmt.Sprintf("%s/%s/%s", date, ex.RequestID, name)
}

type exchangeMeta struct {
	RequestID   string `json:"request_id"`
	UserText    string `json:"user_text"`
	Response    string `json:"response_text"`
	InputURL    string `json:"input_url"`
	ReplyURL    string `json:"reply_url"`
	ReplyFormat string `json:"reply_format"`
	CreatedAt   string `json:"created_at"`
}

func (s *ArchiveService) SaveExchange(ctx context.Context, ex ports.Exchange) error {
	if ex.RequestID == "" {
		return fmt.Errorf("request id required")
	}

	inputURL, err := s.put(ctx, s.ObjectKey(ex, "input"+ex.Input.FileExt()), ex.Input.Data, ex.Input.Format.ContentType())
	if err != nil {
		return fmt.Errorf("archive input: %w", err)
	}

	replyURL, err := s.put(ctx, s.ObjectKey(ex, "reply"+ex.Reply.Format.Ext()), ex.Reply.Data, ex.Reply.Format.ContentType())
	if err != nil {
		return fmt.Errorf("archive reply: %w", err)
	}

	meta, err := json.Marshal(exchangeMeta{
		RequestID:   ex.RequestID,
		UserText:    ex.Transcript,
		Response:    ex.ReplyText,
		InputURL:    inputURL,
		ReplyURL:    replyURL,
		ReplyFormat: string(ex.Reply.Format),
		CreatedAt:   ex.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return err
	}

	if _, err := s.put(ctx, s.ObjectKey(ex, "exchange.json"), meta, "application/json"); err != nil {
		return fmt.Errorf("archive meta: %w", err)
	}
	return nil
}

func (s *ArchiveService) put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return s.client.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}
