package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/voice_roundtrip/internal/models"
	"github.com/Vovarama1992/voice_roundtrip/internal/speech"
)

var errTooLarge = errors.New("file too large")

func (b *VoiceBot) handleVoice(ctx context.Context, chatID int64, fileID, name string, size int64) {
	log.Printf("[voice] start chatID=%d fileID=%s", chatID, fileID)

	if b.maxUploadBytes > 0 && size > b.maxUploadBytes {
		b.send(tgbotapi.NewMessage(chatID, tooLargeText))
		return
	}

	data, err := b.download(ctx, fileID)
	if err != nil {
		log.Printf("[voice] download fail chatID=%d err=%v", chatID, err)
		if errors.Is(err, errTooLarge) {
			b.send(tgbotapi.NewMessage(chatID, tooLargeText))
		} else {
			b.send(tgbotapi.NewMessage(chatID, downloadText))
		}
		return
	}

	// показываем 'думает…', потом удаляем
	thinking, err := b.bot.Send(tgbotapi.NewMessage(chatID, thinkingText))
	if err == nil {
		defer func() {
			if _, err := b.bot.Request(tgbotapi.NewDeleteMessage(chatID, thinking.MessageID)); err != nil {
				log.Printf("[voice] delete thinking fail: %v", err)
			}
		}()
	}

	resp := b.pipeline.Process(ctx, models.AudioPayload{
		Data:   data,
		Format: speech.DetectFormat(data),
		Name:   name,
	})

	if !resp.OK() {
		text := failureText
		if resp.ErrorKind == models.ErrorKindInvalidInput {
			text = noSpeechText
		}
		b.send(tgbotapi.NewMessage(chatID, text))
		log.Printf("[voice] failed chatID=%d kind=%s", chatID, resp.ErrorKind)
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🗣 %s\n\n💬 %s", resp.Transcript, resp.ReplyText)))

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{
		Name:  "reply" + resp.ReplyAudio.Format.Ext(),
		Bytes: resp.ReplyAudio.Data,
	})
	b.send(audio)

	b.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "voice message answered",
		Service: "telegram",
		Fields:  map[string]any{"chat_id": chatID, "request_id": resp.RequestID},
	})
}

func (b *VoiceBot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", filepath.Base(url), resp.StatusCode)
	}

	r := io.Reader(resp.Body)
	if b.maxUploadBytes > 0 {
		r = io.LimitReader(resp.Body, b.maxUploadBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if b.maxUploadBytes > 0 && int64(len(data)) > b.maxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}
