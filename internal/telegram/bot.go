package telegram

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/voice_roundtrip/internal/ports"
)

// BotAPI: часть tgbotapi.BotAPI, которой пользуется бот
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// VoiceBot runs the round trip for voice messages sent to the bot and answers
// with the transcript, the reply text and the reply audio.
type VoiceBot struct {
	bot            BotAPI
	pipeline       ports.PipelineService
	httpCli        *http.Client
	maxUploadBytes int64
	log            *logger.ZapLogger
}

func NewVoiceBot(bot BotAPI, pipeline ports.PipelineService, maxUploadBytes int64, log *logger.ZapLogger) *VoiceBot {
	return &VoiceBot{
		bot:            bot,
		pipeline:       pipeline,
		httpCli:        &http.Client{Timeout: 60 * time.Second},
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Run: главный цикл получения апдейтов, до отмены ctx
func (b *VoiceBot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.bot.GetUpdatesChan(u)

	log.Printf("[bot_loop] started")

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			log.Printf("[bot_loop] stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.routeUpdate(ctx, update)
		}
	}
}

func (b *VoiceBot) routeUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}

	switch {
	case msg.Voice != nil:
		b.handleVoice(ctx, msg.Chat.ID, msg.Voice.FileID, "voice.ogg", int64(msg.Voice.FileSize))
	case msg.Audio != nil:
		b.handleVoice(ctx, msg.Chat.ID, msg.Audio.FileID, msg.Audio.FileName, int64(msg.Audio.FileSize))
	case msg.IsCommand() && msg.Command() == "start":
		b.send(tgbotapi.NewMessage(msg.Chat.ID, startText))
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, hintText))
	}
}

func (b *VoiceBot) send(c tgbotapi.Chattable) {
	if _, err := b.bot.Send(c); err != nil {
		log.Printf("[bot] send fail: %v", err)
	}
}
