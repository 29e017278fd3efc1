package error_notificator

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender: то, что нужно от tgbotapi.BotAPI
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramInfra struct {
	bot    Sender
	chatID int64
}

func NewTelegramInfra(bot Sender, chatID int64) *TelegramInfra {
	return &TelegramInfra{bot: bot, chatID: chatID}
}

func (i *TelegramInfra) Notify(ctx context.Context, requestID string, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Ошибка в voice round trip (%s)\n\nОшибка: %v\n\nДетали: %s",
		requestID,
		err,
		details,
	)

	// tgbotapi не принимает ctx, поэтому ждём Send не дольше ctx
	done := make(chan error, 1)
	go func() {
		_, sendErr := i.bot.Send(tgbotapi.NewMessage(i.chatID, text))
		done <- sendErr
	}()

	select {
	case sendErr := <-done:
		if sendErr != nil {
			log.Printf("[error_notificator] send fail to %d: %v", i.chatID, sendErr)
			return sendErr
		}
		return nil
	case <-ctx.Done():
		log.Printf("[error_notificator] send to %d abandoned: %v", i.chatID, ctx.Err())
		return fmt.Errorf("telegram send: %w", ctx.Err())
	}
}
