package notifications

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/config"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
)

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts election events to a chat.
type TelegramNotifier struct {
	sender TelegramSender
	chatId int64
}

func NewTelegramNotifier(telegramConfig config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, err
	}

	logger.Infof("|Notifications| Authorized on telegram account %s", bot.Self.UserName)
	return NewTelegramNotifierWithSender(bot, telegramConfig.ChatId), nil
}

func NewTelegramNotifierWithSender(sender TelegramSender, chatId int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatId: chatId}
}

func (notifier *TelegramNotifier) HandleEvent(event events.Event) error {
	msg := tgbotapi.NewMessage(notifier.chatId, Body(event))
	msg.DisableWebPagePreview = true

	if _, err := notifier.sender.Send(msg); err != nil {
		return err
	}

	logger.Infof("|Notifications| Sent %s for election %s to telegram", event.Kind, event.ElectionId)
	return nil
}
