package notifications

import (
	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/config"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
)

// Subscribe wires the enabled notifiers to the bus. A notifier that fails to start
// is logged and skipped, notifications never block the election service.
func Subscribe(bus *events.Bus, notificationsConfig config.NotificationsConfig) {
	bus.AddHandler(func(event events.Event) error {
		logger.Infof("|Notifications| %s", event.String())
		return nil
	})

	if notificationsConfig.MailConfig.Enabled {
		bus.AddHandler(NewMailNotifier(notificationsConfig.MailConfig).HandleEvent)
		logger.Info("|Notifications| Mail notifications enabled")
	}

	if notificationsConfig.TelegramConfig.Enabled {
		telegramNotifier, err := NewTelegramNotifier(notificationsConfig.TelegramConfig)
		if err != nil {
			logger.Errorf("|Notifications| Failed to start telegram notifier: %v", err)
			return
		}
		bus.AddHandler(telegramNotifier.HandleEvent)
		logger.Info("|Notifications| Telegram notifications enabled")
	}
}
