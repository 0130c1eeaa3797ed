package notifications

import (
	"context"
	"time"

	"github.com/google/logger"
	"github.com/wneessen/go-mail"

	"github.com/nivschuman/ElectionLifecycle/internal/config"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
)

type MailSender func(ctx context.Context, messages ...*mail.Msg) error

// MailNotifier emails election events to the configured recipients.
type MailNotifier struct {
	config  config.MailConfig
	send    MailSender
	timeout time.Duration
}

func NewMailNotifier(mailConfig config.MailConfig) *MailNotifier {
	notifier := &MailNotifier{
		config:  mailConfig,
		timeout: 30 * time.Second,
	}
	notifier.send = notifier.dialAndSend
	return notifier
}

func NewMailNotifierWithSender(mailConfig config.MailConfig, sender MailSender) *MailNotifier {
	return &MailNotifier{
		config:  mailConfig,
		send:    sender,
		timeout: 30 * time.Second,
	}
}

func (notifier *MailNotifier) HandleEvent(event events.Event) error {
	msg, err := notifier.BuildMessage(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifier.timeout)
	defer cancel()

	if err := notifier.send(ctx, msg); err != nil {
		return err
	}

	logger.Infof("|Notifications| Mailed %s for election %s", event.Kind, event.ElectionId)
	return nil
}

func (notifier *MailNotifier) BuildMessage(event events.Event) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(notifier.config.From); err != nil {
		return nil, err
	}

	if err := msg.To(notifier.config.To...); err != nil {
		return nil, err
	}

	msg.Subject(Subject(event))
	msg.SetBodyString(mail.TypeTextPlain, Body(event))
	msg.SetCharset(mail.CharsetUTF8)
	msg.SetDate()

	return msg, nil
}

func (notifier *MailNotifier) dialAndSend(ctx context.Context, messages ...*mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(notifier.config.Port),
	}

	if notifier.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(notifier.config.Username),
			mail.WithPassword(notifier.config.Password),
		)
	}

	if notifier.config.NoTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(notifier.config.Host, opts...)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, messages...)
}
