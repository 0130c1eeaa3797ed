package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

type NotificationsConfig struct {
	MailConfig     MailConfig     `yaml:"mail"`
	TelegramConfig TelegramConfig `yaml:"telegram"`
}

type MailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	NoTLS    bool     `yaml:"no-tls"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatId  int64  `yaml:"chat-id"`
}

func (m *MailConfig) UnmarshalYAML(unmarshal func(any) error) error {
	type plain MailConfig
	var raw plain

	if err := unmarshal(&raw); err != nil {
		return err
	}

	if raw.Password == "" {
		raw.Password = os.Getenv("MAIL_PASSWORD")
	}

	if raw.Enabled && (raw.Host == "" || raw.From == "" || len(raw.To) == 0) {
		return &yaml.TypeError{Errors: []string{"mail notifications need host, from and to"}}
	}

	for i := range raw.To {
		raw.To[i] = strings.TrimSpace(raw.To[i])
	}

	*m = MailConfig(raw)
	return nil
}

func (t *TelegramConfig) UnmarshalYAML(unmarshal func(any) error) error {
	type plain TelegramConfig
	var raw plain

	if err := unmarshal(&raw); err != nil {
		return err
	}

	if raw.Token == "" {
		raw.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}

	if raw.Enabled && (raw.Token == "" || raw.ChatId == 0) {
		return &yaml.TypeError{Errors: []string{"telegram notifications need token and chat-id"}}
	}

	*t = TelegramConfig(raw)
	return nil
}
