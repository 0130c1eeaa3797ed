package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	DatabaseConfig      DatabaseConfig      `yaml:"database"`
	ServerConfig        ServerConfig        `yaml:"server"`
	TickerConfig        TickerConfig        `yaml:"ticker"`
	UiConfig            UiConfig            `yaml:"ui"`
	LogConfig           LogConfig           `yaml:"log"`
	NotificationsConfig NotificationsConfig `yaml:"notifications"`
}

type DatabaseConfig struct {
	File  string `yaml:"file"`
	Reset bool   `yaml:"reset"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
	Debug   bool   `yaml:"debug"`
}

type LogConfig struct {
	Verbose bool   `yaml:"verbose"`
	File    string `yaml:"file"`
}

var GlobalConfig *Config = nil

func InitializeGlobalConfig(path string) error {
	if GlobalConfig != nil {
		return nil
	}

	var err error
	GlobalConfig, err = LoadConfigFile(path)

	return err
}

func LoadConfigFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	d := yaml.NewDecoder(file)

	if err := d.Decode(config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return config, nil
}

func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (config *Config) applyDefaults() {
	if config.DatabaseConfig.File == "" {
		config.DatabaseConfig.File = "databases/elections.db"
	}

	if config.ServerConfig.Address == "" {
		config.ServerConfig.Address = ":8080"
	}

	if config.TickerConfig.Interval <= 0 {
		config.TickerConfig.Interval = time.Second
	}

	if config.TickerConfig.BoundaryThreshold <= 0 {
		config.TickerConfig.BoundaryThreshold = time.Second
	}

	if config.UiConfig.RefreshInterval <= 0 {
		config.UiConfig.RefreshInterval = time.Second
	}

	if config.NotificationsConfig.MailConfig.Port == 0 {
		config.NotificationsConfig.MailConfig.Port = 587
	}
}
