package config

import "time"

type UiConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RefreshInterval time.Duration `yaml:"refresh-interval"`
}

func (u *UiConfig) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		Enabled         bool   `yaml:"enabled"`
		RefreshInterval string `yaml:"refresh-interval"`
	}

	if err := unmarshal(&raw); err != nil {
		return err
	}

	refreshInterval, err := parseDuration(raw.RefreshInterval)
	if err != nil {
		return err
	}

	u.Enabled = raw.Enabled
	u.RefreshInterval = refreshInterval
	return nil
}
