package config

import (
	"time"
)

type TickerConfig struct {
	Interval          time.Duration `yaml:"interval"`
	BoundaryThreshold time.Duration `yaml:"boundary-threshold"`
}

func (t *TickerConfig) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		Interval          string `yaml:"interval"`
		BoundaryThreshold string `yaml:"boundary-threshold"`
	}

	if err := unmarshal(&raw); err != nil {
		return err
	}

	var err error
	if t.Interval, err = parseDuration(raw.Interval); err != nil {
		return err
	}

	if t.BoundaryThreshold, err = parseDuration(raw.BoundaryThreshold); err != nil {
		return err
	}

	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}
