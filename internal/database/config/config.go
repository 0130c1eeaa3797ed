package db_config

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func GetGormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}
