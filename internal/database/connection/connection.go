package db_connection

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	db_config "github.com/nivschuman/ElectionLifecycle/internal/database/config"
	models "github.com/nivschuman/ElectionLifecycle/internal/database/models"
)

const InMemory = ":memory:"

var modelsToMigrate = []any{
	&models.ElectionDB{},
	&models.PositionDB{},
	&models.CandidateDB{},
	&models.BoundaryMarkerDB{},
}

var GlobalDB *gorm.DB = nil

func InitializeGlobalDB(dbFile string) error {
	if GlobalDB != nil {
		return nil
	}

	var err error
	GlobalDB, err = OpenDatabase(dbFile)

	return err
}

// OpenDatabase opens (creating if needed) the sqlite database and migrates the election tables.
func OpenDatabase(dbFile string) (*gorm.DB, error) {
	dsn := dbFile
	if dbFile != InMemory {
		dir := filepath.Dir(dbFile)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create databases directory: %w", err)
			}
			logger.Infof("|Database| Created directory '%s'", dir)
		}
		dsn = dbFile + "?_foreign_keys=on&_busy_timeout=5000"
	} else {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), db_config.GetGormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer, and every in memory connection is its own database
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(modelsToMigrate...)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func ResetDatabase(db *gorm.DB) error {
	err := db.Migrator().DropTable(modelsToMigrate...)

	if err != nil {
		return err
	}

	return db.AutoMigrate(modelsToMigrate...)
}

func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(modelsToMigrate...)
}

func CloseDatabaseConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
