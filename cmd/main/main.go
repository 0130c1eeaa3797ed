package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "github.com/nivschuman/ElectionLifecycle/internal/config"
	db "github.com/nivschuman/ElectionLifecycle/internal/database/connection"
)

const defaultConfigFile = "config/config.yml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "elections",
		Short:         "Election lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
			}
			if configFile == "" {
				configFile = defaultConfigFile
			}

			if err := config.InitializeGlobalConfig(configFile); err != nil {
				return fmt.Errorf("failed to load config file %s: %w", configFile, err)
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to the YAML config file (default $CONFIG_FILE or "+defaultConfigFile+")")
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLogger, err := initLogger(config.GlobalConfig.LogConfig)
			if err != nil {
				return err
			}
			defer closeLogger()

			if err := db.InitializeGlobalDB(config.GlobalConfig.DatabaseConfig.File); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.CloseDatabaseConnection(db.GlobalDB)

			if config.GlobalConfig.DatabaseConfig.Reset {
				logger.Info("|Main| Resetting database")
				if err := db.ResetDatabase(db.GlobalDB); err != nil {
					return fmt.Errorf("failed to reset database: %w", err)
				}
				return nil
			}

			if err := db.MigrateDatabase(db.GlobalDB); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			logger.Infof("|Main| Database %s is up to date", config.GlobalConfig.DatabaseConfig.File)
			return nil
		},
	}
}

// initLogger sets up the process logger and returns its close function.
func initLogger(logConfig config.LogConfig) (func(), error) {
	var logFile io.Writer = io.Discard
	var file *os.File

	if logConfig.File != "" {
		var err error
		file, err = os.OpenFile(logConfig.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = file
	}

	l := logger.Init("elections", logConfig.Verbose, false, logFile)
	return func() {
		l.Close()
		if file != nil {
			file.Close()
		}
	}, nil
}
