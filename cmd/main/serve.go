package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nivschuman/ElectionLifecycle/internal/clock"
	config "github.com/nivschuman/ElectionLifecycle/internal/config"
	db "github.com/nivschuman/ElectionLifecycle/internal/database/connection"
	repositories "github.com/nivschuman/ElectionLifecycle/internal/database/repositories"
	"github.com/nivschuman/ElectionLifecycle/internal/events"
	"github.com/nivschuman/ElectionLifecycle/internal/lifecycle"
	"github.com/nivschuman/ElectionLifecycle/internal/notifications"
	"github.com/nivschuman/ElectionLifecycle/internal/registry"
	"github.com/nivschuman/ElectionLifecycle/internal/server"
	"github.com/nivschuman/ElectionLifecycle/internal/store"
	structures "github.com/nivschuman/ElectionLifecycle/internal/structures"
	app "github.com/nivschuman/ElectionLifecycle/internal/ui/app"
	"github.com/nivschuman/ElectionLifecycle/internal/winners"
)

func newServeCmd() *cobra.Command {
	var address string
	var noUi bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the boundary ticker and the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GlobalConfig
			if address != "" {
				cfg.ServerConfig.Address = address
			}
			if noUi {
				cfg.UiConfig.Enabled = false
			}
			return serve(cmd.Context(), cfg)
		},
	}

	serveCmd.Flags().StringVar(&address, "address", "", "listen address, overrides server.address")
	serveCmd.Flags().BoolVar(&noUi, "no-ui", false, "do not open the dashboard")
	return serveCmd
}

func serve(parent context.Context, cfg *config.Config) error {
	closeLogger, err := initLogger(cfg.LogConfig)
	if err != nil {
		return err
	}
	defer closeLogger()

	if err := db.InitializeGlobalDB(cfg.DatabaseConfig.File); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DatabaseConfig.Reset {
		logger.Info("|Main| Resetting database")
		if err := db.ResetDatabase(db.GlobalDB); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	if err := repositories.InitializeGlobalRepositories(db.GlobalDB); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	repos := repositories.GlobalRepositories
	clk := clock.NewSystemClock()
	locks := structures.NewLockMap()

	bus := events.NewBus()
	notifications.Subscribe(bus, cfg.NotificationsConfig)

	electionRegistry := registry.NewRegistry(repos, clk, locks)
	positionStore := store.NewStore(repos, clk, locks)
	engine := winners.NewEngine(repos, clk, locks, bus)
	machine := lifecycle.NewStateMachine(repos, clk, locks, bus, cfg.TickerConfig.BoundaryThreshold)
	ticker := lifecycle.NewTicker(machine, cfg.TickerConfig.Interval)

	handler := server.NewHTTPHandler(electionRegistry, positionStore, machine, engine, clk)
	router := server.NewRouter(handler, cfg.ServerConfig)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(groupCtx, router, cfg.ServerConfig.Address)
	})
	g.Go(func() error {
		ticker.Run(groupCtx)
		return nil
	})

	if cfg.UiConfig.Enabled {
		mainApp := app.NewAppBuilderImpl(electionRegistry, machine, engine, ticker, cfg.UiConfig).BuildApp()
		mainApp.Start()
		stop()
	}

	err = g.Wait()

	logger.Info("|Main| Shutting down")
	ticker.StopTicker()
	bus.Wait()

	if closeErr := db.CloseDatabaseConnection(db.GlobalDB); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close database connection: %w", closeErr))
	}

	return err
}
