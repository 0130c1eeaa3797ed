package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"github.com/nivschuman/ElectionLifecycle/internal/config"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the gin engine with every election route registered.
func NewRouter(handler *HTTPHandler, serverConfig config.ServerConfig) *gin.Engine {
	if serverConfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	handler.RegisterRoutes(router)
	return router
}

// Run serves until ctx is done, then shuts the server down gracefully.
func Run(ctx context.Context, router http.Handler, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChannel := make(chan error, 1)
	go func() {
		logger.Infof("|Server| Listening on %s", address)
		errChannel <- server.ListenAndServe()
	}()

	select {
	case err := <-errChannel:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("|Server| Shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}
