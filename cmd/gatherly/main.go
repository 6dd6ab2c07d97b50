// Package main boots the gatherly API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/ctxutil"
	"github.com/gatherly/gatherly/data"
	"github.com/gatherly/gatherly/handler"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/net/resp"
	"github.com/gatherly/gatherly/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// App represents the main application.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	handler *handler.Handler
	server  *http.Server
}

// NewApp creates a new application instance with manual dependency injection.
func NewApp() (*App, func(), error) {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerCleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.StdLogger()

	dataLayer, err := data.New(cfg.Data, log)
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create data layer: %w", err)
	}

	// Pick up log level changes without a restart.
	config.Watch(func(next *config.Config) {
		if next.Logger != nil && next.Logger.Level > 0 {
			log.SetLevel(logrus.Level(next.Logger.Level))
			log.Info(context.Background(), "log level reloaded", "level", next.Logger.Level)
		}
	})

	svc := service.NewService(dataLayer, log)
	h := handler.NewHandler(svc, log)

	app := &App{
		config:  cfg,
		logger:  log,
		data:    dataLayer,
		handler: h,
	}

	cleanup := func() {
		if err := dataLayer.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
		loggerCleanup()
	}

	return app, cleanup, nil
}

// Run starts the application server and blocks until shutdown.
func (a *App) Run() error {
	if a.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(traceMiddleware())
	router.Use(a.loggerMiddleware())

	a.handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		if err := a.data.Ping(c.Request.Context()); err != nil {
			resp.Fail(c.Writer, resp.DataUnavailable("store unreachable"))
			return
		}
		resp.Success(c.Writer, map[string]string{"status": "healthy"})
	})

	addr := a.config.Addr()
	a.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info(context.Background(), "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error(ctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

// traceMiddleware stamps every request with a trace ID so log lines across
// the layers correlate.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, traceID := ctxutil.EnsureTraceID(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Trace-Id", traceID)
		c.Next()
	}
}

// loggerMiddleware creates a Gin middleware for request logging.
func (a *App) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		a.logger.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

func main() {
	app, cleanup, err := NewApp()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Printf("Failed to run app: %v\n", err)
		os.Exit(1)
	}
}
