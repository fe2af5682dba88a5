package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/hemingto/boombox-11.0-sub001/internal/application"
	"github.com/hemingto/boombox-11.0-sub001/internal/config"
	"github.com/hemingto/boombox-11.0-sub001/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("packing-server", "Storage packing estimator - plans how household items fill storage containers")
	overrides := registerFlags(kingpinApp)

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(overrides.resolve())
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app, cfg.ShutdownGracePeriod, logger)
}

// serverFlags holds the raw flag values; unset flags keep sentinel defaults
// so that lower-precedence sources are not clobbered.
type serverFlags struct {
	configFile     *string
	envFile        *string
	port           *string
	container      *string
	fillFactor     *float64
	catalogFile    *string
	databaseURL    *string
	rateLimitRPS   *float64
	rateLimitBurst *int
	logLevel       *string
}

func registerFlags(app *kingpin.Application) *serverFlags {
	return &serverFlags{
		configFile:     app.Flag("config", "Path to YAML configuration file").String(),
		envFile:        app.Flag("env-file", "Path to a .env file loaded before reading the environment").Default(".env").String(),
		port:           app.Flag("port", "HTTP port exposed by the service").String(),
		container:      app.Flag("container", "Container interior as WIDTHxDEPTHxHEIGHT inches").String(),
		fillFactor:     app.Flag("fill-factor", "Usable fraction of container volume").Default("-1").Float64(),
		catalogFile:    app.Flag("catalog", "Path to a YAML item catalog").String(),
		databaseURL:    app.Flag("database-url", "PostgreSQL URL to load the item catalog from").String(),
		rateLimitRPS:   app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64(),
		rateLimitBurst: app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int(),
		logLevel:       app.Flag("log-level", "Log level (debug, info, warn, error)").String(),
	}
}

func (f *serverFlags) resolve() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *f.configFile,
		EnvFile:    *f.envFile,
	}

	if *f.port != "" {
		overrides.Port = f.port
	}
	if *f.container != "" {
		overrides.ContainerStr = f.container
	}
	if *f.fillFactor >= 0 {
		overrides.FillFactor = f.fillFactor
	}
	if *f.catalogFile != "" {
		overrides.CatalogFile = f.catalogFile
	}
	if *f.databaseURL != "" {
		overrides.DatabaseURL = f.databaseURL
	}
	if *f.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = f.rateLimitRPS
	}
	if *f.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = f.rateLimitBurst
	}
	if *f.logLevel != "" {
		overrides.LogLevel = f.logLevel
	}

	return overrides
}

// shutdown blocks until SIGINT or SIGTERM, then drains in-flight estimates
// for up to timeout before closing the listener outright.
func shutdown(app *application.App, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	server := app.Server()
	logger.Info("shutting down server", zap.Stringer("signal", sig), zap.Duration("grace_period", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
