package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pucktrack/recorder/internal/config"
	"github.com/pucktrack/recorder/internal/dispatcher"
	"github.com/pucktrack/recorder/internal/export"
	"github.com/pucktrack/recorder/internal/history"
	"github.com/pucktrack/recorder/internal/logging"
	"github.com/pucktrack/recorder/internal/monitor"
	intOtel "github.com/pucktrack/recorder/internal/otel"
	"github.com/pucktrack/recorder/internal/registry"
	"github.com/pucktrack/recorder/internal/session"
	"github.com/pucktrack/recorder/internal/stats"
	"github.com/pucktrack/recorder/internal/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "pucktrack"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()

	logFile *os.File
)

func setupLogging() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file", "error", err, "path", logFilePath)
		return
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
			OTelProvider = nil
		}
	}

	// Re-setup logging with file output and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(logFile, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logFilePath)
}

func buildRegistry() *registry.Registry {
	reg := registry.New()
	custom, err := config.CustomEvents()
	if err != nil {
		Logger.Warn("Failed to read custom events from config", "error", err)
		return reg
	}
	for _, loadErr := range reg.LoadCustom(custom) {
		Logger.Warn("Skipping invalid custom event", "error", loadErr)
	}
	return reg
}

func buildStats() *stats.Manager {
	influxCfg := config.GetInfluxConfig()
	if !influxCfg.Enabled {
		return nil
	}

	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	manager := stats.NewManager(zl, influxCfg.BackupPath)
	if err := manager.Connect(); err != nil {
		Logger.Warn("Stats reporting unavailable", "error", err)
		return nil
	}
	return manager
}

func main() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config, using defaults: %v\n", err)
	}

	setupLogging()
	Logger.Info("Starting up", "version", CurrentVersion, "buildDate", BuildDate)

	backend, err := storage.NewBackend(config.GetStorageConfig(), Logger)
	if err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		os.Exit(1)
	}
	if err := backend.Init(); err != nil {
		Logger.Error("Failed to connect storage backend", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	exportCfg := config.GetExportConfig()
	exporter := export.New(Logger, export.Options{
		Codec:         exportCfg.Codec,
		CRF:           exportCfg.CRF,
		Resolution:    exportCfg.Resolution,
		IncludeAudio:  exportCfg.IncludeAudio,
		MergeSegments: exportCfg.MergeSegments,
		FFmpegPath:    exportCfg.FFmpegPath,
	})

	svc := session.NewService(session.Dependencies{
		Registry: buildRegistry(),
		Settings: &config.Settings{},
		Backend:  backend,
		History:  history.NewManager(history.DefaultLimit),
		Stats:    buildStats(),
		Exporter: exporter,
		Log:      Logger,
	})

	dispatcherLogger := logging.NewDispatcherLogger(
		zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel),
	)
	d, err := dispatcher.New(dispatcherLogger)
	if err != nil {
		Logger.Error("Failed to create dispatcher", "error", err)
		os.Exit(1)
	}
	registerCommands(d, svc)

	mon := monitor.NewService(monitor.Dependencies{
		Log:       Logger,
		StatusDir: viper.GetString("logsDir"),
	})
	if err := mon.Start(); err != nil {
		Logger.Warn("Status monitor unavailable", "error", err)
	}
	defer mon.Stop()

	pushStatus := func() {
		status := monitor.Status{}
		sess := svc.Recorder().Session()
		status.Recording = sess.Active
		status.EventName = sess.EventName
		status.StartFrame = sess.StartFrame
		if p := svc.Project(); p != nil {
			status.ProjectName = p.Name
			status.MarkerCount = len(p.Markers)
			status.Dirty = p.Dirty()
		}
		mon.SetStatus(status)
	}

	if err := runLoop(d, os.Stdin, os.Stdout, pushStatus); err != nil {
		Logger.Error("Command loop failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.Close(ctx); err != nil {
		Logger.Error("Failed to close session", "error", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Error("OTel shutdown failed", "error", err)
		}
	}
	if logFile != nil {
		logFile.Close()
	}
}
