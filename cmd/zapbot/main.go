package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zapbot/internal/config"
	"zapbot/internal/constants"
	"zapbot/internal/flow"
	"zapbot/internal/followup"
	"zapbot/internal/leads"
	"zapbot/internal/mailer"
	"zapbot/internal/models"
	"zapbot/internal/service"
	"zapbot/internal/session"
	"zapbot/internal/tracing"
	"zapbot/pkg/zapi"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("zapbot %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	// Local deployments keep credentials in a .env file; absence is fine.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
	}).Info("Starting zapbot")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	tracingManager := tracing.NewManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	sink, err := newLeadSink(cfg.Leads)
	if err != nil {
		return fmt.Errorf("failed to initialize lead sink: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warnf("Failed to close lead sink: %v", err)
		}
	}()
	logger.WithField("backend", cfg.Leads.Backend).Info("Lead sink initialized")

	if sqliteSink, ok := sink.(*leads.SQLiteSink); ok {
		if counts, err := sqliteSink.CountByMode(ctx); err != nil {
			logger.Warnf("Failed to count existing leads: %v", err)
		} else if len(counts) > 0 {
			logger.WithField("leads_by_mode", counts).Info("Existing leads loaded")
		}
	}

	gateway := zapi.NewClient(zapi.ClientConfig{
		BaseURL:        cfg.ZAPI.BaseURL,
		InstanceID:     cfg.ZAPI.InstanceID,
		Token:          cfg.ZAPI.Token,
		ClientToken:    cfg.ZAPI.ClientToken,
		Timeout:        time.Duration(cfg.ZAPI.TimeoutSec) * time.Second,
		RetryCount:     cfg.ZAPI.RetryCount,
		InitialBackoff: time.Duration(cfg.Retry.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.Retry.MaxBackoffMs) * time.Millisecond,
	})

	store := session.NewMemoryStore()
	engine := flow.NewEngine()
	mail := mailer.New(cfg.SMTP, logger)
	if mail.Enabled() {
		logger.Info("SMTP catalog notifications enabled")
	}

	msgService := service.NewMessageService(gateway, store, engine, sink, mail, cfg.Catalog, logger)

	sweeper := followup.NewSweeper(store, msgService, cfg.FollowUp, map[models.Reminder]string{
		models.ReminderShortIdle: flow.MsgReminderShortIdle,
		models.ReminderMidDelay:  flow.MsgReminderMidDelay,
		models.ReminderLongDelay: flow.MsgReminderLongDelay,
	}, logger)

	if cfg.FollowUp.Enabled {
		go sweeper.Start(ctx)
	} else {
		logger.Info("Follow-up sweeper disabled; use the sweep endpoint for cron-style triggering")
	}

	server := NewServer(cfg.Server, msgService, sweeper, logger)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(constants.DefaultGracefulShutdownSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	logger.Info("Server shutdown completed")
	return nil
}

func newLeadSink(cfg models.LeadsConfig) (leads.Sink, error) {
	switch cfg.Backend {
	case "sqlite":
		return leads.NewSQLiteSink(cfg.DBPath)
	default:
		return leads.NewCSVSink(cfg.CSVPath), nil
	}
}
