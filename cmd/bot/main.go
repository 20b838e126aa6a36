package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/signalworks/smc-sniper-bot/internal/config"
	"github.com/signalworks/smc-sniper-bot/internal/marketdata"
	"github.com/signalworks/smc-sniper-bot/internal/monitoring"
	"github.com/signalworks/smc-sniper-bot/internal/notifications"
	"github.com/signalworks/smc-sniper-bot/internal/orchestrator"
	"github.com/signalworks/smc-sniper-bot/pkg/reporting"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := setupLogger(cfg)

	logger.Info().
		Str("environment", cfg.Environment).
		Int("instruments", len(cfg.Instruments)).
		Dur("interval", cfg.Engine.Interval).
		Msg("starting SMC sniper bot")

	healthChecker := monitoring.NewHealthChecker()
	var notifier notifications.Notifier = notifications.NewTelegramNotifier(
		cfg.Notifications.TelegramToken,
		cfg.Notifications.TelegramChatID,
		cfg.Instruments,
	)
	dataClient := marketdata.NewBybitClient(cfg.Exchange)

	journal, err := buildJournal(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up signal journal")
	}

	orch := orchestrator.New(cfg, dataClient, notifier, journal, healthChecker, logger.With().Str("component", "orchestrator").Logger())

	go setupMonitoringServers(cfg, healthChecker, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthChecker.SetConnected(true)
	if cfg.Notifications.TelegramToken != "" {
		if err := notifier.SendAlert("info", startupMessage(cfg)); err != nil {
			logger.Warn().Err(err).Msg("failed to send startup notification")
		}
	} else {
		logger.Info().Msg("telegram notifications disabled (no token configured)")
	}

	go orch.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down")
	cancel()
	healthChecker.SetConnected(false)

	if cfg.Notifications.TelegramToken != "" {
		if err := notifier.SendAlert("info", "SMC Sniper Bot stopped"); err != nil {
			logger.Warn().Err(err).Msg("failed to send shutdown notification")
		}
	}

	logger.Info().Msg("bot stopped")
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Environment == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func buildJournal(cfg *config.Config) (reporting.Journal, error) {
	var journals reporting.MultiJournal
	if cfg.Reporting.Console {
		journals = append(journals, reporting.NewConsoleJournal())
	}
	if cfg.Reporting.ExcelPath != "" {
		excel, err := reporting.NewExcelJournal(cfg.Reporting.ExcelPath)
		if err != nil {
			return nil, err
		}
		journals = append(journals, excel)
	}
	if len(journals) == 0 {
		return nil, nil
	}
	return journals, nil
}

func startupMessage(cfg *config.Config) string {
	msg := "🚀 SMC Sniper Bot started!\n\n📊 <b>Strategy:</b>\n" +
		"• Break of Structure (BOS)\n" +
		"• Market Structure Shift (MSS)\n" +
		"• Fair Value Gap (FVG)\n" +
		"• Order Block analysis\n\n🎯 <b>Monitored instruments:</b>\n"
	for _, inst := range cfg.Instruments {
		msg += fmt.Sprintf("• %s %s\n", inst.Name, inst.Emoji)
	}
	msg += fmt.Sprintf("\n⚙️ Minimum confidence: %.0f%%\n🔄 Interval: %s\n\n<i>Only high-quality sniper setups are posted.</i>",
		cfg.Engine.ConfidenceThreshold, cfg.Engine.Interval)
	return msg
}

func setupMonitoringServers(cfg *config.Config, healthChecker *monitoring.HealthChecker, logger zerolog.Logger) {
	healthMux := http.NewServeMux()
	healthMux.Handle("/health", healthChecker)

	go func() {
		logger.Info().Int("port", cfg.Monitoring.HealthPort).Msg("starting health server")
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Monitoring.HealthPort), healthMux); err != nil {
			logger.Error().Err(err).Msg("health server error")
		}
	}()

	go func() {
		logger.Info().Int("port", cfg.Monitoring.PrometheusPort).Msg("starting metrics server")
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort), monitoring.NewMetricsHandler()); err != nil {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}
