package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nsensens-source/my-ipo-bot/internal/config"
	"github.com/nsensens-source/my-ipo-bot/internal/infrastructure/db"
	"github.com/nsensens-source/my-ipo-bot/internal/infrastructure/fcm"
	"github.com/nsensens-source/my-ipo-bot/internal/infrastructure/yahoo"
	"github.com/nsensens-source/my-ipo-bot/internal/notification"
	"github.com/nsensens-source/my-ipo-bot/internal/repository"
	"github.com/nsensens-source/my-ipo-bot/internal/usecase"
)

// One invocation = one complete scan. The external scheduler (cron,
// GitHub Actions) owns the cadence; there is no long-lived process.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid, aborting before scan")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	watchlist := repository.NewPostgresWatchlistRepository(pool, cfg.WatchlistTable())
	ledger := repository.NewPostgresTradeLedger(pool, config.TableTradeHistory)

	gateway := yahoo.NewClient(cfg.MarketDataBaseURL, cfg.HTTPTimeout)
	notifier := buildNotifier(ctx, cfg)

	health := usecase.NewMarketHealth(gateway, cfg.BreakerThresholdPct, cfg.BreakerBypass)
	detector := usecase.NewDetector(watchlist, gateway, health, notifier, cfg)
	radar := usecase.NewMoonshotRadar(watchlist, gateway, notifier)
	executor := usecase.NewExecutor(watchlist, ledger, gateway, notifier, cfg.QuoteDelay)

	log.Info().Str("table", cfg.WatchlistTable()).Bool("test_mode", cfg.TestMode).Msg("scan starting")

	scanSummary := detector.Scan(ctx)
	radar.Scan(ctx)
	execSummary := executor.Run(ctx)

	report := fmt.Sprintf("✅ Scan Complete\n• %s\n• %s", scanSummary, execSummary)
	log.Info().Str("scan", scanSummary.String()).Str("exec", execSummary.String()).Msg("scan complete")
	if cfg.TestMode {
		_ = notifier.Send(ctx, report)
	}
}

func buildNotifier(ctx context.Context, cfg *config.Config) notification.Notifier {
	var backends []notification.Notifier

	if cfg.DiscordWebhookURL != "" {
		backends = append(backends, notification.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.TestMode))
	}

	fcmClient, err := fcm.NewClient(ctx, cfg.FCMCredentialsPath, cfg.FCMCredentialsJSON)
	if err != nil {
		log.Warn().Err(err).Msg("fcm init failed, push disabled")
	} else if fcmClient.IsEnabled() {
		backends = append(backends, notification.NewPushNotifier(fcmClient, cfg.FCMDeviceTokens))
	}

	if len(backends) == 0 {
		return notification.Noop{}
	}
	return notification.NewFanout(backends...)
}
