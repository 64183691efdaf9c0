package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
	"github.com/nsensens-source/my-ipo-bot/internal/infrastructure/indicators"
	"github.com/nsensens-source/my-ipo-bot/internal/notification"
)

const (
	priceJumpThresholdPct = 5.0 // day-over-day gain worth shouting about
	volumeSpikeThreshold  = 2.5 // multiple of average volume
	bollingerPeriod       = 20
	bollingerMultiplier   = 2.0
)

// MoonshotRadar watches MOONSHOT rows for unusual activity: price
// surges, volume spikes, and upper-band breakouts. It is alert-only and
// never mutates watchlist state; state transitions for moonshot rows
// still go through the detector's breakout logic.
type MoonshotRadar struct {
	watchlist domain.WatchlistRepository
	gateway   domain.MarketDataGateway
	notifier  notification.Notifier
}

func NewMoonshotRadar(watchlist domain.WatchlistRepository, gateway domain.MarketDataGateway, notifier notification.Notifier) *MoonshotRadar {
	return &MoonshotRadar{watchlist: watchlist, gateway: gateway, notifier: notifier}
}

// Scan checks each moonshot ticker against one month of daily bars.
func (r *MoonshotRadar) Scan(ctx context.Context) {
	rows, err := r.watchlist.GetByCategory(ctx, domain.CategoryMoonshot)
	if err != nil {
		log.Error().Err(err).Msg("moonshot list read failed")
		return
	}
	if len(rows) == 0 {
		return
	}

	log.Info().Int("count", len(rows)).Msg("scanning moonshots for activity")

	for _, row := range rows {
		history, err := r.gateway.History(ctx, row.Ticker, domain.LookbackMonth)
		if err != nil || len(history) < 5 {
			log.Debug().Str("ticker", row.Ticker).Err(err).Msg("moonshot fetch skipped")
			continue
		}

		alerts := r.evaluate(history)
		if len(alerts) == 0 {
			continue
		}

		lastClose := history[len(history)-1].Close
		msg := fmt.Sprintf("🚀 MOONSHOT ALERT: %s\nPrice: %.2f\n%s",
			row.Ticker, lastClose, strings.Join(alerts, "\n"))
		if r.notifier != nil {
			_ = r.notifier.Send(ctx, msg)
		}
		log.Info().Str("ticker", row.Ticker).Int("alerts", len(alerts)).Msg("moonshot alert sent")
	}
}

func (r *MoonshotRadar) evaluate(history []domain.Candle) []string {
	var alerts []string

	last := history[len(history)-1]
	prev := history[len(history)-2]

	if prev.Close > 0 {
		pctChange := (last.Close/prev.Close - 1) * 100
		if pctChange >= priceJumpThresholdPct {
			alerts = append(alerts, fmt.Sprintf("🔥 PRICE EXPLOSION: %+.2f%% today", pctChange))
		}
	}

	volumes := make([]float64, len(history))
	closes := make([]float64, len(history))
	for i, c := range history {
		volumes[i] = c.Volume
		closes[i] = c.Close
	}

	if rvol := indicators.RelativeVolume(volumes); rvol >= volumeSpikeThreshold {
		alerts = append(alerts, fmt.Sprintf("🌊 VOLUME SPIKE: %.1fx average volume", rvol))
	}

	if indicators.AboveUpperBand(closes, bollingerPeriod, bollingerMultiplier) {
		alerts = append(alerts, "⚡ BOLLINGER BREAKOUT: price above upper band")
	}

	return alerts
}
