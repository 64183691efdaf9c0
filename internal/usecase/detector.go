package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nsensens-source/my-ipo-bot/internal/config"
	"github.com/nsensens-source/my-ipo-bot/internal/domain"
	"github.com/nsensens-source/my-ipo-bot/internal/infrastructure/indicators"
	"github.com/nsensens-source/my-ipo-bot/internal/notification"
)

const (
	rsiOversold     = 30.0
	favBreakoutDays = 20
	smaFastPeriod   = 50
	smaSlowPeriod   = 200
)

// ScanSummary aggregates one detector pass. Individual ticker errors
// are counted here, never surfaced externally.
type ScanSummary struct {
	Scanned     int
	Updated     int
	Signals     int
	FetchErrors int
	StoreErrors int
}

func (s ScanSummary) Errors() int { return s.FetchErrors + s.StoreErrors }

func (s ScanSummary) String() string {
	return fmt.Sprintf("scanned=%d updated=%d signals=%d errors=%d",
		s.Scanned, s.Updated, s.Signals, s.Errors())
}

// Detector runs the per-ticker state machine for states it owns:
// watching, signal_buy, signal_sell. It only ever proposes transitions;
// holding and sold belong to the executor, so a price used to decide a
// signal is never the price used to fill it.
type Detector struct {
	watchlist domain.WatchlistRepository
	gateway   domain.MarketDataGateway
	health    *MarketHealth
	notifier  notification.Notifier

	rsiPeriod int
	limitsUS  config.RegionLimits
	limitsTH  config.RegionLimits

	now func() time.Time
}

func NewDetector(
	watchlist domain.WatchlistRepository,
	gateway domain.MarketDataGateway,
	health *MarketHealth,
	notifier notification.Notifier,
	cfg *config.Config,
) *Detector {
	return &Detector{
		watchlist: watchlist,
		gateway:   gateway,
		health:    health,
		notifier:  notifier,
		rsiPeriod: cfg.RSIPeriod,
		limitsUS:  cfg.LimitsUS,
		limitsTH:  cfg.LimitsTH,
		now:       time.Now,
	}
}

// Scan runs one full pass over every non-sold row. Per-ticker failures
// are counted and the scan moves on; nothing here is fatal.
func (d *Detector) Scan(ctx context.Context) ScanSummary {
	var summary ScanSummary

	rows, err := d.watchlist.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("watchlist read failed, nothing to scan")
		summary.StoreErrors++
		return summary
	}

	health := d.health.Snapshot(ctx)

	for _, row := range rows {
		if row.State == domain.StateSold {
			continue
		}
		summary.Scanned++

		signaled, err := d.scanOne(ctx, row, health)
		if err != nil {
			var fetchErr *domain.FetchError
			var storeErr *domain.StoreError
			switch {
			case errors.As(err, &fetchErr):
				summary.FetchErrors++
				log.Debug().Str("ticker", row.Ticker).Err(err).Msg("fetch failed, skipping")
			case errors.As(err, &storeErr):
				summary.StoreErrors++
				log.Warn().Str("ticker", row.Ticker).Err(err).Msg("store write failed, decision dropped")
			default:
				summary.FetchErrors++
				log.Warn().Str("ticker", row.Ticker).Err(err).Msg("scan failed")
			}
			continue
		}

		summary.Updated++
		if signaled {
			summary.Signals++
		}
	}

	log.Info().Str("summary", summary.String()).Msg("detector scan complete")
	return summary
}

func (d *Detector) scanOne(ctx context.Context, row *domain.WatchlistEntry, health map[domain.Region]bool) (bool, error) {
	history, err := d.gateway.History(ctx, row.Ticker, domain.LookbackYear)
	if err != nil {
		return false, &domain.FetchError{Ticker: row.Ticker, Err: err}
	}
	if len(history) == 0 {
		return false, &domain.FetchError{Ticker: row.Ticker}
	}

	lastPrice := history[len(history)-1].Close
	now := d.now()

	// Price refresh happens before any decision, for every state.
	refresh := domain.WatchlistPatch{
		LastPrice:      domain.FloatPtr(lastPrice),
		LastObservedAt: domain.TimePtr(now),
	}
	if err := d.watchlist.Update(ctx, row.Ticker, refresh); err != nil {
		return false, &domain.StoreError{Ticker: row.Ticker, Op: "refresh", Err: err}
	}

	// Base reference is derived once per watch cycle; the row sits out
	// the rest of this cycle so signals always compare against a base
	// that survived at least one scan.
	if row.BaseReference == 0 {
		base := d.deriveBase(row.Category, history)
		patch := domain.WatchlistPatch{
			BaseReference:  domain.FloatPtr(base),
			PeakSinceEntry: domain.FloatPtr(lastPrice),
		}
		if err := d.watchlist.Update(ctx, row.Ticker, patch); err != nil {
			return false, &domain.StoreError{Ticker: row.Ticker, Op: "set_base", Err: err}
		}
		d.notify(ctx, fmt.Sprintf("🎯 Set Base: %s (%s) @ %.2f", row.Ticker, row.Category, base))
		return false, nil
	}

	switch row.State {
	case domain.StateWatching:
		return d.scanWatching(ctx, row, history, lastPrice, health)
	case domain.StateHolding:
		return d.scanHolding(ctx, row, lastPrice)
	default:
		// signal_buy / signal_sell rows wait for the executor.
		return false, nil
	}
}

func (d *Detector) scanWatching(ctx context.Context, row *domain.WatchlistEntry, history []domain.Candle, lastPrice float64, health map[domain.Region]bool) (bool, error) {
	// Stale fill data from a prior closed cycle is cleared before any
	// new entry decision.
	if row.EntryPrice != 0 || row.ExitPrice != 0 {
		patch := domain.WatchlistPatch{
			EntryPrice: domain.FloatPtr(0),
			ExitPrice:  domain.FloatPtr(0),
		}
		if err := d.watchlist.Update(ctx, row.Ticker, patch); err != nil {
			return false, &domain.StoreError{Ticker: row.Ticker, Op: "reset", Err: err}
		}
	}

	regionSafe := health[row.Region()]
	closes := closeSeries(history)

	var triggered bool
	var note string

	switch row.Category.Family() {
	case domain.FamilyBreakout:
		if lastPrice > row.BaseReference && regionSafe {
			triggered = true
			note = fmt.Sprintf("breakout above base %.2f", row.BaseReference)
		}
	case domain.FamilyRebound:
		rsi := indicators.LatestRSI(closes, d.rsiPeriod)
		if rsi < rsiOversold && regionSafe {
			triggered = true
			note = fmt.Sprintf("rsi oversold %.2f", rsi)
		}
		d.favouriteAlerts(ctx, row, closes, history, lastPrice)
	}

	if !triggered {
		return false, nil
	}

	patch := domain.WatchlistPatch{
		State: domain.StatePtr(domain.StateSignalBuy),
		Note:  domain.StringPtr(note),
	}
	if err := d.watchlist.Update(ctx, row.Ticker, patch); err != nil {
		return false, &domain.StoreError{Ticker: row.Ticker, Op: "signal_buy", Err: err}
	}

	log.Info().Str("ticker", row.Ticker).Str("note", note).Msg("buy signal proposed")
	d.notify(ctx, fmt.Sprintf("🚀 BUY SIGNAL: %s\nPrice: %.2f (%s)", row.Ticker, lastPrice, note))
	return true, nil
}

func (d *Detector) scanHolding(ctx context.Context, row *domain.WatchlistEntry, lastPrice float64) (bool, error) {
	limits := d.limitsFor(row.Region())
	takeProfit := row.EntryPrice * (1 + limits.TakeProfitPct/100)
	stopLoss := row.EntryPrice * (1 - limits.StopLossPct/100)

	if lastPrice >= takeProfit || lastPrice <= stopLoss {
		reason := "take profit"
		if lastPrice <= stopLoss {
			reason = "stop loss"
		}
		patch := domain.WatchlistPatch{
			State: domain.StatePtr(domain.StateSignalSell),
			Note:  domain.StringPtr(reason),
		}
		if err := d.watchlist.Update(ctx, row.Ticker, patch); err != nil {
			return false, &domain.StoreError{Ticker: row.Ticker, Op: "signal_sell", Err: err}
		}

		log.Info().Str("ticker", row.Ticker).Str("reason", reason).
			Float64("price", lastPrice).Float64("entry", row.EntryPrice).Msg("sell signal proposed")
		d.notify(ctx, fmt.Sprintf("⚠️ SELL SIGNAL: %s\nPrice: %.2f (%s)", row.Ticker, lastPrice, reason))
		return true, nil
	}

	// Peak tracking is bookkeeping only; exits stay on fixed TP/SL.
	if lastPrice > row.PeakSinceEntry {
		patch := domain.WatchlistPatch{PeakSinceEntry: domain.FloatPtr(lastPrice)}
		if err := d.watchlist.Update(ctx, row.Ticker, patch); err != nil {
			return false, &domain.StoreError{Ticker: row.Ticker, Op: "peak", Err: err}
		}
	}
	return false, nil
}

// favouriteAlerts sends advisory notices for favourite rows. These are
// alert-only: golden cross and 20-day breakouts never change state.
func (d *Detector) favouriteAlerts(ctx context.Context, row *domain.WatchlistEntry, closes []float64, history []domain.Candle, lastPrice float64) {
	if indicators.GoldenCross(closes, smaFastPeriod, smaSlowPeriod) {
		d.notify(ctx, fmt.Sprintf("🌟 GOLDEN CROSS: %s\nPrice: %.2f", row.Ticker, lastPrice))
	}

	if len(history) > favBreakoutDays+1 {
		// High of the prior 20 sessions, excluding today.
		high := 0.0
		for _, c := range history[len(history)-favBreakoutDays-1 : len(history)-1] {
			if c.High > high {
				high = c.High
			}
		}
		if high > 0 && lastPrice > high {
			d.notify(ctx, fmt.Sprintf("🚀 20-DAY BREAKOUT: %s\nPrice: %.2f (prior high %.2f)", row.Ticker, lastPrice, high))
		}
	}
}

func (d *Detector) deriveBase(category domain.Category, history []domain.Candle) float64 {
	if category.IsIPO() {
		// Fresh listings break out of their first-session high.
		return history[0].High
	}
	high := 0.0
	for _, c := range history {
		if c.High > high {
			high = c.High
		}
	}
	return high
}

func (d *Detector) limitsFor(region domain.Region) config.RegionLimits {
	if region == domain.RegionTH {
		return d.limitsTH
	}
	return d.limitsUS
}

func (d *Detector) notify(ctx context.Context, msg string) {
	if d.notifier == nil {
		return
	}
	_ = d.notifier.Send(ctx, msg)
}

func closeSeries(history []domain.Candle) []float64 {
	closes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
	}
	return closes
}
