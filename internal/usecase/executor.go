package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
	"github.com/nsensens-source/my-ipo-bot/internal/notification"
)

// ExecSummary aggregates one executor pass.
type ExecSummary struct {
	Bought      int
	Sold        int
	Skipped     int
	StoreErrors int
	Anomalies   int
}

func (s ExecSummary) String() string {
	return fmt.Sprintf("bought=%d sold=%d skipped=%d errors=%d anomalies=%d",
		s.Bought, s.Sold, s.Skipped, s.StoreErrors, s.Anomalies)
}

// Executor turns proposed signals into recorded fills. It re-quotes
// every ticker at execution time so the fill price is never the
// historical bar the detector decided on, writes the ledger, and is the
// only component allowed to move rows into holding or sold.
type Executor struct {
	watchlist domain.WatchlistRepository
	ledger    domain.TradeLedger
	gateway   domain.MarketDataGateway
	notifier  notification.Notifier

	quoteDelay time.Duration
	now        func() time.Time
}

func NewExecutor(
	watchlist domain.WatchlistRepository,
	ledger domain.TradeLedger,
	gateway domain.MarketDataGateway,
	notifier notification.Notifier,
	quoteDelay time.Duration,
) *Executor {
	return &Executor{
		watchlist:  watchlist,
		ledger:     ledger,
		gateway:    gateway,
		notifier:   notifier,
		quoteDelay: quoteDelay,
		now:        time.Now,
	}
}

// Run processes every signal_buy then every signal_sell row once.
// A failed quote leaves the row in its signal state for the next cycle.
func (e *Executor) Run(ctx context.Context) ExecSummary {
	var summary ExecSummary

	buys, err := e.watchlist.GetByState(ctx, domain.StateSignalBuy)
	if err != nil {
		log.Error().Err(err).Msg("buy queue read failed")
		summary.StoreErrors++
		return summary
	}
	sells, err := e.watchlist.GetByState(ctx, domain.StateSignalSell)
	if err != nil {
		log.Error().Err(err).Msg("sell queue read failed")
		summary.StoreErrors++
		return summary
	}

	if len(buys) == 0 && len(sells) == 0 {
		log.Info().Msg("no signals queued")
		return summary
	}
	log.Info().Int("buys", len(buys)).Int("sells", len(sells)).Msg("signals queued")

	for _, row := range buys {
		e.executeBuy(ctx, row, &summary)
		e.pause(ctx)
	}
	for _, row := range sells {
		e.executeSell(ctx, row, &summary)
		e.pause(ctx)
	}

	log.Info().Str("summary", summary.String()).Msg("executor pass complete")
	return summary
}

func (e *Executor) executeBuy(ctx context.Context, row *domain.WatchlistEntry, summary *ExecSummary) {
	price, err := e.gateway.Quote(ctx, row.Ticker)
	if err != nil || price <= 0 {
		// Row stays in signal_buy; retried next cycle.
		summary.Skipped++
		log.Warn().Str("ticker", row.Ticker).Err(err).Msg("buy re-quote failed, will retry")
		return
	}

	now := e.now()
	record := &domain.TradeRecord{
		ID:         uuid.NewString(),
		Ticker:     row.Ticker,
		Category:   row.Category,
		EntryPrice: price,
		EntryAt:    now,
		Status:     domain.TradeOpen,
		Note:       "breakout buy signal",
	}
	if err := e.ledger.Insert(ctx, record); err != nil {
		summary.StoreErrors++
		log.Error().Str("ticker", row.Ticker).Err(err).Msg("ledger insert failed, fill dropped")
		return
	}

	patch := domain.WatchlistPatch{
		State:          domain.StatePtr(domain.StateHolding),
		EntryPrice:     domain.FloatPtr(price),
		PeakSinceEntry: domain.FloatPtr(price),
		LastPrice:      domain.FloatPtr(price),
		LastObservedAt: domain.TimePtr(now),
	}
	if err := e.watchlist.Update(ctx, row.Ticker, patch); err != nil {
		summary.StoreErrors++
		log.Error().Str("ticker", row.Ticker).Err(err).Msg("holding transition failed")
		return
	}

	summary.Bought++
	log.Info().Str("ticker", row.Ticker).Float64("price", price).Msg("buy executed")
	e.notify(ctx, fmt.Sprintf("🛒 EXECUTED BUY: %s\nPrice: %.2f", row.Ticker, price))
}

func (e *Executor) executeSell(ctx context.Context, row *domain.WatchlistEntry, summary *ExecSummary) {
	price, err := e.gateway.Quote(ctx, row.Ticker)
	if err != nil || price <= 0 {
		summary.Skipped++
		log.Warn().Str("ticker", row.Ticker).Err(err).Msg("sell re-quote failed, will retry")
		return
	}

	now := e.now()
	entry := row.EntryPrice
	if entry <= 0 {
		// Row was edited externally; fall back to the quote so pl_pct
		// stays defined instead of dividing by zero.
		entry = price
	}
	plPct := (price/entry - 1) * 100

	open, err := e.ledger.NewestOpenByTicker(ctx, row.Ticker)
	if err != nil {
		summary.StoreErrors++
		log.Error().Str("ticker", row.Ticker).Err(err).Msg("ledger lookup failed, fill dropped")
		return
	}

	if open != nil {
		open.ExitPrice = domain.FloatPtr(price)
		open.ExitAt = domain.TimePtr(now)
		open.PLPct = domain.FloatPtr(plPct)
		open.Status = domain.TradeClosed
		open.Note = "signal sell (tp/sl)"
		if err := e.ledger.Update(ctx, open); err != nil {
			summary.StoreErrors++
			log.Error().Str("ticker", row.Ticker).Err(err).Msg("ledger close failed, fill dropped")
			return
		}
	} else {
		// No open record to close: position predates the ledger or the
		// row was edited by hand. Record a self-contained closed trade.
		anomaly := &domain.ReconcileAnomaly{Ticker: row.Ticker}
		summary.Anomalies++
		log.Warn().Str("ticker", row.Ticker).Msg(anomaly.Error())

		synthetic := &domain.TradeRecord{
			ID:         uuid.NewString(),
			Ticker:     row.Ticker,
			Category:   row.Category,
			EntryPrice: entry,
			EntryAt:    now,
			ExitPrice:  domain.FloatPtr(price),
			ExitAt:     domain.TimePtr(now),
			PLPct:      domain.FloatPtr(plPct),
			Status:     domain.TradeClosed,
			Note:       "force close (no open record)",
		}
		if err := e.ledger.Insert(ctx, synthetic); err != nil {
			summary.StoreErrors++
			log.Error().Str("ticker", row.Ticker).Err(err).Msg("synthetic record insert failed")
			return
		}
	}

	patch := domain.WatchlistPatch{
		State:          domain.StatePtr(domain.StateSold),
		ExitPrice:      domain.FloatPtr(price),
		LastPrice:      domain.FloatPtr(price),
		LastObservedAt: domain.TimePtr(now),
	}
	if err := e.watchlist.Update(ctx, row.Ticker, patch); err != nil {
		summary.StoreErrors++
		log.Error().Str("ticker", row.Ticker).Err(err).Msg("sold transition failed")
		return
	}

	summary.Sold++
	log.Info().Str("ticker", row.Ticker).Float64("price", price).Float64("pl_pct", plPct).Msg("sell executed")
	e.notify(ctx, fmt.Sprintf("💰 EXECUTED SELL: %s\nPrice: %.2f\nP/L: %+.2f%%", row.Ticker, price, plPct))
}

// pause is a rate-limiting courtesy between provider quotes, not a
// correctness requirement.
func (e *Executor) pause(ctx context.Context) {
	if e.quoteDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(e.quoteDelay):
	}
}

func (e *Executor) notify(ctx context.Context, msg string) {
	if e.notifier == nil {
		return
	}
	_ = e.notifier.Send(ctx, msg)
}
