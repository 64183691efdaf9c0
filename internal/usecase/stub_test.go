package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nsensens-source/my-ipo-bot/internal/config"
	"github.com/nsensens-source/my-ipo-bot/internal/domain"
)

// stubGateway serves canned candles and quotes keyed by ticker.
type stubGateway struct {
	histories map[string][]domain.Candle
	quotes    map[string]float64
	errs      map[string]error
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		histories: make(map[string][]domain.Candle),
		quotes:    make(map[string]float64),
		errs:      make(map[string]error),
	}
}

func (g *stubGateway) History(ctx context.Context, ticker string, lookback domain.Lookback) ([]domain.Candle, error) {
	if err, ok := g.errs[ticker]; ok {
		return nil, err
	}
	h, ok := g.histories[ticker]
	if !ok {
		return nil, errors.New("no data")
	}
	return h, nil
}

func (g *stubGateway) Quote(ctx context.Context, ticker string) (float64, error) {
	if err, ok := g.errs[ticker]; ok {
		return 0, err
	}
	q, ok := g.quotes[ticker]
	if !ok {
		return 0, errors.New("no quote")
	}
	return q, nil
}

// candlesFromCloses builds daily bars where high tracks close.
func candlesFromCloses(closes ...float64) []domain.Candle {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
			Timestamp: base.AddDate(0, 0, i),
		}
	}
	return candles
}

func testConfig() *config.Config {
	return &config.Config{
		RSIPeriod:           14,
		BreakerThresholdPct: -1.5,
		LimitsUS:            config.RegionLimits{TakeProfitPct: 10.0, StopLossPct: 5.0},
		LimitsTH:            config.RegionLimits{TakeProfitPct: 7.0, StopLossPct: 3.5},
	}
}

// captureNotifier records every message instead of delivering it.
type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *captureNotifier) Send(ctx context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *captureNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.msgs))
	copy(out, n.msgs)
	return out
}
