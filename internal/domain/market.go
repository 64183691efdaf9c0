package domain

import (
	"context"
	"time"
)

// Candle is one daily OHLCV bar.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Lookback windows requested from the market data gateway.
type Lookback string

const (
	LookbackDay   Lookback = "1d"
	LookbackMonth Lookback = "1mo"
	LookbackYear  Lookback = "1y"
)

// MarketDataGateway supplies best-effort price history and quotes.
// Implementations may return empty or partial data; callers treat any
// error or empty result as a fetch failure and move on.
type MarketDataGateway interface {
	// History returns daily bars for the lookback window, oldest first.
	History(ctx context.Context, ticker string, lookback Lookback) ([]Candle, error)
	// Quote returns the freshest available price.
	Quote(ctx context.Context, ticker string) (float64, error)
}
