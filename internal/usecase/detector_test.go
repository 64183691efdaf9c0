package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
	"github.com/nsensens-source/my-ipo-bot/internal/repository"
)

func newDetectorFixture(t *testing.T) (*Detector, *repository.InMemoryWatchlistRepository, *stubGateway, *captureNotifier) {
	t.Helper()
	watchlist := repository.NewInMemoryWatchlistRepository()
	gateway := newStubGateway()
	notifier := &captureNotifier{}
	health := NewMarketHealth(gateway, -1.5, false)
	detector := NewDetector(watchlist, gateway, health, notifier, testConfig())
	return detector, watchlist, gateway, notifier
}

func seed(t *testing.T, watchlist *repository.InMemoryWatchlistRepository, entry domain.WatchlistEntry) {
	t.Helper()
	require.NoError(t, watchlist.Upsert(context.Background(), &entry))
}

func TestScanSetsBaseWithoutTransition(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:   "FRSH",
		Category: domain.CategorySP500,
		State:    domain.StateWatching,
	})
	gateway.histories["FRSH"] = candlesFromCloses(90, 120, 95, 110)

	summary := detector.Scan(context.Background())

	row, ok := watchlist.Get("FRSH")
	require.True(t, ok)
	assert.Equal(t, domain.StateWatching, row.State, "no transition in the base-setting cycle")
	assert.Equal(t, 120.0, row.BaseReference, "52-week high for non-IPO category")
	assert.Equal(t, 110.0, row.PeakSinceEntry)
	assert.Equal(t, 110.0, row.LastPrice)
	assert.False(t, row.LastObservedAt.IsZero())
	assert.Equal(t, 0, summary.Signals)
}

func TestScanSetsFirstSessionBaseForIPO(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:   "RDDT",
		Category: domain.CategoryIPOUS,
		State:    domain.StateWatching,
	})
	history := candlesFromCloses(50, 80, 70)
	history[0].High = 55
	gateway.histories["RDDT"] = history

	detector.Scan(context.Background())

	row, _ := watchlist.Get("RDDT")
	assert.Equal(t, 55.0, row.BaseReference, "IPO base is the first-session high")
}

func TestBreakoutProposesBuy(t *testing.T) {
	detector, watchlist, gateway, notifier := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "X",
		Category:      domain.CategorySP500,
		State:         domain.StateWatching,
		BaseReference: 100.0,
	})
	gateway.histories["X"] = candlesFromCloses(95, 98, 101.5)

	summary := detector.Scan(context.Background())

	row, _ := watchlist.Get("X")
	assert.Equal(t, domain.StateSignalBuy, row.State)
	assert.Equal(t, 1, summary.Signals)

	msgs := notifier.messages()
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1], "BUY SIGNAL")
}

func TestBreakoutSuppressedWhenRegionUnsafe(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "X",
		Category:      domain.CategorySP500,
		State:         domain.StateWatching,
		BaseReference: 100.0,
	})
	gateway.histories["X"] = candlesFromCloses(95, 98, 101.5)
	gateway.histories["^GSPC"] = candlesFromCloses(100, 97.9) // -2.1%, threshold -1.5%

	summary := detector.Scan(context.Background())

	row, _ := watchlist.Get("X")
	assert.Equal(t, domain.StateWatching, row.State, "unsafe region vetoes new buys")
	assert.Equal(t, 0, summary.Signals)
}

func TestUnsafeRegionDoesNotBlockSell(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:         "Y",
		Category:       domain.CategorySP500,
		State:          domain.StateHolding,
		BaseReference:  40.0,
		EntryPrice:     50.0,
		PeakSinceEntry: 50.0,
	})
	gateway.histories["Y"] = candlesFromCloses(50, 52, 55.10) // past +10% TP
	gateway.histories["^GSPC"] = candlesFromCloses(100, 97.9)

	detector.Scan(context.Background())

	row, _ := watchlist.Get("Y")
	assert.Equal(t, domain.StateSignalSell, row.State, "sell evaluation ignores the circuit breaker")
}

func TestReboundProposesBuyOnOversoldRSI(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "Z",
		Category:      domain.CategoryFavourite,
		State:         domain.StateWatching,
		BaseReference: 500.0, // far above price: breakout would never fire
	})
	// Steady decline drives Wilder RSI deep below 30.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	gateway.histories["Z"] = candlesFromCloses(closes...)

	detector.Scan(context.Background())

	row, _ := watchlist.Get("Z")
	assert.Equal(t, domain.StateSignalBuy, row.State, "rebound entry ignores the base reference")
}

func TestReboundSuppressedOnThinHistory(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "Z",
		Category:      domain.CategoryFavourite,
		State:         domain.StateWatching,
		BaseReference: 500.0,
	})
	gateway.histories["Z"] = candlesFromCloses(100, 90, 80) // < period+1 points

	detector.Scan(context.Background())

	row, _ := watchlist.Get("Z")
	assert.Equal(t, domain.StateWatching, row.State, "neutral RSI on thin history suppresses entries")
}

func TestHoldingStopLossProposesSell(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:         "CPALL.BK",
		Category:       domain.CategoryIPOTH,
		State:          domain.StateHolding,
		BaseReference:  60.0,
		EntryPrice:     60.0,
		PeakSinceEntry: 61.0,
	})
	// TH stop loss is 3.5%: 60 * 0.965 = 57.9.
	gateway.histories["CPALL.BK"] = candlesFromCloses(60, 59, 57.5)

	detector.Scan(context.Background())

	row, _ := watchlist.Get("CPALL.BK")
	assert.Equal(t, domain.StateSignalSell, row.State)
}

func TestHoldingPeakIsMonotonic(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:         "Y",
		Category:       domain.CategorySP500,
		State:          domain.StateHolding,
		BaseReference:  45.0,
		EntryPrice:     50.0,
		PeakSinceEntry: 52.0,
	})

	// Below the old peak: peak must not move.
	gateway.histories["Y"] = candlesFromCloses(50, 52, 51)
	detector.Scan(context.Background())
	row, _ := watchlist.Get("Y")
	assert.Equal(t, 52.0, row.PeakSinceEntry)
	assert.Equal(t, domain.StateHolding, row.State)

	// A new high advances it.
	gateway.histories["Y"] = candlesFromCloses(50, 52, 53)
	detector.Scan(context.Background())
	row, _ = watchlist.Get("Y")
	assert.Equal(t, 53.0, row.PeakSinceEntry)
}

func TestWatchingClearsStaleFillData(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "X",
		Category:      domain.CategorySP500,
		State:         domain.StateWatching,
		BaseReference: 200.0,
		EntryPrice:    120.0, // leftovers from a prior closed cycle
		ExitPrice:     130.0,
	})
	gateway.histories["X"] = candlesFromCloses(100, 101)

	detector.Scan(context.Background())

	row, _ := watchlist.Get("X")
	assert.Zero(t, row.EntryPrice)
	assert.Zero(t, row.ExitPrice)
	assert.Equal(t, domain.StateWatching, row.State)
}

func TestScanSkipsSoldAndCountsFailures(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:   "DEAD",
		Category: domain.CategorySP500,
		State:    domain.StateSold,
	})
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "GONE",
		Category:      domain.CategorySP500,
		State:         domain.StateWatching,
		BaseReference: 10.0,
	})
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "OK",
		Category:      domain.CategorySP500,
		State:         domain.StateWatching,
		BaseReference: 100.0,
	})
	// GONE has no gateway data at all.
	gateway.histories["OK"] = candlesFromCloses(90, 95)

	summary := detector.Scan(context.Background())

	assert.Equal(t, 2, summary.Scanned, "sold rows are not scanned")
	assert.Equal(t, 1, summary.FetchErrors)
	assert.Equal(t, 1, summary.Updated)

	// The failed ticker committed nothing.
	row, _ := watchlist.Get("GONE")
	assert.True(t, row.LastObservedAt.IsZero())
}

func TestFavouriteGoldenCrossAlertOnly(t *testing.T) {
	detector, watchlist, gateway, notifier := newDetectorFixture(t)
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "FAV",
		Category:      domain.CategoryFavourite,
		State:         domain.StateWatching,
		BaseReference: 500.0,
	})

	// Choppy sideways action keeps RSI near 50, then a dip and surge
	// make the fast SMA cross the slow one on the last bar.
	closes := make([]float64, 220)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 101
		} else {
			closes[i] = 99
		}
	}
	closes[218] = 96
	closes[219] = 160
	gateway.histories["FAV"] = candlesFromCloses(closes...)

	detector.Scan(context.Background())

	row, _ := watchlist.Get("FAV")
	assert.Equal(t, domain.StateWatching, row.State, "advisory alerts never change state")

	var crossAlert bool
	for _, msg := range notifier.messages() {
		if strings.Contains(msg, "GOLDEN CROSS") {
			crossAlert = true
		}
	}
	assert.True(t, crossAlert)
}

func TestScanRefreshTimestampAdvances(t *testing.T) {
	detector, watchlist, gateway, _ := newDetectorFixture(t)
	fixed := time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)
	detector.now = func() time.Time { return fixed }

	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:        "X",
		Category:      domain.CategorySP500,
		State:         domain.StateWatching,
		BaseReference: 999.0,
	})
	gateway.histories["X"] = candlesFromCloses(100, 101)

	detector.Scan(context.Background())

	row, _ := watchlist.Get("X")
	assert.Equal(t, fixed, row.LastObservedAt)
	assert.Equal(t, 101.0, row.LastPrice)
}
