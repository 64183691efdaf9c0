package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
	"github.com/nsensens-source/my-ipo-bot/internal/repository"
)

func TestMoonshotRadarAlertsOnSurge(t *testing.T) {
	watchlist := repository.NewInMemoryWatchlistRepository()
	gateway := newStubGateway()
	notifier := &captureNotifier{}
	radar := NewMoonshotRadar(watchlist, gateway, notifier)

	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:   "MOON",
		Category: domain.CategoryMoonshot,
		State:    domain.StateWatching,
	})

	history := candlesFromCloses(10, 10.1, 9.9, 10, 10.1, 9.9, 10, 10.1, 9.9, 10,
		10.1, 9.9, 10, 10.1, 9.9, 10, 10.1, 9.9, 10, 12)
	history[len(history)-1].Volume = 10000 // spike against the flat 1000 baseline
	gateway.histories["MOON"] = history

	radar.Scan(context.Background())

	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "MOONSHOT ALERT: MOON")
	assert.Contains(t, msgs[0], "PRICE EXPLOSION")
	assert.Contains(t, msgs[0], "VOLUME SPIKE")
	assert.Contains(t, msgs[0], "BOLLINGER BREAKOUT")

	// Alert-only: state untouched.
	row, _ := watchlist.Get("MOON")
	assert.Equal(t, domain.StateWatching, row.State)
}

func TestMoonshotRadarQuietTicker(t *testing.T) {
	watchlist := repository.NewInMemoryWatchlistRepository()
	gateway := newStubGateway()
	notifier := &captureNotifier{}
	radar := NewMoonshotRadar(watchlist, gateway, notifier)

	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:   "MOON",
		Category: domain.CategoryMoonshot,
		State:    domain.StateWatching,
	})
	seed(t, watchlist, domain.WatchlistEntry{
		Ticker:   "AAPL",
		Category: domain.CategorySP500,
		State:    domain.StateWatching,
	})

	gateway.histories["MOON"] = candlesFromCloses(10, 10, 10, 10, 10, 10)
	// Surging, but not a moonshot row: must be ignored.
	gateway.histories["AAPL"] = candlesFromCloses(10, 10, 10, 10, 10, 20)

	radar.Scan(context.Background())

	assert.Empty(t, notifier.messages())
}

func TestMoonshotAlertMessageLayout(t *testing.T) {
	radar := NewMoonshotRadar(nil, nil, nil)

	history := candlesFromCloses(10, 10, 10, 10, 11)
	alerts := radar.evaluate(history)

	require.Len(t, alerts, 1)
	assert.True(t, strings.HasPrefix(alerts[0], "🔥"))
}
