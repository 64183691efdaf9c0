package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily bars and quotes from the Yahoo Finance chart
// endpoint. A transport-level circuit breaker stops hammering the host
// after consecutive failures; tripped calls surface as fetch errors and
// the scan skips on as usual.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	settings := gobreaker.Settings{
		Name:    "yahoo-chart",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("provider breaker state change")
		},
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns daily bars for the lookback window, oldest first.
// Null bars (halts, missing sessions) are dropped.
func (c *Client) History(ctx context.Context, ticker string, lookback domain.Lookback) ([]domain.Candle, error) {
	return c.fetchCandles(ctx, ticker, string(lookback), "1d")
}

// Quote returns the freshest available price: the last 1-minute candle
// of the current session, falling back to the daily close when the
// market is shut and intraday bars are unavailable.
func (c *Client) Quote(ctx context.Context, ticker string) (float64, error) {
	candles, err := c.fetchCandles(ctx, ticker, "1d", "1m")
	if err != nil || len(candles) == 0 {
		candles, err = c.fetchCandles(ctx, ticker, "1d", "1d")
	}
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, fmt.Errorf("no quote data for %s", ticker)
	}
	return candles[len(candles)-1].Close, nil
}

func (c *Client) fetchCandles(ctx context.Context, ticker, rng, interval string) ([]domain.Candle, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(ticker), rng, interval)

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, reqURL)
	})
	if err != nil {
		return nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body.([]byte), &parsed); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", parsed.Chart.Error.Code)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]domain.Candle, 0, len(result.Timestamp))
	for i := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		candle := domain.Candle{
			Close:     *quote.Close[i],
			Timestamp: time.Unix(result.Timestamp[i], 0).UTC(),
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// compile-time check
var _ domain.MarketDataGateway = (*Client)(nil)
