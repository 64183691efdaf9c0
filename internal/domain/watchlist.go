package domain

import (
	"strings"
	"time"
)

// State is the lifecycle position of a watchlist row.
// The detector owns watching/signal_buy/signal_sell, the executor owns
// holding/sold. A sold row is terminal for the engine; only the
// discovery side may re-seed it as watching.
type State string

const (
	StateWatching   State = "watching"
	StateSignalBuy  State = "signal_buy"
	StateHolding    State = "holding"
	StateSignalSell State = "signal_sell"
	StateSold       State = "sold"
)

// Category is a closed enumeration of list memberships. Strategy family
// is resolved by table lookup, never by substring matching.
type Category string

const (
	CategoryIPOUS     Category = "IPO_US"
	CategoryIPOTH     Category = "IPO_TH"
	CategorySP500     Category = "SP500"
	CategoryMoonshot  Category = "MOONSHOT"
	CategoryFavourite Category = "FAVOURITE"
)

// StrategyFamily selects which entry logic applies to a category.
type StrategyFamily int

const (
	FamilyBreakout StrategyFamily = iota // buy on price > base reference
	FamilyRebound                        // buy on RSI oversold
)

var categoryFamilies = map[Category]StrategyFamily{
	CategoryIPOUS:     FamilyBreakout,
	CategoryIPOTH:     FamilyBreakout,
	CategorySP500:     FamilyBreakout,
	CategoryMoonshot:  FamilyBreakout,
	CategoryFavourite: FamilyRebound,
}

// Family returns the strategy family for the category. Unknown
// categories default to breakout, the dominant family.
func (c Category) Family() StrategyFamily {
	if f, ok := categoryFamilies[c]; ok {
		return f
	}
	return FamilyBreakout
}

// IsIPO reports whether the category is a fresh listing, which changes
// how the base reference is derived (first-session high vs 52w high).
func (c Category) IsIPO() bool {
	return c == CategoryIPOUS || c == CategoryIPOTH
}

// Region is the market jurisdiction of a ticker.
type Region string

const (
	RegionUS Region = "US"
	RegionTH Region = "TH"
)

// bkSuffix marks tickers listed on the Thai exchange.
const bkSuffix = ".BK"

// RegionOf infers the region from the ticker naming convention.
func RegionOf(ticker string) Region {
	if strings.HasSuffix(ticker, bkSuffix) {
		return RegionTH
	}
	return RegionUS
}

// WatchlistEntry is one row of the watchlist table, keyed by ticker.
type WatchlistEntry struct {
	Ticker         string    `json:"ticker"`
	Category       Category  `json:"category"`
	State          State     `json:"state"`
	BaseReference  float64   `json:"baseReference"`  // breakout trigger level, 0 = not yet derived
	PeakSinceEntry float64   `json:"peakSinceEntry"` // highest close seen since entry
	EntryPrice     float64   `json:"entryPrice"`
	ExitPrice      float64   `json:"exitPrice"`
	LastPrice      float64   `json:"lastPrice"`
	LastObservedAt time.Time `json:"lastObservedAt"`
}

// Region is the region of the entry's ticker.
func (e *WatchlistEntry) Region() Region {
	return RegionOf(e.Ticker)
}

// WatchlistPatch is a partial update to a watchlist row. Nil fields are
// left untouched by the store. One patch maps to one upsert, so fields
// set together are written atomically.
type WatchlistPatch struct {
	State          *State
	BaseReference  *float64
	PeakSinceEntry *float64
	EntryPrice     *float64
	ExitPrice      *float64
	LastPrice      *float64
	LastObservedAt *time.Time
	Note           *string
}

func StatePtr(s State) *State        { return &s }
func FloatPtr(v float64) *float64    { return &v }
func TimePtr(t time.Time) *time.Time { return &t }
func StringPtr(s string) *string     { return &s }
