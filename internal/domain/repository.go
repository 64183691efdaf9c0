package domain

import "context"

// WatchlistRepository is the keyed per-ticker state table.
type WatchlistRepository interface {
	GetAll(ctx context.Context) ([]*WatchlistEntry, error)
	GetByState(ctx context.Context, state State) ([]*WatchlistEntry, error)
	GetByCategory(ctx context.Context, category Category) ([]*WatchlistEntry, error)
	// Upsert inserts or replaces a full row, keyed by ticker.
	Upsert(ctx context.Context, entry *WatchlistEntry) error
	// Update applies a partial patch to an existing row in one write.
	Update(ctx context.Context, ticker string, patch WatchlistPatch) error
}

// TradeLedger is the append-only history of executed fills.
type TradeLedger interface {
	Insert(ctx context.Context, record *TradeRecord) error
	Update(ctx context.Context, record *TradeRecord) error
	// NewestOpenByTicker returns the most recent OPEN record for the
	// ticker, or nil if there is none.
	NewestOpenByTicker(ctx context.Context, ticker string) (*TradeRecord, error)
	GetHistory(ctx context.Context) ([]*TradeRecord, error)
}
