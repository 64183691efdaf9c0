package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
)

// InMemoryWatchlistRepository is a map-backed watchlist, used by tests
// and dry runs that should not touch Postgres.
type InMemoryWatchlistRepository struct {
	entries map[string]*domain.WatchlistEntry
	mu      sync.RWMutex
}

func NewInMemoryWatchlistRepository() *InMemoryWatchlistRepository {
	return &InMemoryWatchlistRepository{entries: make(map[string]*domain.WatchlistEntry)}
}

func (r *InMemoryWatchlistRepository) GetAll(ctx context.Context) ([]*domain.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.WatchlistEntry) bool { return true }), nil
}

func (r *InMemoryWatchlistRepository) GetByState(ctx context.Context, state domain.State) ([]*domain.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(e *domain.WatchlistEntry) bool { return e.State == state }), nil
}

func (r *InMemoryWatchlistRepository) GetByCategory(ctx context.Context, category domain.Category) ([]*domain.WatchlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(e *domain.WatchlistEntry) bool { return e.Category == category }), nil
}

func (r *InMemoryWatchlistRepository) Upsert(ctx context.Context, entry *domain.WatchlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	r.entries[entry.Ticker] = &clone
	return nil
}

func (r *InMemoryWatchlistRepository) Update(ctx context.Context, ticker string, patch domain.WatchlistPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[ticker]
	if !ok {
		return nil
	}
	if patch.State != nil {
		e.State = *patch.State
	}
	if patch.BaseReference != nil {
		e.BaseReference = *patch.BaseReference
	}
	if patch.PeakSinceEntry != nil {
		e.PeakSinceEntry = *patch.PeakSinceEntry
	}
	if patch.EntryPrice != nil {
		e.EntryPrice = *patch.EntryPrice
	}
	if patch.ExitPrice != nil {
		e.ExitPrice = *patch.ExitPrice
	}
	if patch.LastPrice != nil {
		e.LastPrice = *patch.LastPrice
	}
	if patch.LastObservedAt != nil {
		e.LastObservedAt = *patch.LastObservedAt
	}
	return nil
}

// Get returns a copy of one row, for test assertions.
func (r *InMemoryWatchlistRepository) Get(ticker string) (domain.WatchlistEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[ticker]
	if !ok {
		return domain.WatchlistEntry{}, false
	}
	return *e, true
}

func (r *InMemoryWatchlistRepository) collect(keep func(*domain.WatchlistEntry) bool) []*domain.WatchlistEntry {
	out := make([]*domain.WatchlistEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// InMemoryTradeLedger is a slice-backed ledger for tests.
type InMemoryTradeLedger struct {
	records []*domain.TradeRecord
	mu      sync.RWMutex
}

func NewInMemoryTradeLedger() *InMemoryTradeLedger {
	return &InMemoryTradeLedger{records: make([]*domain.TradeRecord, 0)}
}

func (l *InMemoryTradeLedger) Insert(ctx context.Context, record *domain.TradeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	clone := *record
	l.records = append(l.records, &clone)
	return nil
}

func (l *InMemoryTradeLedger) Update(ctx context.Context, record *domain.TradeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.records {
		if r.ID == record.ID {
			clone := *record
			l.records[i] = &clone
			return nil
		}
	}
	return nil
}

func (l *InMemoryTradeLedger) NewestOpenByTicker(ctx context.Context, ticker string) (*domain.TradeRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var newest *domain.TradeRecord
	for _, r := range l.records {
		if r.Ticker != ticker || r.Status != domain.TradeOpen {
			continue
		}
		if newest == nil || r.EntryAt.After(newest.EntryAt) {
			newest = r
		}
	}
	if newest == nil {
		return nil, nil
	}
	clone := *newest
	return &clone, nil
}

func (l *InMemoryTradeLedger) GetHistory(ctx context.Context) ([]*domain.TradeRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.TradeRecord, 0, len(l.records))
	for _, r := range l.records {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

// compile-time checks
var (
	_ domain.WatchlistRepository = (*InMemoryWatchlistRepository)(nil)
	_ domain.TradeLedger         = (*InMemoryTradeLedger)(nil)
)
