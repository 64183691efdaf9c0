package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
)

// PostgresWatchlistRepository stores per-ticker watchlist state.
// The table name is chosen by the caller (production vs UAT), so test
// mode never leaks into this layer as a hidden flag.
type PostgresWatchlistRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresWatchlistRepository(pool *pgxpool.Pool, table string) *PostgresWatchlistRepository {
	return &PostgresWatchlistRepository{pool: pool, table: table}
}

const watchlistColumns = `ticker, market_type, status, base_high, highest_price, buy_price, sell_price, last_price, last_update`

func (r *PostgresWatchlistRepository) GetAll(ctx context.Context) ([]*domain.WatchlistEntry, error) {
	return r.query(ctx, fmt.Sprintf(`select %s from %s order by ticker`, watchlistColumns, r.table))
}

func (r *PostgresWatchlistRepository) GetByState(ctx context.Context, state domain.State) ([]*domain.WatchlistEntry, error) {
	return r.query(ctx, fmt.Sprintf(`select %s from %s where status = $1 order by ticker`, watchlistColumns, r.table), string(state))
}

func (r *PostgresWatchlistRepository) GetByCategory(ctx context.Context, category domain.Category) ([]*domain.WatchlistEntry, error) {
	return r.query(ctx, fmt.Sprintf(`select %s from %s where market_type = $1 order by ticker`, watchlistColumns, r.table), string(category))
}

func (r *PostgresWatchlistRepository) Upsert(ctx context.Context, entry *domain.WatchlistEntry) error {
	if entry == nil {
		return errors.New("nil entry")
	}

	_, err := r.pool.Exec(ctx, fmt.Sprintf(`
		insert into %s (%s)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		on conflict (ticker) do update set
			market_type = excluded.market_type,
			status = excluded.status,
			base_high = excluded.base_high,
			highest_price = excluded.highest_price,
			buy_price = excluded.buy_price,
			sell_price = excluded.sell_price,
			last_price = excluded.last_price,
			last_update = excluded.last_update
	`, r.table, watchlistColumns),
		entry.Ticker,
		string(entry.Category),
		string(entry.State),
		entry.BaseReference,
		entry.PeakSinceEntry,
		entry.EntryPrice,
		entry.ExitPrice,
		entry.LastPrice,
		entry.LastObservedAt,
	)
	return err
}

// Update applies a partial patch in a single statement; nil fields are
// skipped so the row keeps its current values for them.
func (r *PostgresWatchlistRepository) Update(ctx context.Context, ticker string, patch domain.WatchlistPatch) error {
	sets := make([]string, 0, 8)
	args := []any{ticker}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.State != nil {
		add("status", string(*patch.State))
	}
	if patch.BaseReference != nil {
		add("base_high", *patch.BaseReference)
	}
	if patch.PeakSinceEntry != nil {
		add("highest_price", *patch.PeakSinceEntry)
	}
	if patch.EntryPrice != nil {
		add("buy_price", *patch.EntryPrice)
	}
	if patch.ExitPrice != nil {
		add("sell_price", *patch.ExitPrice)
	}
	if patch.LastPrice != nil {
		add("last_price", *patch.LastPrice)
	}
	if patch.LastObservedAt != nil {
		add("last_update", *patch.LastObservedAt)
	}
	if patch.Note != nil {
		add("note", *patch.Note)
	}

	if len(sets) == 0 {
		return nil
	}

	stmt := fmt.Sprintf(`update %s set %s where ticker = $1`, r.table, strings.Join(sets, ", "))
	_, err := r.pool.Exec(ctx, stmt, args...)
	return err
}

func (r *PostgresWatchlistRepository) query(ctx context.Context, stmt string, args ...any) ([]*domain.WatchlistEntry, error) {
	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.WatchlistEntry, 0)
	for rows.Next() {
		var e domain.WatchlistEntry
		var category, status string
		if err := rows.Scan(
			&e.Ticker,
			&category,
			&status,
			&e.BaseReference,
			&e.PeakSinceEntry,
			&e.EntryPrice,
			&e.ExitPrice,
			&e.LastPrice,
			&e.LastObservedAt,
		); err != nil {
			return nil, err
		}
		e.Category = domain.Category(category)
		e.State = domain.State(status)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// compile-time check
var _ domain.WatchlistRepository = (*PostgresWatchlistRepository)(nil)
