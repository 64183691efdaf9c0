package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables the engine operates on. This keeps setup
// simple (no external migration tool), but still gives persistence.
// The watchlist schema is created twice: once for production and once
// for the UAT table test mode points at.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		watchlistDDL("ipo_trades"),
		watchlistDDL("ipo_trades_uat"),
		`create table if not exists trade_history (
			id text primary key,
			ticker text not null,
			market_type text not null default '',
			buy_price double precision not null default 0,
			buy_date timestamptz null,
			sell_price double precision null,
			sell_date timestamptz null,
			profit_pct double precision null,
			status text not null,
			note text not null default ''
		);`,
		`create index if not exists trade_history_ticker_status_idx on trade_history(ticker, status);`,
		`create index if not exists trade_history_buy_date_idx on trade_history(buy_date desc);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func watchlistDDL(table string) string {
	return fmt.Sprintf(`create table if not exists %s (
		ticker text primary key,
		market_type text not null,
		status text not null default 'watching',
		base_high double precision not null default 0,
		highest_price double precision not null default 0,
		buy_price double precision not null default 0,
		sell_price double precision not null default 0,
		last_price double precision not null default 0,
		last_update timestamptz not null default '1970-01-01'::timestamptz,
		note text not null default ''
	);`, table)
}
