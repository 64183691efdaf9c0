package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nsensens-source/my-ipo-bot/internal/domain"
)

// PostgresTradeLedger stores executed fills in trade_history.
// Rows are append-only; closing a trade updates its OPEN row in place
// but nothing is ever deleted.
type PostgresTradeLedger struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresTradeLedger(pool *pgxpool.Pool, table string) *PostgresTradeLedger {
	return &PostgresTradeLedger{pool: pool, table: table}
}

const ledgerColumns = `id, ticker, market_type, buy_price, buy_date, sell_price, sell_date, profit_pct, status, note`

func (l *PostgresTradeLedger) Insert(ctx context.Context, record *domain.TradeRecord) error {
	if record == nil {
		return errors.New("nil record")
	}

	_, err := l.pool.Exec(ctx, `
		insert into `+l.table+` (`+ledgerColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		record.ID,
		record.Ticker,
		string(record.Category),
		record.EntryPrice,
		record.EntryAt,
		nullableFloat(record.ExitPrice),
		nullableTime(record.ExitAt),
		nullableFloat(record.PLPct),
		record.Status,
		record.Note,
	)
	return err
}

func (l *PostgresTradeLedger) Update(ctx context.Context, record *domain.TradeRecord) error {
	if record == nil {
		return errors.New("nil record")
	}

	_, err := l.pool.Exec(ctx, `
		update `+l.table+` set
			sell_price = $2,
			sell_date = $3,
			profit_pct = $4,
			status = $5,
			note = $6
		where id = $1
	`,
		record.ID,
		nullableFloat(record.ExitPrice),
		nullableTime(record.ExitAt),
		nullableFloat(record.PLPct),
		record.Status,
		record.Note,
	)
	return err
}

func (l *PostgresTradeLedger) NewestOpenByTicker(ctx context.Context, ticker string) (*domain.TradeRecord, error) {
	row := l.pool.QueryRow(ctx, `
		select `+ledgerColumns+`
		from `+l.table+`
		where ticker = $1 and status = $2
		order by buy_date desc
		limit 1
	`, ticker, domain.TradeOpen)

	record, err := scanTradeRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (l *PostgresTradeLedger) GetHistory(ctx context.Context) ([]*domain.TradeRecord, error) {
	rows, err := l.pool.Query(ctx, `
		select `+ledgerColumns+`
		from `+l.table+`
		order by buy_date desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.TradeRecord, 0)
	for rows.Next() {
		record, scanErr := scanTradeRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanTradeRecord(s scanner) (*domain.TradeRecord, error) {
	var r domain.TradeRecord
	var category string
	var sellPrice pgtype.Float8
	var sellDate pgtype.Timestamptz
	var profitPct pgtype.Float8

	if err := s.Scan(
		&r.ID,
		&r.Ticker,
		&category,
		&r.EntryPrice,
		&r.EntryAt,
		&sellPrice,
		&sellDate,
		&profitPct,
		&r.Status,
		&r.Note,
	); err != nil {
		return nil, err
	}

	r.Category = domain.Category(category)
	if sellPrice.Valid {
		v := sellPrice.Float64
		r.ExitPrice = &v
	}
	if sellDate.Valid {
		v := sellDate.Time
		r.ExitAt = &v
	}
	if profitPct.Valid {
		v := profitPct.Float64
		r.PLPct = &v
	}

	return &r, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Valid: true, Float64: *v}
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Valid: true, Time: *v}
}

// compile-time check
var _ domain.TradeLedger = (*PostgresTradeLedger)(nil)
