package domain

import "time"

// Ledger record states. A ticker has at most one OPEN record at a time.
const (
	TradeOpen   = "OPEN"
	TradeClosed = "CLOSED"
)

// TradeRecord is one row of the append-only trade history.
type TradeRecord struct {
	ID         string     `json:"id"`
	Ticker     string     `json:"ticker"`
	Category   Category   `json:"category"`
	EntryPrice float64    `json:"entryPrice"`
	EntryAt    time.Time  `json:"entryAt"`
	ExitPrice  *float64   `json:"exitPrice,omitempty"`
	ExitAt     *time.Time `json:"exitAt,omitempty"`
	PLPct      *float64   `json:"plPct,omitempty"`
	Status     string     `json:"status"` // OPEN or CLOSED
	Note       string     `json:"note"`
}
