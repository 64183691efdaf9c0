package domain

import "fmt"

// FetchError wraps market-data failures: empty history, dead quote,
// transport timeouts. Recovered by skip-and-continue.
type FetchError struct {
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Ticker, e.Err)
	}
	return fmt.Sprintf("fetch %s: no data", e.Ticker)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StoreError wraps watchlist/ledger write failures. The in-flight
// decision is dropped and recomputed next cycle.
type StoreError struct {
	Ticker string
	Op     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Ticker, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ReconcileAnomaly marks a sell with no matching OPEN ledger record.
// The executor recovers by synthesizing a closed record.
type ReconcileAnomaly struct {
	Ticker string
}

func (e *ReconcileAnomaly) Error() string {
	return fmt.Sprintf("reconcile %s: no open trade record", e.Ticker)
}
