package types

import (
	"time"
)

// Lot is an open, unmatched quantity of position at a specific entry price.
// Lots queue in strict arrival order; the oldest lot is always consumed
// first.
type Lot struct {
	Side       Side    `yaml:"side" json:"side"`
	EntryPrice float64 `yaml:"entry_price" json:"entry_price"`
	// Size is the remaining unmatched quantity.
	Size float64 `yaml:"size" json:"size"`
	// Fee is the entry-leg fee attributable to the remaining size.
	Fee       float64 `yaml:"fee" json:"fee"`
	EntryTime int64   `yaml:"entry_time" json:"entry_time"`
}

// ClosedTrade is one realized round trip produced by matching an entry lot
// against an opposing fill. Side is the side of the entry leg. Immutable once
// created; this is the record consumed by performance metrics.
type ClosedTrade struct {
	ID         string  `yaml:"id" json:"id" csv:"id"`
	Side       Side    `yaml:"side" json:"side" csv:"side"`
	EntryPrice float64 `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice  float64 `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	EntryTime  int64   `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime   int64   `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	Size       float64 `yaml:"size" json:"size" csv:"size"`
	// Fee is the sum of the entry-leg and exit-leg fees apportioned to the
	// matched size.
	Fee float64 `yaml:"fee" json:"fee" csv:"fee"`
	// PnL is the fee-adjusted realized profit: (exit-entry)*size - fee for a
	// long entry, (entry-exit)*size - fee for a short entry.
	PnL float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
	// PnLPct is PnL relative to the entry notional (entry_price * size).
	PnLPct float64 `yaml:"pnl_pct" json:"pnl_pct" csv:"pnl_pct"`
}

// Duration returns the holding time of the trade.
func (t ClosedTrade) Duration() time.Duration {
	return time.Duration(t.ExitTime - t.EntryTime)
}

// EntryAt returns the entry time as a UTC time.
func (t ClosedTrade) EntryAt() time.Time {
	return time.Unix(0, t.EntryTime).UTC()
}

// ExitAt returns the exit time as a UTC time.
func (t ClosedTrade) ExitAt() time.Time {
	return time.Unix(0, t.ExitTime).UTC()
}
