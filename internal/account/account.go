// Package account holds the shared accounting state of one strategy
// instance: signed position, cash balance, the FIFO lot queue, the
// append-only fill log, and the realized closed-trade table.
//
// Strategies never touch position, balance, or lot state directly; they only
// call SubmitOrder and CheckDrawdownHalt. An Account is owned by exactly one
// strategy instance and is not safe for concurrent use.
package account

import (
	"math"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/argus-quant/hftsim/internal/types"
)

const epsilon = 1e-9

// Config holds the universal accounting knobs shared by every strategy.
type Config struct {
	// MaxPosition caps the absolute signed position. Orders that would
	// breach it are rejected whole; there are no partial fills.
	MaxPosition float64 `yaml:"max_position" json:"max_position" jsonschema:"title=Max Position,description=Maximum absolute signed position,minimum=0,default=1"`
	// FeeRate is the proportional fee charged on every fill: price * size * fee_rate.
	FeeRate float64 `yaml:"fee_rate" json:"fee_rate" jsonschema:"title=Fee Rate,description=Proportional fee per fill,minimum=0,default=0.0002"`
	// InitialBalance is the starting cash balance and the drawdown reference.
	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance" jsonschema:"title=Initial Balance,description=Starting cash balance in quote units,minimum=0,default=10000"`
}

// DefaultConfig returns the universal defaults.
func DefaultConfig() Config {
	return Config{
		MaxPosition:    1.0,
		FeeRate:        0.0002,
		InitialBalance: 10000.0,
	}
}

// Account is the mutable accounting state of a single backtest run.
type Account struct {
	cfg      Config
	position float64
	balance  float64
	grossPnL float64
	halted   bool
	lots     []types.Lot
	fills    []types.Fill
	trades   []types.ClosedTrade
}

// New creates an account with position 0 and balance cfg.InitialBalance.
func New(cfg Config) *Account {
	return &Account{
		cfg:     cfg,
		balance: cfg.InitialBalance,
	}
}

// SubmitOrder converts an order into an immediate full fill at the order's
// price, subject to the halt latch and the position limit.
//
// A rejected order (halted, or the prospective position would exceed
// MaxPosition) returns None with no state change; callers treat it as "order
// did not happen". A non-positive price or size is a contract violation and
// returns an error. The tick supplies the fill timestamp only; the execution
// price is the order's price, which lets strategies quote at an offset from
// the tick.
func (a *Account) SubmitOrder(order types.Order, tick types.Tick) (optional.Option[types.Fill], error) {
	if err := order.Validate(); err != nil {
		return optional.None[types.Fill](), err
	}

	if a.halted {
		return optional.None[types.Fill](), nil
	}

	newPosition := a.position + order.Size
	if order.Side == types.SideSell {
		newPosition = a.position - order.Size
	}

	if math.Abs(newPosition) > a.cfg.MaxPosition+epsilon {
		return optional.None[types.Fill](), nil
	}

	fee, _ := decimal.NewFromFloat(order.Price).
		Mul(decimal.NewFromFloat(order.Size)).
		Mul(decimal.NewFromFloat(a.cfg.FeeRate)).
		Float64()

	fill := types.Fill{
		ID:        uuid.New().String(),
		Side:      order.Side,
		Price:     order.Price,
		Size:      order.Size,
		Fee:       fee,
		Timestamp: tick.Timestamp,
	}

	a.balance -= fee
	a.fills = append(a.fills, fill)
	a.applyFill(fill)
	a.position = newPosition

	return optional.Some(fill), nil
}

// applyFill matches the fill against opposite-side lots in strict FIFO order,
// realizing one closed trade per consumed lot. Any residual quantity opens a
// new lot on the fill's side; a fill larger than all opposite lots combined
// therefore closes the old exposure and flips the position in one pass.
//
// Fees are apportioned strictly proportionally on both legs: a match consumes
// matched/lot.Size of the lot's stored entry fee and matched/fill.Size of the
// incoming fill's fee. The balance is credited with the gross
// price-difference pnl of each trade as it is realized; both legs' fees were
// already deducted at fill time.
func (a *Account) applyFill(fill types.Fill) {
	remaining := fill.Size
	fillDec := decimal.NewFromFloat(fill.Size)
	feeDec := decimal.NewFromFloat(fill.Fee)

	for remaining > epsilon && len(a.lots) > 0 && a.lots[0].Side != fill.Side {
		lot := &a.lots[0]
		matched := math.Min(remaining, lot.Size)
		matchedDec := decimal.NewFromFloat(matched)

		entryFee, _ := decimal.NewFromFloat(lot.Fee).
			Mul(matchedDec).
			Div(decimal.NewFromFloat(lot.Size)).
			Float64()
		exitFee, _ := feeDec.Mul(matchedDec).Div(fillDec).Float64()

		grossDec := decimal.NewFromFloat(fill.Price).
			Sub(decimal.NewFromFloat(lot.EntryPrice)).
			Mul(matchedDec)
		if lot.Side == types.SideSell {
			grossDec = grossDec.Neg()
		}

		gross, _ := grossDec.Float64()
		pnl := gross - entryFee - exitFee

		trade := types.ClosedTrade{
			ID:         uuid.New().String(),
			Side:       lot.Side,
			EntryPrice: lot.EntryPrice,
			ExitPrice:  fill.Price,
			EntryTime:  lot.EntryTime,
			ExitTime:   fill.Timestamp,
			Size:       matched,
			Fee:        entryFee + exitFee,
			PnL:        pnl,
		}
		if notional := lot.EntryPrice * matched; notional > 0 {
			trade.PnLPct = pnl / notional
		}

		a.trades = append(a.trades, trade)
		a.grossPnL += gross
		a.balance += gross

		lot.Size -= matched
		lot.Fee -= entryFee
		remaining -= matched

		if lot.Size <= epsilon {
			a.lots = a.lots[1:]
		}
	}

	if remaining > epsilon {
		residualFee, _ := feeDec.
			Mul(decimal.NewFromFloat(remaining)).
			Div(fillDec).
			Float64()

		a.lots = append(a.lots, types.Lot{
			Side:       fill.Side,
			EntryPrice: fill.Price,
			Size:       remaining,
			Fee:        residualFee,
			EntryTime:  fill.Timestamp,
		})
	}
}

// CheckDrawdownHalt latches the halt flag once balance drawdown from the
// initial balance reaches thresholdPct. The latch never reverts within a run;
// a drawdown recovery after halting does not resume trading.
func (a *Account) CheckDrawdownHalt(thresholdPct float64) bool {
	if a.halted {
		return true
	}

	if a.cfg.InitialBalance <= 0 {
		return false
	}

	drawdown := (a.cfg.InitialBalance - a.balance) / a.cfg.InitialBalance
	if drawdown >= thresholdPct {
		a.halted = true

		return true
	}

	return false
}

// Replay rebuilds account state by running a fill log through a fresh
// account. The result matches the account that produced the log: open lots,
// closed trades, position, and balance are all derived from fills alone.
func Replay(cfg Config, fills []types.Fill) *Account {
	a := New(cfg)
	for _, fill := range fills {
		a.balance -= fill.Fee
		a.fills = append(a.fills, fill)
		a.applyFill(fill)

		if fill.Side == types.SideBuy {
			a.position += fill.Size
		} else {
			a.position -= fill.Size
		}
	}

	return a
}

// Config returns the account configuration.
func (a *Account) Config() Config { return a.cfg }

// Position returns the running signed position (+long / -short).
func (a *Account) Position() float64 { return a.position }

// Balance returns the current cash balance.
func (a *Account) Balance() float64 { return a.balance }

// GrossPnL returns cumulative realized pnl before fees. Unrealized exposure
// in open lots is not counted.
func (a *Account) GrossPnL() float64 { return a.grossPnL }

// Halted reports whether the drawdown kill switch has fired.
func (a *Account) Halted() bool { return a.halted }

// Fills returns a copy of the append-only fill log.
func (a *Account) Fills() []types.Fill {
	out := make([]types.Fill, len(a.fills))
	copy(out, a.fills)

	return out
}

// Trades returns a copy of the closed-trade table in realization order.
func (a *Account) Trades() []types.ClosedTrade {
	out := make([]types.ClosedTrade, len(a.trades))
	copy(out, a.trades)

	return out
}

// OpenLots returns a copy of the open lot queue, oldest first.
func (a *Account) OpenLots() []types.Lot {
	out := make([]types.Lot, len(a.lots))
	copy(out, a.lots)

	return out
}
