package strategy

import (
	"github.com/argus-quant/hftsim/internal/account"
	"github.com/argus-quant/hftsim/internal/types"
)

// GridTraderConfig configures the GridTrader strategy.
type GridTraderConfig struct {
	account.Config `yaml:",inline"`

	// GridSpacing is the fractional distance between adjacent grid levels.
	GridSpacing float64 `yaml:"grid_spacing" json:"grid_spacing" jsonschema:"title=Grid Spacing,description=Fractional distance between grid levels,default=0.002" validate:"gt=0"`
	// NumLevels is the number of grid levels on each side of the reference.
	NumLevels int `yaml:"num_levels" json:"num_levels" jsonschema:"title=Levels,description=Grid levels on each side,default=3" validate:"gt=0"`
	// OrderSize is the size per grid order.
	OrderSize float64 `yaml:"order_size" json:"order_size" jsonschema:"title=Order Size,description=Size per grid order,default=0.01" validate:"gt=0"`
	// DrawdownHaltPct halts the strategy at this balance drawdown.
	DrawdownHaltPct float64 `yaml:"drawdown_halt_pct" json:"drawdown_halt_pct" jsonschema:"title=Drawdown Halt,description=Fractional drawdown that latches the kill switch,default=0.05" validate:"gt=0"`
}

// DefaultGridTraderConfig returns the GridTrader defaults.
func DefaultGridTraderConfig() GridTraderConfig {
	return GridTraderConfig{
		Config:          account.DefaultConfig(),
		GridSpacing:     0.002,
		NumLevels:       3,
		OrderSize:       0.01,
		DrawdownHaltPct: 0.05,
	}
}

// GridTrader fixes a reference price on its first tick and trades fixed
// fractional offsets around it: buys when price crosses at or below an
// unfilled lower level, sells when it crosses at or above an unfilled upper
// level. The grid resets around the current price when price escapes the
// grid range or every level on both sides has been filled.
type GridTrader struct {
	cfg  GridTraderConfig
	acct *account.Account

	referencePrice   float64
	hasReference     bool
	buyLevelsFilled  map[int]bool
	sellLevelsFilled map[int]bool
}

// NewGridTrader creates a GridTrader with the given config.
func NewGridTrader(cfg GridTraderConfig) *GridTrader {
	return &GridTrader{
		cfg:              cfg,
		acct:             account.New(cfg.Config),
		buyLevelsFilled:  make(map[int]bool),
		sellLevelsFilled: make(map[int]bool),
	}
}

// NewGridTraderFromConfig builds a GridTrader from a YAML config document.
func NewGridTraderFromConfig(configYAML string) (Strategy, error) {
	cfg := DefaultGridTraderConfig()
	if err := unmarshalConfig(configYAML, &cfg); err != nil {
		return nil, err
	}

	return NewGridTrader(cfg), nil
}

// Name implements Strategy.
func (s *GridTrader) Name() string { return NameGridTrader }

// Account implements Strategy.
func (s *GridTrader) Account() *account.Account { return s.acct }

func (s *GridTrader) resetGrid(reference float64) {
	s.referencePrice = reference
	s.hasReference = true
	s.buyLevelsFilled = make(map[int]bool)
	s.sellLevelsFilled = make(map[int]bool)
}

// gridLevelPrice computes the price of level k. Negative offset for buys,
// positive for sells.
func (s *GridTrader) gridLevelPrice(level int, side types.Side) float64 {
	offset := float64(level) * s.cfg.GridSpacing
	if side == types.SideBuy {
		return s.referencePrice * (1 - offset)
	}

	return s.referencePrice * (1 + offset)
}

// OnTick implements Strategy.
func (s *GridTrader) OnTick(tick types.Tick) error {
	if s.acct.CheckDrawdownHalt(s.cfg.DrawdownHaltPct) {
		return nil
	}

	price := tick.Price

	// Initialize grid on first tick.
	if !s.hasReference {
		s.resetGrid(price)

		return nil
	}

	// Reset when price escapes the grid range.
	escape := float64(s.cfg.NumLevels+1) * s.cfg.GridSpacing
	upperBound := s.referencePrice * (1 + escape)
	lowerBound := s.referencePrice * (1 - escape)

	if price > upperBound || price < lowerBound {
		s.resetGrid(price)

		return nil
	}

	// Reset when every level on both sides has been filled.
	if len(s.buyLevelsFilled) >= s.cfg.NumLevels && len(s.sellLevelsFilled) >= s.cfg.NumLevels {
		s.resetGrid(price)

		return nil
	}

	// Buy levels: price touching or crossing below an unfilled level.
	for k := 1; k <= s.cfg.NumLevels; k++ {
		if s.buyLevelsFilled[k] {
			continue
		}

		if price <= s.gridLevelPrice(k, types.SideBuy) {
			fill, err := s.acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: price, Size: s.cfg.OrderSize}, tick)
			if err != nil {
				return err
			}

			if fill.IsSome() {
				s.buyLevelsFilled[k] = true
			}
		}
	}

	// Sell levels: price touching or crossing above an unfilled level.
	for k := 1; k <= s.cfg.NumLevels; k++ {
		if s.sellLevelsFilled[k] {
			continue
		}

		if price >= s.gridLevelPrice(k, types.SideSell) {
			fill, err := s.acct.SubmitOrder(types.Order{Side: types.SideSell, Price: price, Size: s.cfg.OrderSize}, tick)
			if err != nil {
				return err
			}

			if fill.IsSome() {
				s.sellLevelsFilled[k] = true
			}
		}
	}

	return nil
}
