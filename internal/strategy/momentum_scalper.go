package strategy

import (
	"math"

	"github.com/argus-quant/hftsim/internal/account"
	"github.com/argus-quant/hftsim/internal/types"
)

// MomentumScalperConfig configures the MomentumScalper strategy.
type MomentumScalperConfig struct {
	account.Config `yaml:",inline"`

	// Lookback is the EMA period for tick-to-tick price deltas.
	Lookback int `yaml:"lookback" json:"lookback" jsonschema:"title=Lookback,description=EMA lookback period for momentum,default=20" validate:"gt=0"`
	// EntryThreshold is the minimum EMA momentum that triggers an entry.
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold" jsonschema:"title=Entry Threshold,description=Minimum momentum to enter,default=0.0005" validate:"gte=0"`
	// ExitThreshold is the opposing momentum magnitude that triggers an exit.
	// Smaller than the entry threshold, which creates hysteresis.
	ExitThreshold float64 `yaml:"exit_threshold" json:"exit_threshold" jsonschema:"title=Exit Threshold,description=Opposing momentum magnitude to exit,default=0.0002" validate:"gte=0"`
	// OrderSize is the size per entry order.
	OrderSize float64 `yaml:"order_size" json:"order_size" jsonschema:"title=Order Size,description=Size per order,default=0.01" validate:"gt=0"`
	// MaxHoldTicks forces an exit after this many ticks in a position.
	MaxHoldTicks int `yaml:"max_hold_ticks" json:"max_hold_ticks" jsonschema:"title=Max Hold Ticks,description=Forced exit after N ticks,default=50" validate:"gt=0"`
	// DrawdownHaltPct halts the strategy at this balance drawdown.
	DrawdownHaltPct float64 `yaml:"drawdown_halt_pct" json:"drawdown_halt_pct" jsonschema:"title=Drawdown Halt,description=Fractional drawdown that latches the kill switch,default=0.03" validate:"gt=0"`
}

// DefaultMomentumScalperConfig returns the MomentumScalper defaults.
func DefaultMomentumScalperConfig() MomentumScalperConfig {
	return MomentumScalperConfig{
		Config:          account.DefaultConfig(),
		Lookback:        20,
		EntryThreshold:  0.0005,
		ExitThreshold:   0.0002,
		OrderSize:       0.01,
		MaxHoldTicks:    50,
		DrawdownHaltPct: 0.03,
	}
}

// MomentumScalper tracks an EMA of tick-to-tick price deltas and enters in
// the direction of momentum once it exceeds the entry threshold. It exits on
// an opposing signal crossing the (smaller) exit threshold or after
// MaxHoldTicks, whichever comes first.
type MomentumScalper struct {
	cfg  MomentumScalperConfig
	acct *account.Account

	prevPrice   float64
	hasPrev     bool
	emaMomentum float64
	alpha       float64
	holdCounter int
}

// NewMomentumScalper creates a MomentumScalper with the given config.
func NewMomentumScalper(cfg MomentumScalperConfig) *MomentumScalper {
	return &MomentumScalper{
		cfg:   cfg,
		acct:  account.New(cfg.Config),
		alpha: 2.0 / float64(cfg.Lookback+1),
	}
}

// NewMomentumScalperFromConfig builds a MomentumScalper from a YAML config
// document.
func NewMomentumScalperFromConfig(configYAML string) (Strategy, error) {
	cfg := DefaultMomentumScalperConfig()
	if err := unmarshalConfig(configYAML, &cfg); err != nil {
		return nil, err
	}

	return NewMomentumScalper(cfg), nil
}

// Name implements Strategy.
func (s *MomentumScalper) Name() string { return NameMomentumScalper }

// Account implements Strategy.
func (s *MomentumScalper) Account() *account.Account { return s.acct }

// OnTick implements Strategy.
func (s *MomentumScalper) OnTick(tick types.Tick) error {
	if s.acct.CheckDrawdownHalt(s.cfg.DrawdownHaltPct) {
		return nil
	}

	price := tick.Price

	// Need at least one previous price to compute a delta.
	if !s.hasPrev {
		s.prevPrice = price
		s.hasPrev = true

		return nil
	}

	delta := price - s.prevPrice
	s.prevPrice = price
	s.emaMomentum = s.alpha*delta + (1-s.alpha)*s.emaMomentum

	position := s.acct.Position()
	if position != 0 {
		s.holdCounter++
	}

	// Forced exit on max hold.
	if position != 0 && s.holdCounter >= s.cfg.MaxHoldTicks {
		side := types.SideSell
		if position < 0 {
			side = types.SideBuy
		}

		_, err := s.acct.SubmitOrder(types.Order{Side: side, Price: price, Size: math.Abs(position)}, tick)
		s.holdCounter = 0

		return err
	}

	switch {
	case position == 0:
		if s.emaMomentum > s.cfg.EntryThreshold {
			if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: price, Size: s.cfg.OrderSize}, tick); err != nil {
				return err
			}

			s.holdCounter = 0
		} else if s.emaMomentum < -s.cfg.EntryThreshold {
			if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideSell, Price: price, Size: s.cfg.OrderSize}, tick); err != nil {
				return err
			}

			s.holdCounter = 0
		}
	case position > 0:
		// Long exits on negative momentum.
		if s.emaMomentum < -s.cfg.ExitThreshold {
			if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideSell, Price: price, Size: position}, tick); err != nil {
				return err
			}

			s.holdCounter = 0
		}
	default:
		// Short exits on positive momentum.
		if s.emaMomentum > s.cfg.ExitThreshold {
			if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: price, Size: math.Abs(position)}, tick); err != nil {
				return err
			}

			s.holdCounter = 0
		}
	}

	return nil
}
