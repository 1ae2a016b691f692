package strategy

import (
	"math"

	"github.com/argus-quant/hftsim/internal/account"
	"github.com/argus-quant/hftsim/internal/types"
)

// MeanReversionScalperConfig configures the MeanReversionScalper strategy.
type MeanReversionScalperConfig struct {
	account.Config `yaml:",inline"`

	// Lookback is the rolling VWAP window length in ticks.
	Lookback int `yaml:"lookback" json:"lookback" jsonschema:"title=Lookback,description=Rolling VWAP window in ticks,default=50" validate:"gt=0"`
	// DeviationThreshold is the minimum fractional deviation from VWAP that
	// triggers an entry.
	DeviationThreshold float64 `yaml:"deviation_threshold" json:"deviation_threshold" jsonschema:"title=Deviation Threshold,description=Minimum deviation from VWAP to enter,default=0.001" validate:"gte=0"`
	// OrderSize is the size per entry order.
	OrderSize float64 `yaml:"order_size" json:"order_size" jsonschema:"title=Order Size,description=Size per order,default=0.01" validate:"gt=0"`
	// MaxHoldTicks forces an exit after this many ticks in a position.
	MaxHoldTicks int `yaml:"max_hold_ticks" json:"max_hold_ticks" jsonschema:"title=Max Hold Ticks,description=Forced exit after N ticks,default=40" validate:"gt=0"`
	// DrawdownHaltPct halts the strategy at this balance drawdown.
	DrawdownHaltPct float64 `yaml:"drawdown_halt_pct" json:"drawdown_halt_pct" jsonschema:"title=Drawdown Halt,description=Fractional drawdown that latches the kill switch,default=0.04" validate:"gt=0"`
}

// DefaultMeanReversionScalperConfig returns the MeanReversionScalper defaults.
func DefaultMeanReversionScalperConfig() MeanReversionScalperConfig {
	return MeanReversionScalperConfig{
		Config:             account.DefaultConfig(),
		Lookback:           50,
		DeviationThreshold: 0.001,
		OrderSize:          0.01,
		MaxHoldTicks:       40,
		DrawdownHaltPct:    0.04,
	}
}

type priceVolume struct {
	price  float64
	volume float64
}

// MeanReversionScalper tracks a rolling volume-weighted average price over a
// fixed tick window and fades deviations: it buys below the lower band,
// sells above the upper band, and exits when price reverts through VWAP or
// after MaxHoldTicks. It does not trade until the window is full.
type MeanReversionScalper struct {
	cfg  MeanReversionScalperConfig
	acct *account.Account

	window      []priceVolume
	vwap        float64
	holdCounter int
}

// NewMeanReversionScalper creates a MeanReversionScalper with the given
// config.
func NewMeanReversionScalper(cfg MeanReversionScalperConfig) *MeanReversionScalper {
	return &MeanReversionScalper{
		cfg:    cfg,
		acct:   account.New(cfg.Config),
		window: make([]priceVolume, 0, cfg.Lookback),
	}
}

// NewMeanReversionScalperFromConfig builds a MeanReversionScalper from a
// YAML config document.
func NewMeanReversionScalperFromConfig(configYAML string) (Strategy, error) {
	cfg := DefaultMeanReversionScalperConfig()
	if err := unmarshalConfig(configYAML, &cfg); err != nil {
		return nil, err
	}

	return NewMeanReversionScalper(cfg), nil
}

// Name implements Strategy.
func (s *MeanReversionScalper) Name() string { return NameMeanReversionScalper }

// Account implements Strategy.
func (s *MeanReversionScalper) Account() *account.Account { return s.acct }

// updateVWAP slides the window forward one tick and recomputes VWAP. A
// window with zero total volume falls back to the latest price rather than
// dividing by zero.
func (s *MeanReversionScalper) updateVWAP(price, volume float64) {
	if len(s.window) == s.cfg.Lookback {
		s.window = append(s.window[:0], s.window[1:]...)
	}

	s.window = append(s.window, priceVolume{price: price, volume: volume})

	var totalPV, totalV float64
	for _, pv := range s.window {
		totalPV += pv.price * pv.volume
		totalV += pv.volume
	}

	if totalV > 0 {
		s.vwap = totalPV / totalV
	} else {
		s.vwap = price
	}
}

// OnTick implements Strategy.
func (s *MeanReversionScalper) OnTick(tick types.Tick) error {
	if s.acct.CheckDrawdownHalt(s.cfg.DrawdownHaltPct) {
		return nil
	}

	price := tick.Price
	s.updateVWAP(price, tick.Volume)

	// Need a full window before trading.
	if len(s.window) < s.cfg.Lookback {
		return nil
	}

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

	// Exit when price reverts through VWAP.
	if position > 0 && price >= s.vwap {
		_, err := s.acct.SubmitOrder(types.Order{Side: types.SideSell, Price: price, Size: position}, tick)
		s.holdCounter = 0

		return err
	} else if position < 0 && price <= s.vwap {
		_, err := s.acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: price, Size: math.Abs(position)}, tick)
		s.holdCounter = 0

		return err
	}

	// Entry only when flat.
	if position == 0 {
		lowerBand := s.vwap * (1 - s.cfg.DeviationThreshold)
		upperBand := s.vwap * (1 + s.cfg.DeviationThreshold)

		if price < lowerBand {
			if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: price, Size: s.cfg.OrderSize}, tick); err != nil {
				return err
			}

			s.holdCounter = 0
		} else if price > upperBand {
			if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideSell, Price: price, Size: s.cfg.OrderSize}, tick); err != nil {
				return err
			}

			s.holdCounter = 0
		}
	}

	return nil
}
