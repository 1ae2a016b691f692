package strategy

import (
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/argus-quant/hftsim/internal/account"
	"github.com/argus-quant/hftsim/internal/types"
	"github.com/argus-quant/hftsim/pkg/errors"
)

// MarketMakerConfig configures the MarketMaker strategy.
type MarketMakerConfig struct {
	account.Config `yaml:",inline"`

	// HalfSpread is the fractional distance of each quote from the tick price.
	HalfSpread float64 `yaml:"half_spread" json:"half_spread" jsonschema:"title=Half Spread,description=Fractional quote offset from the tick price,minimum=0,default=0.0005" validate:"gte=0"`
	// OrderSize is the size quoted on each side.
	OrderSize float64 `yaml:"order_size" json:"order_size" jsonschema:"title=Order Size,description=Size per quote,default=0.01" validate:"gt=0"`
	// DrawdownHaltPct halts the strategy at this balance drawdown.
	DrawdownHaltPct float64 `yaml:"drawdown_halt_pct" json:"drawdown_halt_pct" jsonschema:"title=Drawdown Halt,description=Fractional drawdown that latches the kill switch,default=0.05" validate:"gt=0"`
}

// DefaultMarketMakerConfig returns the MarketMaker defaults.
func DefaultMarketMakerConfig() MarketMakerConfig {
	return MarketMakerConfig{
		Config:          account.DefaultConfig(),
		HalfSpread:      0.0005,
		OrderSize:       0.01,
		DrawdownHaltPct: 0.05,
	}
}

// MarketMaker quotes a fixed half-spread around every tick price, submitting
// a bid below and an ask above whenever the position limit allows. It carries
// no rolling indicator state.
type MarketMaker struct {
	cfg  MarketMakerConfig
	acct *account.Account
}

// NewMarketMaker creates a MarketMaker with the given config.
func NewMarketMaker(cfg MarketMakerConfig) *MarketMaker {
	return &MarketMaker{
		cfg:  cfg,
		acct: account.New(cfg.Config),
	}
}

// NewMarketMakerFromConfig builds a MarketMaker from a YAML config document.
func NewMarketMakerFromConfig(configYAML string) (Strategy, error) {
	cfg := DefaultMarketMakerConfig()
	if err := unmarshalConfig(configYAML, &cfg); err != nil {
		return nil, err
	}

	return NewMarketMaker(cfg), nil
}

// Name implements Strategy.
func (s *MarketMaker) Name() string { return NameMarketMaker }

// Account implements Strategy.
func (s *MarketMaker) Account() *account.Account { return s.acct }

// OnTick implements Strategy.
func (s *MarketMaker) OnTick(tick types.Tick) error {
	if s.acct.CheckDrawdownHalt(s.cfg.DrawdownHaltPct) {
		return nil
	}

	bid := tick.Price * (1 - s.cfg.HalfSpread)
	ask := tick.Price * (1 + s.cfg.HalfSpread)

	// Either side may be rejected by the position limit independently.
	if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: bid, Size: s.cfg.OrderSize}, tick); err != nil {
		return err
	}

	if _, err := s.acct.SubmitOrder(types.Order{Side: types.SideSell, Price: ask, Size: s.cfg.OrderSize}, tick); err != nil {
		return err
	}

	return nil
}

// unmarshalConfig overlays a YAML document onto a pre-populated default
// config and validates the result. Keys absent from the document keep their
// defaults, matching per-key default semantics.
func unmarshalConfig(configYAML string, cfg any) error {
	if configYAML != "" {
		if err := yaml.Unmarshal([]byte(configYAML), cfg); err != nil {
			return errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy config", err)
		}
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy config", err)
	}

	return nil
}
