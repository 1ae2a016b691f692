package strategy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/argus-quant/hftsim/pkg/errors"
)

type RegistryTestSuite struct {
	suite.Suite
	registry Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = NewRegistry()
}

func (s *RegistryTestSuite) TestListBuiltins() {
	s.Equal([]string{
		NameGridTrader,
		NameMarketMaker,
		NameMeanReversionScalper,
		NameMomentumScalper,
	}, s.registry.List())
}

func (s *RegistryTestSuite) TestCreateWithDefaults() {
	for _, name := range s.registry.List() {
		strat, err := s.registry.Create(name, "")
		s.Require().NoError(err, name)
		s.Equal(name, strat.Name())
		s.NotNil(strat.Account())
	}
}

func (s *RegistryTestSuite) TestCreateUnknownStrategy() {
	_, err := s.registry.Create("Arbitrage", "")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (s *RegistryTestSuite) TestCreateWithConfigOverlay() {
	configYAML := `
lookback: 7
order_size: 0.5
fee_rate: 0.001
`

	strat, err := s.registry.Create(NameMomentumScalper, configYAML)
	s.Require().NoError(err)

	ms, ok := strat.(*MomentumScalper)
	s.Require().True(ok)

	// Overridden keys take the document values.
	s.Equal(7, ms.cfg.Lookback)
	s.InDelta(0.5, ms.cfg.OrderSize, 1e-9)
	s.InDelta(0.001, ms.cfg.FeeRate, 1e-9)

	// Untouched keys keep their defaults.
	s.Equal(50, ms.cfg.MaxHoldTicks)
	s.InDelta(10000.0, ms.cfg.InitialBalance, 1e-9)
}

func (s *RegistryTestSuite) TestCreateRejectsInvalidConfig() {
	_, err := s.registry.Create(NameGridTrader, "num_levels: -1")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))

	_, err = s.registry.Create(NameMarketMaker, "order_size: [not, scalar]")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeStrategyConfigError))
}

func (s *RegistryTestSuite) TestConfigSchemaJSON() {
	for _, name := range s.registry.List() {
		schemaJSON, err := s.registry.ConfigSchemaJSON(name)
		s.Require().NoError(err, name)

		var schema map[string]any
		s.Require().NoError(json.Unmarshal([]byte(schemaJSON), &schema), name)
		s.Equal(name, schema["title"])

		props, ok := schema["properties"].(map[string]any)
		s.Require().True(ok, name)
		s.Contains(props, "fee_rate")
		s.Contains(props, "max_position")
	}

	_, err := s.registry.ConfigSchemaJSON("Arbitrage")
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (s *RegistryTestSuite) TestRegisterDuplicate() {
	err := s.registry.Register(NameMarketMaker, NewMarketMakerFromConfig)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (s *RegistryTestSuite) TestRegisterCustom() {
	s.Require().NoError(s.registry.Register("Custom", NewMarketMakerFromConfig))
	s.Contains(s.registry.List(), "Custom")

	strat, err := s.registry.Create("Custom", "")
	s.Require().NoError(err)
	s.NotNil(strat)
}
