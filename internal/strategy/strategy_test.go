package strategy

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/argus-quant/hftsim/internal/account"
	"github.com/argus-quant/hftsim/internal/types"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

func tickAt(ts int64, price float64) types.Tick {
	return types.Tick{Timestamp: ts, Price: price, Volume: 1.0, Side: types.SideBuy}
}

func ticksFromPrices(prices []float64) []types.Tick {
	ticks := make([]types.Tick, len(prices))
	for i, p := range prices {
		ticks[i] = tickAt(int64(i+1), p)
	}

	return ticks
}

func (s *StrategyTestSuite) TestMarketMakerQuotesBothSides() {
	cfg := DefaultMarketMakerConfig()
	cfg.FeeRate = 0
	cfg.HalfSpread = 0.001
	cfg.OrderSize = 0.01

	mm := NewMarketMaker(cfg)
	s.Require().NoError(mm.OnTick(tickAt(1, 100.0)))

	fills := mm.Account().Fills()
	s.Require().Len(fills, 2)

	// Bid below the tick, ask above it.
	s.Equal(types.SideBuy, fills[0].Side)
	s.InDelta(99.9, fills[0].Price, 1e-9)
	s.Equal(types.SideSell, fills[1].Side)
	s.InDelta(100.1, fills[1].Price, 1e-9)

	// The ask closes the bid's lot, capturing the full spread.
	s.InDelta(0.0, mm.Account().Position(), 1e-9)
	trades := mm.Account().Trades()
	s.Require().Len(trades, 1)
	s.InDelta(0.2*0.01, trades[0].PnL, 1e-9)
}

func (s *StrategyTestSuite) TestMarketMakerRespectsPositionLimit() {
	cfg := DefaultMarketMakerConfig()
	cfg.MaxPosition = 0.005
	cfg.OrderSize = 0.01

	mm := NewMarketMaker(cfg)
	s.Require().NoError(mm.OnTick(tickAt(1, 100.0)))

	// Both quotes exceed the limit from a flat book; neither fills.
	s.Empty(mm.Account().Fills())
	s.InDelta(0.0, mm.Account().Position(), 1e-9)
}

func (s *StrategyTestSuite) TestMomentumScalperEntersLongOnRally() {
	cfg := DefaultMomentumScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 5
	cfg.EntryThreshold = 0.1

	ms := NewMomentumScalper(cfg)

	// Steady +1 deltas push the EMA past the threshold within a few ticks.
	s.Require().NoError(Run(ms, ticksFromPrices([]float64{100, 101, 102, 103})))

	fills := ms.Account().Fills()
	s.Require().NotEmpty(fills)
	s.Equal(types.SideBuy, fills[0].Side)
	s.InDelta(cfg.OrderSize, ms.Account().Position(), 1e-9)
}

func (s *StrategyTestSuite) TestMomentumScalperEntersShortOnSelloff() {
	cfg := DefaultMomentumScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 5
	cfg.EntryThreshold = 0.1

	ms := NewMomentumScalper(cfg)
	s.Require().NoError(Run(ms, ticksFromPrices([]float64{100, 99, 98, 97})))

	fills := ms.Account().Fills()
	s.Require().NotEmpty(fills)
	s.Equal(types.SideSell, fills[0].Side)
	s.InDelta(-cfg.OrderSize, ms.Account().Position(), 1e-9)
}

func (s *StrategyTestSuite) TestMomentumScalperForcedExitAfterMaxHold() {
	cfg := DefaultMomentumScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 5
	cfg.EntryThreshold = 0.1
	cfg.MaxHoldTicks = 3

	ms := NewMomentumScalper(cfg)

	// Rally to trigger the entry, then a flat tape so no exit signal fires.
	prices := []float64{100, 101, 102, 102, 102}
	s.Require().NoError(Run(ms, ticksFromPrices(prices)))

	// The position must be flat again via the max-hold exit.
	s.InDelta(0.0, ms.Account().Position(), 1e-9)
	s.Require().NotEmpty(ms.Account().Trades())
}

func (s *StrategyTestSuite) TestGridTraderBuysAtLowerLevel() {
	cfg := DefaultGridTraderConfig()
	cfg.FeeRate = 0
	cfg.GridSpacing = 0.01
	cfg.NumLevels = 2
	cfg.OrderSize = 0.01

	gt := NewGridTrader(cfg)

	// First tick fixes the reference at 100.
	s.Require().NoError(gt.OnTick(tickAt(1, 100.0)))
	s.Empty(gt.Account().Fills())

	// 99 touches level 1 (99.0) but not level 2 (98.0).
	s.Require().NoError(gt.OnTick(tickAt(2, 99.0)))

	fills := gt.Account().Fills()
	s.Require().Len(fills, 1)
	s.Equal(types.SideBuy, fills[0].Side)
	s.InDelta(0.01, gt.Account().Position(), 1e-9)

	// The level stays filled; the same price does not trigger again.
	s.Require().NoError(gt.OnTick(tickAt(3, 99.0)))
	s.Len(gt.Account().Fills(), 1)
}

func (s *StrategyTestSuite) TestGridTraderResetsOnEscape() {
	cfg := DefaultGridTraderConfig()
	cfg.FeeRate = 0
	cfg.GridSpacing = 0.01
	cfg.NumLevels = 2

	gt := NewGridTrader(cfg)
	s.Require().NoError(gt.OnTick(tickAt(1, 100.0)))
	s.InDelta(100.0, gt.referencePrice, 1e-9)

	// 104 is beyond 100*(1+3*0.01) = 103; the grid recenters, no order fires.
	s.Require().NoError(gt.OnTick(tickAt(2, 104.0)))
	s.InDelta(104.0, gt.referencePrice, 1e-9)
	s.Empty(gt.Account().Fills())
}

func (s *StrategyTestSuite) TestGridTraderSellsAtUpperLevel() {
	cfg := DefaultGridTraderConfig()
	cfg.FeeRate = 0
	cfg.GridSpacing = 0.01
	cfg.NumLevels = 2

	gt := NewGridTrader(cfg)
	s.Require().NoError(gt.OnTick(tickAt(1, 100.0)))

	// 102 crosses sell levels 1 (101.0) and 2 (102.0) in one tick.
	s.Require().NoError(gt.OnTick(tickAt(2, 102.0)))

	fills := gt.Account().Fills()
	s.Require().Len(fills, 2)
	s.Equal(types.SideSell, fills[0].Side)
	s.Equal(types.SideSell, fills[1].Side)
	s.InDelta(-2*cfg.OrderSize, gt.Account().Position(), 1e-9)
}

func (s *StrategyTestSuite) TestMeanReversionWaitsForFullWindow() {
	cfg := DefaultMeanReversionScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 5
	cfg.DeviationThreshold = 0.001

	mr := NewMeanReversionScalper(cfg)

	// Wild prices, but fewer ticks than the lookback: no trades allowed.
	s.Require().NoError(Run(mr, ticksFromPrices([]float64{100, 50, 150, 25})))
	s.Empty(mr.Account().Fills())
}

func (s *StrategyTestSuite) TestMeanReversionBuysBelowBand() {
	cfg := DefaultMeanReversionScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 4
	cfg.DeviationThreshold = 0.001

	mr := NewMeanReversionScalper(cfg)

	// Four ticks near 100 fill the window; the dip to 99 sits far below
	// VWAP*(1-0.001) and triggers a buy.
	s.Require().NoError(Run(mr, ticksFromPrices([]float64{100, 100, 100, 99})))

	fills := mr.Account().Fills()
	s.Require().Len(fills, 1)
	s.Equal(types.SideBuy, fills[0].Side)
	s.InDelta(cfg.OrderSize, mr.Account().Position(), 1e-9)
}

func (s *StrategyTestSuite) TestMeanReversionExitsOnReversion() {
	cfg := DefaultMeanReversionScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 4
	cfg.DeviationThreshold = 0.001

	mr := NewMeanReversionScalper(cfg)

	// Enter long on the dip, exit when price climbs back through VWAP.
	s.Require().NoError(Run(mr, ticksFromPrices([]float64{100, 100, 100, 99, 101})))

	s.InDelta(0.0, mr.Account().Position(), 1e-9)
	s.Require().Len(mr.Account().Trades(), 1)
	s.Positive(mr.Account().Trades()[0].PnL)
}

func (s *StrategyTestSuite) TestMeanReversionZeroVolumeFallsBackToPrice() {
	cfg := DefaultMeanReversionScalperConfig()
	cfg.Lookback = 3

	mr := NewMeanReversionScalper(cfg)

	for i := 1; i <= 3; i++ {
		tick := types.Tick{Timestamp: int64(i), Price: 100.0, Volume: 0, Side: types.SideBuy}
		s.Require().NoError(mr.OnTick(tick))
	}

	s.InDelta(100.0, mr.vwap, 1e-9)
}

func (s *StrategyTestSuite) TestHaltedStrategySkipsTicks() {
	cfg := DefaultMomentumScalperConfig()
	cfg.FeeRate = 0
	cfg.Lookback = 5
	cfg.EntryThreshold = 0.1
	cfg.DrawdownHaltPct = 0.05
	cfg.Config.InitialBalance = 100.0
	cfg.Config.MaxPosition = 2.0

	ms := NewMomentumScalper(cfg)

	// Force a 10% drawdown directly through the account.
	acct := ms.Account()
	_, err := acct.SubmitOrder(types.Order{Side: types.SideBuy, Price: 100.0, Size: 1.0}, tickAt(1, 100.0))
	s.Require().NoError(err)
	_, err = acct.SubmitOrder(types.Order{Side: types.SideSell, Price: 90.0, Size: 1.0}, tickAt(2, 90.0))
	s.Require().NoError(err)
	s.InDelta(90.0, acct.Balance(), 1e-9)

	fillCount := len(acct.Fills())

	// A strong rally that would normally trigger an entry does nothing.
	s.Require().NoError(Run(ms, ticksFromPrices([]float64{100, 101, 102, 103, 104})))
	s.Len(acct.Fills(), fillCount)
	s.True(acct.Halted())
}

func (s *StrategyTestSuite) TestRunEmptySequence() {
	mm := NewMarketMaker(DefaultMarketMakerConfig())
	s.Require().NoError(Run(mm, nil))
	s.Empty(mm.Account().Fills())
}

func (s *StrategyTestSuite) TestStrategyAccountIsolation() {
	a := NewMarketMaker(DefaultMarketMakerConfig())
	b := NewMarketMaker(DefaultMarketMakerConfig())

	s.Require().NoError(a.OnTick(tickAt(1, 100.0)))

	s.NotEmpty(a.Account().Fills())
	s.Empty(b.Account().Fills())
}

func (s *StrategyTestSuite) TestConfigDefaults() {
	s.Equal(account.DefaultConfig(), DefaultMarketMakerConfig().Config)
	s.Equal(20, DefaultMomentumScalperConfig().Lookback)
	s.Equal(3, DefaultGridTraderConfig().NumLevels)
	s.Equal(50, DefaultMeanReversionScalperConfig().Lookback)
}
