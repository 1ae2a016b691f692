package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/argus-quant/hftsim/internal/types"
	"github.com/argus-quant/hftsim/pkg/errors"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func trade(pnl, pnlPct float64, entry, exit time.Time) types.ClosedTrade {
	return types.ClosedTrade{
		Side:      types.SideBuy,
		EntryTime: entry.UnixNano(),
		ExitTime:  exit.UnixNano(),
		Size:      1.0,
		PnL:       pnl,
		PnLPct:    pnlPct,
	}
}

func (s *MetricsTestSuite) TestEmptyTrades() {
	_, err := Compute(nil)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeNoTrades))
}

func (s *MetricsTestSuite) TestBasicAggregates() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []types.ClosedTrade{
		trade(10.0, 0.01, base, base.Add(time.Minute)),
		trade(-4.0, -0.004, base.Add(time.Hour), base.Add(time.Hour+3*time.Minute)),
		trade(6.0, 0.006, base.Add(2*time.Hour), base.Add(2*time.Hour+2*time.Minute)),
	}

	summary, err := Compute(trades)
	s.Require().NoError(err)

	s.Equal(3, summary.TotalTrades)
	s.InDelta(12.0, summary.TotalPnL, 1e-9)
	s.InDelta(2.0/3.0, summary.WinRate, 1e-9)
	s.InDelta(16.0/4.0, summary.ProfitFactor, 1e-9)
	s.InDelta(8.0, summary.AvgWin, 1e-9)
	s.InDelta(-4.0, summary.AvgLoss, 1e-9)
	s.InDelta(10.0, summary.BestTrade, 1e-9)
	s.InDelta(-4.0, summary.WorstTrade, 1e-9)
	s.InDelta(120.0, summary.AvgTradeDurationSeconds, 1e-9)
}

func (s *MetricsTestSuite) TestZeroPnLCountsAsLoss() {
	base := time.Now()
	trades := []types.ClosedTrade{
		trade(5.0, 0.005, base, base.Add(time.Second)),
		trade(0.0, 0.0, base.Add(time.Minute), base.Add(time.Minute+time.Second)),
	}

	summary, err := Compute(trades)
	s.Require().NoError(err)
	s.InDelta(0.5, summary.WinRate, 1e-9)
	s.InDelta(0.0, summary.AvgLoss, 1e-9)
}

func (s *MetricsTestSuite) TestProfitFactorInfiniteWithoutLosses() {
	base := time.Now()
	trades := []types.ClosedTrade{
		trade(1.0, 0.001, base, base.Add(time.Second)),
		trade(2.0, 0.002, base.Add(time.Minute), base.Add(2*time.Minute)),
	}

	summary, err := Compute(trades)
	s.Require().NoError(err)
	s.True(math.IsInf(summary.ProfitFactor, 1))
}

func (s *MetricsTestSuite) TestMaxDrawdown() {
	base := time.Now()
	trades := []types.ClosedTrade{
		trade(10.0, 0.01, base, base.Add(time.Second)),
		trade(-6.0, -0.006, base.Add(time.Minute), base.Add(2*time.Minute)),
		trade(-5.0, -0.005, base.Add(3*time.Minute), base.Add(4*time.Minute)),
		trade(20.0, 0.02, base.Add(5*time.Minute), base.Add(6*time.Minute)),
	}

	summary, err := Compute(trades)
	s.Require().NoError(err)

	// Peak 10, trough -1: the worst excursion is -11.
	s.InDelta(-11.0, summary.MaxDrawdown, 1e-9)
}

func (s *MetricsTestSuite) TestSharpeSingleTradeIsZero() {
	base := time.Now()
	summary, err := Compute([]types.ClosedTrade{trade(5.0, 0.005, base, base.Add(time.Second))})
	s.Require().NoError(err)
	s.InDelta(0.0, summary.SharpeRatio, 1e-9)
}

func (s *MetricsTestSuite) TestSharpeFlatReturnsIsZero() {
	base := time.Now()
	trades := []types.ClosedTrade{
		trade(1.0, 0.001, base, base.Add(time.Second)),
		trade(1.0, 0.001, base.Add(time.Minute), base.Add(2*time.Minute)),
	}

	summary, err := Compute(trades)
	s.Require().NoError(err)
	s.InDelta(0.0, summary.SharpeRatio, 1e-9)
}

func (s *MetricsTestSuite) TestSharpeAnnualization() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two trades over exactly one hour.
	trades := []types.ClosedTrade{
		trade(1.0, 0.002, base, base.Add(30*time.Minute)),
		trade(2.0, 0.004, base.Add(40*time.Minute), base.Add(time.Hour)),
	}

	summary, err := Compute(trades)
	s.Require().NoError(err)

	mean := 0.003
	std := math.Sqrt(2 * math.Pow(0.001, 2) / 1.0)
	tradesPerYear := 2.0 * (365.25 * 24 * 3600 / 3600.0)
	want := (mean / std) * math.Sqrt(tradesPerYear)

	s.InDelta(want, summary.SharpeRatio, 1e-6)
}
