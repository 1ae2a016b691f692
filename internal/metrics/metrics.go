// Package metrics computes performance summaries from a closed-trade table.
package metrics

import (
	"math"

	"github.com/argus-quant/hftsim/internal/types"
	"github.com/argus-quant/hftsim/pkg/errors"
)

const secondsPerYear = 365.25 * 24 * 3600

// Compute derives a performance summary from closed trades in realization
// order. An empty table returns ErrCodeNoTrades; every metric is undefined
// without at least one round trip.
func Compute(trades []types.ClosedTrade) (*types.PerformanceSummary, error) {
	if len(trades) == 0 {
		return nil, errors.New(errors.ErrCodeNoTrades, "no trades to analyze")
	}

	summary := &types.PerformanceSummary{
		TotalTrades: len(trades),
		BestTrade:   math.Inf(-1),
		WorstTrade:  math.Inf(1),
	}

	var (
		winCount    int
		lossCount   int
		grossProfit float64
		grossLoss   float64
		durationSum float64
	)

	for _, trade := range trades {
		summary.TotalPnL += trade.PnL
		summary.BestTrade = math.Max(summary.BestTrade, trade.PnL)
		summary.WorstTrade = math.Min(summary.WorstTrade, trade.PnL)
		durationSum += trade.Duration().Seconds()

		// A zero-pnl trade counts against the win rate.
		if trade.PnL > 0 {
			winCount++
			grossProfit += trade.PnL
		} else {
			lossCount++
			grossLoss += -trade.PnL
		}
	}

	summary.WinRate = float64(winCount) / float64(len(trades))
	summary.AvgTradeDurationSeconds = durationSum / float64(len(trades))

	if grossLoss > 0 {
		summary.ProfitFactor = grossProfit / grossLoss
	} else {
		summary.ProfitFactor = math.Inf(1)
	}

	if winCount > 0 {
		summary.AvgWin = grossProfit / float64(winCount)
	}

	if lossCount > 0 {
		summary.AvgLoss = -grossLoss / float64(lossCount)
	}

	summary.SharpeRatio = sharpeRatio(trades)
	summary.MaxDrawdown = maxDrawdown(trades)

	return summary, nil
}

// sharpeRatio annualizes the mean/stddev of per-trade fractional returns.
// The annualization factor is the trade frequency projected onto a year,
// derived from the span between the first entry and the last exit; a
// degenerate span falls back to a 252-period convention. Fewer than two
// trades, or a flat return series, yields zero.
func sharpeRatio(trades []types.ClosedTrade) float64 {
	if len(trades) < 2 {
		return 0
	}

	var sum float64
	for _, trade := range trades {
		sum += trade.PnLPct
	}

	mean := sum / float64(len(trades))

	var variance float64
	for _, trade := range trades {
		d := trade.PnLPct - mean
		variance += d * d
	}

	// Sample variance, matching pandas' default ddof=1.
	variance /= float64(len(trades) - 1)
	std := math.Sqrt(variance)
	if std <= 0 {
		return 0
	}

	tradesPerYear := 252.0

	firstEntry := trades[0].EntryTime
	lastExit := trades[0].ExitTime
	for _, trade := range trades {
		if trade.EntryTime < firstEntry {
			firstEntry = trade.EntryTime
		}

		if trade.ExitTime > lastExit {
			lastExit = trade.ExitTime
		}
	}

	if span := float64(lastExit-firstEntry) / 1e9; span > 0 {
		tradesPerYear = float64(len(trades)) * (secondsPerYear / span)
	}

	return (mean / std) * math.Sqrt(tradesPerYear)
}

// maxDrawdown returns the most negative excursion of cumulative pnl below
// its running maximum, as a non-positive number.
func maxDrawdown(trades []types.ClosedTrade) float64 {
	var cum, runningMax, maxDD float64
	for _, trade := range trades {
		cum += trade.PnL
		runningMax = math.Max(runningMax, cum)
		maxDD = math.Min(maxDD, cum-runningMax)
	}

	return maxDD
}
