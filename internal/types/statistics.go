package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceSummary aggregates closed-trade performance for one run.
type PerformanceSummary struct {
	// Count of all closed trades.
	TotalTrades int `yaml:"total_trades"`
	// Sum of all trade pnl.
	TotalPnL float64 `yaml:"total_pnl"`
	// Fraction of trades with positive pnl.
	WinRate float64 `yaml:"win_rate"`
	// Gross profit over gross loss. +Inf when there are no losing trades.
	ProfitFactor float64 `yaml:"profit_factor"`
	// Mean pnl of winning trades.
	AvgWin float64 `yaml:"avg_win"`
	// Mean pnl of losing trades.
	AvgLoss float64 `yaml:"avg_loss"`
	// Sharpe-like ratio of per-trade returns, annualized from the actual
	// elapsed span of the trade set.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// Largest peak-to-trough decline of cumulative pnl.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// Highest single-trade pnl.
	BestTrade float64 `yaml:"best_trade"`
	// Lowest single-trade pnl.
	WorstTrade float64 `yaml:"worst_trade"`
	// Mean holding time of a trade in seconds.
	AvgTradeDurationSeconds float64 `yaml:"avg_trade_duration_seconds"`
}

// RunStats is the per-run summary document written next to the exported
// trade and fill tables.
type RunStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Strategy is the registry name of the strategy that produced the run.
	Strategy string `yaml:"strategy" json:"strategy"`
	// DataPath is the tick data file used for this run.
	DataPath string `yaml:"data_path" json:"data_path"`

	InitialBalance float64 `yaml:"initial_balance" json:"initial_balance"`
	FinalBalance   float64 `yaml:"final_balance" json:"final_balance"`
	// FinalPosition is the signed open position left at run end. Open lots
	// are not force-liquidated.
	FinalPosition float64 `yaml:"final_position" json:"final_position"`
	GrossPnL      float64 `yaml:"gross_pnl" json:"gross_pnl"`
	Halted        bool    `yaml:"halted" json:"halted"`
	TickCount     int     `yaml:"tick_count" json:"tick_count"`
	FillCount     int     `yaml:"fill_count" json:"fill_count"`
	OpenLotCount  int     `yaml:"open_lot_count" json:"open_lot_count"`

	// Performance holds trade metrics. Nil when the run closed no trades.
	Performance *PerformanceSummary `yaml:"performance,omitempty" json:"performance,omitempty"`

	// TradesFilePath is the path to the trades parquet file.
	TradesFilePath string `yaml:"trades_file_path" json:"trades_file_path"`
	// FillsFilePath is the path to the fills parquet file.
	FillsFilePath string `yaml:"fills_file_path" json:"fills_file_path"`
}

// WriteRunStats writes the run stats document as YAML.
func WriteRunStats(path string, stats RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}
