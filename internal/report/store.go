// Package report persists backtest results: the fill log and closed-trade
// table go into DuckDB and are exported to Parquet, and the run summary is
// written as YAML next to them.
package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/argus-quant/hftsim/internal/logger"
	"github.com/argus-quant/hftsim/internal/types"
	"github.com/argus-quant/hftsim/pkg/errors"
)

// Store accumulates fills and closed trades for one backtest run in an
// in-memory DuckDB instance and exports them to Parquet on Write.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewStore opens an in-memory store.
func NewStore(l *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open report store", err)
	}

	return &Store{
		db:     db,
		logger: l,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the fills and trades tables.
func (s *Store) Initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS fills (
			fill_id TEXT PRIMARY KEY,
			side TEXT,
			price DOUBLE,
			size DOUBLE,
			fee DOUBLE,
			timestamp BIGINT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create fills table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			trade_id TEXT PRIMARY KEY,
			side TEXT,
			entry_price DOUBLE,
			exit_price DOUBLE,
			entry_time BIGINT,
			exit_time BIGINT,
			size DOUBLE,
			fee DOUBLE,
			pnl DOUBLE,
			pnl_pct DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create trades table", err)
	}

	return nil
}

// RecordFills appends fills to the store inside one transaction.
func (s *Store) RecordFills(fills []types.Fill) error {
	if len(fills) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	for _, fill := range fills {
		insert := s.sq.
			Insert("fills").
			Columns("fill_id", "side", "price", "size", "fee", "timestamp").
			Values(fill.ID, string(fill.Side), fill.Price, fill.Size, fill.Fee, fill.Timestamp).
			RunWith(tx)

		if _, err := insert.Exec(); err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert fill", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit fills", err)
	}

	return nil
}

// RecordTrades appends closed trades to the store inside one transaction.
func (s *Store) RecordTrades(trades []types.ClosedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	for _, trade := range trades {
		insert := s.sq.
			Insert("trades").
			Columns(
				"trade_id", "side", "entry_price", "exit_price", "entry_time",
				"exit_time", "size", "fee", "pnl", "pnl_pct",
			).
			Values(
				trade.ID, string(trade.Side), trade.EntryPrice, trade.ExitPrice, trade.EntryTime,
				trade.ExitTime, trade.Size, trade.Fee, trade.PnL, trade.PnLPct,
			).
			RunWith(tx)

		if _, err := insert.Exec(); err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert trade", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit trades", err)
	}

	return nil
}

// GetAllFills returns every recorded fill in timestamp order.
func (s *Store) GetAllFills() ([]types.Fill, error) {
	rows, err := s.sq.
		Select("fill_id", "side", "price", "size", "fee", "timestamp").
		From("fills").
		OrderBy("timestamp ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query fills", err)
	}
	defer rows.Close()

	var fills []types.Fill

	for rows.Next() {
		var (
			fill types.Fill
			side string
		)

		if err := rows.Scan(&fill.ID, &side, &fill.Price, &fill.Size, &fill.Fee, &fill.Timestamp); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan fill", err)
		}

		fill.Side = types.Side(side)
		fills = append(fills, fill)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating fills", err)
	}

	return fills, nil
}

// GetAllTrades returns every recorded trade in exit-time order.
func (s *Store) GetAllTrades() ([]types.ClosedTrade, error) {
	rows, err := s.sq.
		Select(
			"trade_id", "side", "entry_price", "exit_price", "entry_time",
			"exit_time", "size", "fee", "pnl", "pnl_pct",
		).
		From("trades").
		OrderBy("exit_time ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.ClosedTrade

	for rows.Next() {
		var (
			trade types.ClosedTrade
			side  string
		)

		err := rows.Scan(
			&trade.ID, &side, &trade.EntryPrice, &trade.ExitPrice, &trade.EntryTime,
			&trade.ExitTime, &trade.Size, &trade.Fee, &trade.PnL, &trade.PnLPct,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.Side = types.Side(side)
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

// Write exports both tables to Parquet files under resultsDir, creating the
// directory if needed. It returns the trades and fills file paths.
func (s *Store) Write(resultsDir string) (tradesPath string, fillsPath string, err error) {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create results directory", err)
	}

	s.logger.Debug("exporting results", zap.String("dir", resultsDir))

	// COPY has no placeholder support; paths are interpolated.
	tradesPath = filepath.Join(resultsDir, "trades.parquet")
	_, err = s.db.Exec(fmt.Sprintf(`COPY trades TO '%s' (FORMAT PARQUET)`, escapePath(tradesPath)))
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to export trades", err)
	}

	fillsPath = filepath.Join(resultsDir, "fills.parquet")
	_, err = s.db.Exec(fmt.Sprintf(`COPY fills TO '%s' (FORMAT PARQUET)`, escapePath(fillsPath)))
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to export fills", err)
	}

	return tradesPath, fillsPath, nil
}

// Cleanup truncates both tables so the store can be reused for another run.
func (s *Store) Cleanup() error {
	if _, err := s.db.Exec(`DELETE FROM fills; DELETE FROM trades;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to clean up store", err)
	}

	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func escapePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
