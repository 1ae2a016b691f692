package engine

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/argus-quant/hftsim/internal/logger"
	"github.com/argus-quant/hftsim/internal/metrics"
	"github.com/argus-quant/hftsim/internal/report"
	"github.com/argus-quant/hftsim/internal/strategy"
	"github.com/argus-quant/hftsim/internal/tickdata"
	"github.com/argus-quant/hftsim/internal/types"
	"github.com/argus-quant/hftsim/internal/version"
	"github.com/argus-quant/hftsim/pkg/errors"
)

// progressInterval is how many ticks pass between progress callbacks.
const progressInterval = 1000

// EngineV1 is the single-threaded reference engine.
type EngineV1 struct {
	logger     *logger.Logger
	registry   strategy.Registry
	source     tickdata.TickSource
	resultsDir string

	config      RunConfig
	initialized bool
}

// NewEngineV1 creates an engine backed by the given strategy registry.
func NewEngineV1(l *logger.Logger, registry strategy.Registry) *EngineV1 {
	return &EngineV1{
		logger:   l,
		registry: registry,
	}
}

// Initialize implements Engine.
func (e *EngineV1) Initialize(configYAML string) error {
	cfg, err := ParseRunConfig(configYAML)
	if err != nil {
		return err
	}

	if err := version.CheckVersionCompatibility(version.GetVersion(), cfg.Version); err != nil {
		return err
	}

	e.config = cfg
	e.initialized = true

	return nil
}

// SetTickSource implements Engine.
func (e *EngineV1) SetTickSource(source tickdata.TickSource) {
	e.source = source
}

// SetDataPath implements Engine.
func (e *EngineV1) SetDataPath(path string) error {
	if e.source == nil {
		return errors.New(errors.ErrCodeBacktestDataPathError, "no tick source configured")
	}

	if err := e.source.Initialize(path); err != nil {
		return err
	}

	e.config.DataPath = path

	return nil
}

// SetResultsDir implements Engine.
func (e *EngineV1) SetResultsDir(dir string) {
	e.resultsDir = dir
}

// Run implements Engine.
func (e *EngineV1) Run(onProgress optional.Option[OnProgressCallback]) (*types.RunStats, error) {
	if !e.initialized {
		return nil, errors.New(errors.ErrCodeBacktestConfigError, "engine is not initialized")
	}

	if e.source == nil {
		return nil, errors.New(errors.ErrCodeBacktestDataPathError, "no tick source configured")
	}

	strategyConfigYAML, err := e.config.StrategyConfigYAML()
	if err != nil {
		return nil, err
	}

	strat, err := e.registry.Create(e.config.Strategy, strategyConfigYAML)
	if err != nil {
		return nil, err
	}

	total, err := e.source.Count()
	if err != nil {
		return nil, err
	}

	e.logger.Info("starting backtest",
		zap.String("strategy", e.config.Strategy),
		zap.String("data_path", e.config.DataPath),
		zap.Int("tick_count", total),
	)

	processed := 0

	var runErr error

	e.source.ReadAll()(func(tick types.Tick, err error) bool {
		if err != nil {
			runErr = err

			return false
		}

		if err := strat.OnTick(tick); err != nil {
			runErr = errors.Wrap(errors.ErrCodeStrategyRuntimeError, "strategy failed on tick", err)

			return false
		}

		processed++
		if onProgress.IsSome() && processed%progressInterval == 0 {
			onProgress.Unwrap()(processed, total)
		}

		return true
	})

	if runErr != nil {
		return nil, runErr
	}

	if onProgress.IsSome() {
		onProgress.Unwrap()(processed, total)
	}

	stats, err := e.composeStats(strat, processed)
	if err != nil {
		return nil, err
	}

	if e.resultsDir != "" {
		if err := e.writeResults(strat, stats); err != nil {
			return nil, err
		}
	}

	e.logger.Info("backtest finished",
		zap.String("strategy", e.config.Strategy),
		zap.Int("fills", stats.FillCount),
		zap.Float64("final_balance", stats.FinalBalance),
		zap.Bool("halted", stats.Halted),
	)

	return stats, nil
}

func (e *EngineV1) composeStats(strat strategy.Strategy, tickCount int) (*types.RunStats, error) {
	acct := strat.Account()

	stats := &types.RunStats{
		ID:             uuid.New().String(),
		Timestamp:      time.Now().UTC(),
		Strategy:       strat.Name(),
		DataPath:       e.config.DataPath,
		InitialBalance: acct.Config().InitialBalance,
		FinalBalance:   acct.Balance(),
		FinalPosition:  acct.Position(),
		GrossPnL:       acct.GrossPnL(),
		Halted:         acct.Halted(),
		TickCount:      tickCount,
		FillCount:      len(acct.Fills()),
		OpenLotCount:   len(acct.OpenLots()),
	}

	summary, err := metrics.Compute(acct.Trades())
	switch {
	case err == nil:
		stats.Performance = summary
	case errors.HasCode(err, errors.ErrCodeNoTrades):
		// A run with no closed trades still produces a summary document.
	default:
		return nil, err
	}

	return stats, nil
}

func (e *EngineV1) writeResults(strat strategy.Strategy, stats *types.RunStats) error {
	store, err := report.NewStore(e.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		return err
	}

	acct := strat.Account()
	if err := store.RecordFills(acct.Fills()); err != nil {
		return err
	}

	if err := store.RecordTrades(acct.Trades()); err != nil {
		return err
	}

	tradesPath, fillsPath, err := store.Write(e.resultsDir)
	if err != nil {
		return err
	}

	stats.TradesFilePath = tradesPath
	stats.FillsFilePath = fillsPath

	statsPath := filepath.Join(e.resultsDir, "stats.yaml")
	if err := types.WriteRunStats(statsPath, *stats); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write run stats", err)
	}

	return nil
}
