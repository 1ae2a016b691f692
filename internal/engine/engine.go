// Package engine orchestrates backtest runs: it resolves a strategy from the
// registry, replays a tick source through it, and writes the run results.
package engine

import (
	"github.com/moznion/go-optional"

	"github.com/argus-quant/hftsim/internal/tickdata"
	"github.com/argus-quant/hftsim/internal/types"
)

// OnProgressCallback reports replay progress as processed and total tick
// counts. Total is 0 when the source cannot count ahead of time.
type OnProgressCallback func(processed int, total int)

// Engine runs one backtest at a time. Configure with Initialize and the
// setters, then call Run. An engine instance is not safe for concurrent use;
// run independent backtests on independent engines.
type Engine interface {
	// Initialize parses and validates a YAML run config.
	Initialize(configYAML string) error
	// SetTickSource sets the tick stream to replay.
	SetTickSource(source tickdata.TickSource)
	// SetDataPath points the tick source at a tick data file.
	SetDataPath(path string) error
	// SetResultsDir sets the directory run results are written to. Without
	// it, Run computes stats but persists nothing.
	SetResultsDir(dir string)
	// Run replays the tick source through the configured strategy and
	// returns the run summary.
	Run(onProgress optional.Option[OnProgressCallback]) (*types.RunStats, error)
}
