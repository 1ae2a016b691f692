// Package tickdata provides ordered tick streams for backtest runs.
//
// The production source is DuckDB reading CSV or Parquet tick files; an
// in-memory slice source backs tests and programmatic runs.
package tickdata

import (
	"github.com/argus-quant/hftsim/internal/types"
)

// TickSource yields ticks in file order. Implementations do not reorder,
// dedupe, or validate monotonicity; the tick file is trusted as-is.
type TickSource interface {
	// Initialize points the source at a tick data file.
	Initialize(path string) error
	// ReadAll returns an iterator over every tick in file order.
	ReadAll() func(yield func(types.Tick, error) bool)
	// Count returns the total number of ticks available.
	Count() (int, error)
	// Close releases underlying resources.
	Close() error
}

// SliceSource is an in-memory TickSource over a fixed tick slice.
type SliceSource struct {
	ticks []types.Tick
}

// NewSliceSource creates a source that yields the given ticks in order.
func NewSliceSource(ticks []types.Tick) *SliceSource {
	return &SliceSource{ticks: ticks}
}

// Initialize implements TickSource. It is a no-op for an in-memory source.
func (s *SliceSource) Initialize(_ string) error { return nil }

// ReadAll implements TickSource.
func (s *SliceSource) ReadAll() func(yield func(types.Tick, error) bool) {
	return func(yield func(types.Tick, error) bool) {
		for _, tick := range s.ticks {
			if !yield(tick, nil) {
				return
			}
		}
	}
}

// Count implements TickSource.
func (s *SliceSource) Count() (int, error) { return len(s.ticks), nil }

// Close implements TickSource.
func (s *SliceSource) Close() error { return nil }
