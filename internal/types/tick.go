package types

import (
	"time"
)

// Side is the direction of an order, fill, or tick aggressor.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}

	return SideBuy
}

// SideFromNumeric decodes the +1/-1 side encoding used in tick data files.
// Any non-negative value maps to BUY.
func SideFromNumeric(v int64) Side {
	if v < 0 {
		return SideSell
	}

	return SideBuy
}

// Numeric returns the +1/-1 encoding of the side.
func (s Side) Numeric() int64 {
	if s == SideSell {
		return -1
	}

	return 1
}

// Tick is one atomic price/volume/side observation, the unit of simulation
// time. Side denotes the aggressor side of the tick; it does not constrain
// which side a strategy may trade.
type Tick struct {
	// Timestamp is the tick time in nanoseconds since the Unix epoch.
	Timestamp int64   `yaml:"timestamp" json:"timestamp" csv:"timestamp"`
	Price     float64 `yaml:"price" json:"price" csv:"price"`
	Volume    float64 `yaml:"volume" json:"volume" csv:"volume"`
	Side      Side    `yaml:"side" json:"side" csv:"side"`
}

// Time converts the nanosecond timestamp to a UTC time.
func (t Tick) Time() time.Time {
	return time.Unix(0, t.Timestamp).UTC()
}
