package smc

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidWindow           = errors.New("swing window must be positive")
	ErrInvalidVolumeMultiplier = errors.New("order block volume multiplier must be positive")
	ErrInvalidLookback         = errors.New("order block lookback must be positive")
	ErrInvalidGapPct           = errors.New("fair value gap minimum must be non-negative")
)

// Params configures one analysis run.
type Params struct {
	SwingWindow        int     `yaml:"swing_window"`
	OBVolumeMultiplier float64 `yaml:"ob_volume_multiplier"`
	OBLookback         int     `yaml:"ob_lookback"`
	FVGMinGapPct       float64 `yaml:"fvg_min_gap_pct"`
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		SwingWindow:        5,
		OBVolumeMultiplier: 1.5,
		OBLookback:         20,
		FVGMinGapPct:       0.5,
	}
}

// MinBars is the number of candles needed before any swing can be labeled.
func (p Params) MinBars() int { return 2*p.SwingWindow + 1 }

// Validate checks the parameters. Detectors accept any values; this is for config boundaries.
func (p Params) Validate() error {
	if p.SwingWindow <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, p.SwingWindow)
	}
	if !(p.OBVolumeMultiplier > 0) || math.IsInf(p.OBVolumeMultiplier, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidVolumeMultiplier, p.OBVolumeMultiplier)
	}
	if p.OBLookback <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLookback, p.OBLookback)
	}
	if !(p.FVGMinGapPct >= 0) || math.IsInf(p.FVGMinGapPct, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidGapPct, p.FVGMinGapPct)
	}
	return nil
}

// Lag is how many trailing candles may still change when a candle is appended: swing labels
// need SwingWindow later candles and order blocks need ConfirmationBars. Annotations at
// indices below len(candles)-Lag() are final.
func (p Params) Lag() int {
	if p.SwingWindow > ConfirmationBars {
		return p.SwingWindow
	}
	return ConfirmationBars
}
