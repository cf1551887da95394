package smc

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"SMCSentinel/internal/model"
)

// DefaultVolumeLookback is used when a non-positive lookback is given.
const DefaultVolumeLookback = 20

// AverageVolume returns the trailing mean volume for every candle. Candle i averages
// candles max(0, i-lookback+1)..i, so the first values use a shorter window.
func AverageVolume(candles []model.Candle, lookback int) []float64 {
	if lookback <= 0 {
		lookback = DefaultVolumeLookback
	}
	n := len(candles)
	avg := make([]float64, n)
	if n == 0 {
		return avg
	}

	volumes := make([]float64, n)
	for i, c := range candles {
		volumes[i] = c.Volume
	}

	// Warm-up bars average whatever history exists.
	sum := 0.0
	warmup := lookback - 1
	if warmup > n {
		warmup = n
	}
	for i := 0; i < warmup; i++ {
		sum += volumes[i]
		avg[i] = sum / float64(i+1)
	}
	if n < lookback {
		return avg
	}

	sma := trend.NewSmaWithPeriod[float64](lookback)
	full := helper.ChanToSlice(sma.Compute(helper.SliceToChan(volumes)))
	copy(avg[lookback-1:], full)
	return avg
}
