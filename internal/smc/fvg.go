package smc

import "SMCSentinel/internal/model"

// DetectFairValueGaps scans every 3-candle pattern and reports the gap between the first
// candle and the third when it is at least minGapPct percent of the reference price.
//
// Bullish: low[i] > high[i-2], gap [high[i-2], low[i]], measured against high[i-2].
// Bearish: high[i] < low[i-2], gap [high[i], low[i-2]], measured against high[i].
// A zero reference price yields no gap.
func DetectFairValueGaps(candles []model.Candle, minGapPct float64) []model.FairValueGap {
	if len(candles) < 3 {
		return nil
	}

	var gaps []model.FairValueGap
	for i := 2; i < len(candles); i++ {
		first := candles[i-2]
		current := candles[i]

		if current.Low > first.High && first.High != 0 {
			gapPct := (current.Low - first.High) / first.High * 100
			if gapPct >= minGapPct {
				gaps = append(gaps, model.FairValueGap{
					Index:  i,
					Kind:   model.Bullish,
					Bottom: first.High,
					Top:    current.Low,
				})
			}
		}

		if current.High < first.Low && current.High != 0 {
			gapPct := (first.Low - current.High) / current.High * 100
			if gapPct >= minGapPct {
				gaps = append(gaps, model.FairValueGap{
					Index:  i,
					Kind:   model.Bearish,
					Bottom: current.High,
					Top:    first.Low,
				})
			}
		}
	}
	return gaps
}
