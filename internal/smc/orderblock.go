package smc

import "SMCSentinel/internal/model"

const (
	// ConfirmationBars is how many candles after a swing must exist before an order block
	// at that swing can be confirmed.
	ConfirmationBars = 3

	bullishDisplacement = 1.01
	bearishDisplacement = 0.99
)

// DetectOrderBlocks finds swing candles traded on at least volumeMultiplier times the
// trailing average volume that were followed, within ConfirmationBars candles, by a move of
// more than 1% away from the candle's range. Swing lows produce bullish blocks, swing highs
// bearish ones. The last ConfirmationBars candles never carry a block.
func DetectOrderBlocks(candles []model.Candle, swings Swings, volumeMultiplier float64, lookback int) []model.OrderBlock {
	n := len(candles)
	if n <= ConfirmationBars {
		return nil
	}
	avgVolume := AverageVolume(candles, lookback)

	var blocks []model.OrderBlock
	for i := 1; i+ConfirmationBars < n; i++ {
		c := candles[i]
		if !swings.IsLow(i) && !swings.IsHigh(i) {
			continue
		}
		if c.Volume < avgVolume[i]*volumeMultiplier {
			continue
		}

		if swings.IsLow(i) && futureMaxHigh(candles, i) > c.High*bullishDisplacement {
			blocks = append(blocks, model.OrderBlock{Index: i, Kind: model.Bullish, Low: c.Low, High: c.High})
		}
		if swings.IsHigh(i) && futureMinLow(candles, i) < c.Low*bearishDisplacement {
			blocks = append(blocks, model.OrderBlock{Index: i, Kind: model.Bearish, Low: c.Low, High: c.High})
		}
	}
	return blocks
}

func futureMaxHigh(candles []model.Candle, i int) float64 {
	m := candles[i+1].High
	for j := i + 2; j <= i+ConfirmationBars; j++ {
		if candles[j].High > m {
			m = candles[j].High
		}
	}
	return m
}

func futureMinLow(candles []model.Candle, i int) float64 {
	m := candles[i+1].Low
	for j := i + 2; j <= i+ConfirmationBars; j++ {
		if candles[j].Low < m {
			m = candles[j].Low
		}
	}
	return m
}
