package smc

import (
	"math"
	"math/rand"
	"time"

	"SMCSentinel/internal/model"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func bar(i int, high, low float64) model.Candle {
	return model.Candle{
		Time:   testStart.Add(time.Duration(i) * time.Hour),
		Open:   (high + low) / 2,
		High:   high,
		Low:    low,
		Close:  (high + low) / 2,
		Volume: 1000,
	}
}

func bars(hl ...[2]float64) []model.Candle {
	out := make([]model.Candle, len(hl))
	for i, v := range hl {
		out[i] = bar(i, v[0], v[1])
	}
	return out
}

// randomWalk builds a valid OHLCV series. Prices are rounded to a 0.5 tick so equal
// highs and lows show up often.
func randomWalk(rng *rand.Rand, n int) []model.Candle {
	out := make([]model.Candle, n)
	price := 100.0
	for i := range out {
		open := price
		price += rng.NormFloat64() * 2
		if price < 5 {
			price = 5
		}
		closePrice := price
		high := math.Max(open, closePrice) + math.Abs(rng.NormFloat64())
		low := math.Min(open, closePrice) - math.Abs(rng.NormFloat64())
		out[i] = model.Candle{
			Time:   testStart.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   math.Round(high*2) / 2,
			Low:    math.Round(low*2) / 2,
			Close:  closePrice,
			Volume: float64(500 + rng.Intn(4500)),
		}
	}
	return out
}
