package strategy

import (
	"math"
	"time"

	"SMCSentinel/internal/model"
)

var scenarioStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// scenarioCandles builds 41 hourly candles: a gentle hump peaking at bar 10, a high volume
// flush to 95 at bar 20, then a steady climb of one point per bar.
func scenarioCandles() []model.Candle {
	out := make([]model.Candle, 41)
	for i := range out {
		var mid float64
		switch {
		case i < 20:
			mid = 103 - math.Abs(float64(i-10))*0.3
		default:
			mid = 99 + float64(i-20)
		}
		out[i] = model.Candle{
			Time:   scenarioStart.Add(time.Duration(i) * time.Hour),
			Open:   mid - 0.2,
			High:   mid + 0.5,
			Low:    mid - 0.5,
			Close:  mid + 0.2,
			Volume: 1000,
		}
	}
	out[20] = model.Candle{
		Time:   scenarioStart.Add(20 * time.Hour),
		Open:   100.3,
		High:   100.5,
		Low:    95,
		Close:  99,
		Volume: 3000,
	}
	return out
}
