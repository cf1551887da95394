package smc

import "SMCSentinel/internal/model"

// Swings holds per-index pivot labels. Both slices have one entry per candle.
// A candle may carry a high and a low label at the same time.
type Swings struct {
	High []bool
	Low  []bool
}

// IsHigh reports whether candle i is a swing high. Out-of-range indices are never labeled.
func (s Swings) IsHigh(i int) bool { return i >= 0 && i < len(s.High) && s.High[i] }

// IsLow reports whether candle i is a swing low.
func (s Swings) IsLow(i int) bool { return i >= 0 && i < len(s.Low) && s.Low[i] }

// Points lists the labeled pivots in index order, highs before lows on a shared index.
func (s Swings) Points(candles []model.Candle) []model.SwingPoint {
	var points []model.SwingPoint
	for i := range candles {
		if s.IsHigh(i) {
			points = append(points, model.SwingPoint{Index: i, Price: candles[i].High, Kind: model.SwingHigh})
		}
		if s.IsLow(i) {
			points = append(points, model.SwingPoint{Index: i, Price: candles[i].Low, Kind: model.SwingLow})
		}
	}
	return points
}

// DetectSwings labels candle i a swing high when its high is strictly greater than every
// high in the `window` candles on each side, and a swing low when its low is strictly lower
// than every low on each side. Candles closer than `window` to either end are never labeled.
func DetectSwings(candles []model.Candle, window int) Swings {
	n := len(candles)
	swings := Swings{High: make([]bool, n), Low: make([]bool, n)}
	if window <= 0 || n < 2*window+1 {
		return swings
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}

	// maxHigh[j] is the max of highs[j..j+window-1]; the left side of candle i starts at
	// i-window and the right side at i+1.
	maxHigh := slidingExtreme(highs, window, func(back, x float64) bool { return back <= x })
	minLow := slidingExtreme(lows, window, func(back, x float64) bool { return back >= x })

	for i := window; i < n-window; i++ {
		if highs[i] > maxHigh[i-window] && highs[i] > maxHigh[i+1] {
			swings.High[i] = true
		}
		if lows[i] < minLow[i-window] && lows[i] < minLow[i+1] {
			swings.Low[i] = true
		}
	}
	return swings
}

// slidingExtreme returns the extreme of every width-w window of v using a monotonic deque.
// dominated(back, x) reports whether the value at the back of the deque can never be the
// extreme again once x has arrived.
func slidingExtreme(v []float64, w int, dominated func(back, x float64) bool) []float64 {
	out := make([]float64, len(v)-w+1)
	deque := make([]int, 0, len(v))
	head := 0
	for i, x := range v {
		for len(deque) > head && dominated(v[deque[len(deque)-1]], x) {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		if deque[head] <= i-w {
			head++
		}
		if i >= w-1 {
			out[i-w+1] = v[deque[head]]
		}
	}
	return out
}
