package smc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMCSentinel/internal/model"
)

// bruteForceSwings is the direct definition: compare against every neighbour on both sides.
func bruteForceSwings(candles []model.Candle, window int) Swings {
	n := len(candles)
	s := Swings{High: make([]bool, n), Low: make([]bool, n)}
	if window <= 0 || n < 2*window+1 {
		return s
	}
	for i := window; i < n-window; i++ {
		isHigh, isLow := true, true
		for j := 1; j <= window; j++ {
			if candles[i].High <= candles[i-j].High || candles[i].High <= candles[i+j].High {
				isHigh = false
			}
			if candles[i].Low >= candles[i-j].Low || candles[i].Low >= candles[i+j].Low {
				isLow = false
			}
		}
		s.High[i] = isHigh
		s.Low[i] = isLow
	}
	return s
}

func TestDetectSwings_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 300; trial++ {
		n := rng.Intn(90)
		window := 1 + rng.Intn(7)
		candles := randomWalk(rng, n)

		got := DetectSwings(candles, window)
		want := bruteForceSwings(candles, window)
		require.Equal(t, want, got, "trial %d n=%d window=%d", trial, n, window)
	}
}

func TestDetectSwings_StrictNeighbourhood(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	candles := randomWalk(rng, 500)
	const w = 4
	swings := DetectSwings(candles, w)

	for i := range candles {
		for j := i - w; j <= i+w; j++ {
			if j == i || j < 0 || j >= len(candles) {
				continue
			}
			if swings.IsHigh(i) {
				assert.Greater(t, candles[i].High, candles[j].High, "swing high %d vs %d", i, j)
			}
			if swings.IsLow(i) {
				assert.Less(t, candles[i].Low, candles[j].Low, "swing low %d vs %d", i, j)
			}
		}
	}
}

func TestDetectSwings_Boundary(t *testing.T) {
	const w = 3
	peak := bars(
		[2]float64{10, 9}, [2]float64{11, 10}, [2]float64{12, 11},
		[2]float64{20, 1},
		[2]float64{12, 11}, [2]float64{11, 10}, [2]float64{10, 9},
	)

	short := DetectSwings(peak[:2*w], w)
	assert.Len(t, short.High, 2*w)
	assert.Empty(t, short.Points(peak[:2*w]))

	exact := DetectSwings(peak, w)
	labeled := 0
	for i := range peak {
		if exact.IsHigh(i) || exact.IsLow(i) {
			labeled++
			assert.Equal(t, w, i)
		}
	}
	assert.LessOrEqual(t, labeled, 1)
}

func TestDetectSwings_EqualNeighbourDisqualifies(t *testing.T) {
	candles := bars(
		[2]float64{10, 5}, [2]float64{12, 6}, [2]float64{12, 7},
		[2]float64{11, 6}, [2]float64{10, 5},
	)
	swings := DetectSwings(candles, 1)
	assert.False(t, swings.IsHigh(1))
	assert.False(t, swings.IsHigh(2))
}

// A wide bar can be a local high and a local low at once for short windows. Both labels are kept.
func TestDetectSwings_BarCanBeHighAndLow(t *testing.T) {
	candles := bars([2]float64{10, 5}, [2]float64{12, 3}, [2]float64{11, 4})
	swings := DetectSwings(candles, 1)
	assert.True(t, swings.IsHigh(1))
	assert.True(t, swings.IsLow(1))

	points := swings.Points(candles)
	require.Len(t, points, 2)
	assert.Equal(t, model.SwingPoint{Index: 1, Price: 12, Kind: model.SwingHigh}, points[0])
	assert.Equal(t, model.SwingPoint{Index: 1, Price: 3, Kind: model.SwingLow}, points[1])
}

func TestDetectSwings_NonPositiveWindow(t *testing.T) {
	candles := randomWalk(rand.New(rand.NewSource(1)), 30)
	for _, w := range []int{0, -3} {
		s := DetectSwings(candles, w)
		assert.Empty(t, s.Points(candles))
		assert.Len(t, s.Low, len(candles))
	}
}

func TestSwings_OutOfRange(t *testing.T) {
	var s Swings
	assert.False(t, s.IsHigh(-1))
	assert.False(t, s.IsLow(3))
}

func BenchmarkDetectSwings(b *testing.B) {
	candles := randomWalk(rand.New(rand.NewSource(3)), 5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectSwings(candles, 10)
	}
}
