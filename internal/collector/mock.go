package collector

import (
	"context"
	"math"
	"math/rand"
	"time"

	"SMCSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing. Without Data it
// generates a random walk seeded from Seed and the symbol, so each symbol gets its own
// reproducible series.
type MockFetcher struct {
	Price float64
	Seed  int64
	Data  map[string][]model.Candle
	Err   error
	// End is the open time of the newest generated bar. Zero means the current period.
	End time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data != nil {
		bars := m.Data[symbol]
		if limit > 0 && len(bars) > limit {
			bars = bars[len(bars)-limit:]
		}
		return bars, nil
	}
	period, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC().Truncate(period)
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	return generateMockBars(m.Seed+symbolSeed(symbol), price, end, period, limit), nil
}

func symbolSeed(symbol string) int64 {
	var h int64
	for _, r := range symbol {
		h = h*31 + int64(r)
	}
	return h
}

func generateMockBars(seed int64, basePrice float64, end time.Time, period time.Duration, count int) []model.Candle {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.Candle, count)
	p := basePrice
	for i := 0; i < count; i++ {
		open := p
		p *= 1 + rng.NormFloat64()*0.008
		wick := p * 0.004
		volume := 1000 + rng.Float64()*500
		if rng.Intn(12) == 0 {
			volume *= 3
		}
		bars[i] = model.Candle{
			Time:   end.Add(-time.Duration(count-1-i) * period),
			Open:   open,
			High:   math.Max(open, p) + wick*rng.Float64(),
			Low:    math.Min(open, p) - wick*rng.Float64(),
			Close:  p,
			Volume: volume,
		}
	}
	return bars
}
