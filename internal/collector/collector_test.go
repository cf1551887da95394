package collector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMCSentinel/internal/model"
	"SMCSentinel/internal/smc"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func candleAt(h int, price float64) model.Candle {
	return model.Candle{
		Time:   t0.Add(time.Duration(h) * time.Hour),
		Open:   price,
		High:   price + 1,
		Low:    price - 1,
		Close:  price,
		Volume: 100,
	}
}

func TestSanitize(t *testing.T) {
	nan := candleAt(3, 10)
	nan.Close = math.NaN()
	inf := candleAt(4, 10)
	inf.High = math.Inf(1)
	zero := candleAt(5, 10)
	zero.Low = 0
	negVol := candleAt(6, 10)
	negVol.Volume = -1

	dupFirst := candleAt(1, 10)
	dupLast := candleAt(1, 11)

	in := []model.Candle{candleAt(2, 12), dupFirst, nan, candleAt(0, 9), inf, dupLast, zero, negVol}
	out, dropped := Sanitize(in)

	require.Len(t, out, 3)
	assert.Equal(t, 5, dropped)
	assert.Equal(t, t0, out[0].Time)
	assert.Equal(t, dupLast, out[1])
	assert.Equal(t, t0.Add(2*time.Hour), out[2].Time)

	// input untouched
	assert.Equal(t, candleAt(2, 12), in[0])
}

func TestSanitize_Empty(t *testing.T) {
	out, dropped := Sanitize(nil)
	assert.Empty(t, out)
	assert.Zero(t, dropped)
}

func TestMockFetcher_Reproducible(t *testing.T) {
	m := &MockFetcher{Seed: 7, End: t0}
	ctx := context.Background()

	a, err := m.FetchBars(ctx, "BTC-USD", "1h", 50)
	require.NoError(t, err)
	b, err := m.FetchBars(ctx, "BTC-USD", "1h", 50)
	require.NoError(t, err)
	other, err := m.FetchBars(ctx, "ETH-USD", "1h", 50)
	require.NoError(t, err)

	require.Len(t, a, 50)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[10].Close, other[10].Close)
	assert.Equal(t, t0, a[49].Time)
	assert.Equal(t, t0.Add(-49*time.Hour), a[0].Time)
	for _, c := range a {
		assert.GreaterOrEqual(t, c.High, math.Max(c.Open, c.Close))
		assert.LessOrEqual(t, c.Low, math.Min(c.Open, c.Close))
	}
}

func TestMockFetcher_FixedDataAndErrors(t *testing.T) {
	data := []model.Candle{candleAt(0, 10), candleAt(1, 11), candleAt(2, 12)}
	m := &MockFetcher{Data: map[string][]model.Candle{"X": data}}

	got, err := m.FetchBars(context.Background(), "X", "1h", 2)
	require.NoError(t, err)
	assert.Equal(t, data[1:], got)

	boom := errors.New("boom")
	_, err = (&MockFetcher{Err: boom}).FetchBars(context.Background(), "X", "1h", 2)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.FetchBars(ctx, "X", "1h", 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestCollector(f Fetcher) *Collector {
	return NewCollector(f, "1h", 120, smc.DefaultParams(), zerolog.Nop())
}

func TestCollector_Analyze(t *testing.T) {
	c := newTestCollector(&MockFetcher{Seed: 1, End: t0})

	r, err := c.Analyze(context.Background(), "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD", r.Symbol)
	assert.Equal(t, "1h", r.Interval)
	assert.Equal(t, 120, r.Bars)
	assert.Equal(t, t0, r.LastBarTime)
	assert.GreaterOrEqual(t, r.Score.Score, -100)
	assert.LessOrEqual(t, r.Score.Score, 100)

	again, err := c.Analyze(context.Background(), "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, r.Summary, again.Summary)
	assert.Equal(t, r.Score, again.Score)
}

func TestCollector_AnalyzeNoData(t *testing.T) {
	bad := candleAt(0, 10)
	bad.Close = 0
	c := newTestCollector(&MockFetcher{Data: map[string][]model.Candle{"X": {bad}}})

	_, err := c.Analyze(context.Background(), "X")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = c.Analyze(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoData)
}

type selectiveFetcher struct {
	MockFetcher
	fail map[string]error
}

func (s *selectiveFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if err, ok := s.fail[symbol]; ok {
		return nil, err
	}
	return s.MockFetcher.FetchBars(ctx, symbol, interval, limit)
}

func TestCollector_AnalyzeAll(t *testing.T) {
	down := errors.New("upstream down")
	f := &selectiveFetcher{
		MockFetcher: MockFetcher{Seed: 3, End: t0},
		fail:        map[string]error{"DOGE-USD": down},
	}
	c := newTestCollector(f)

	symbols := []string{"BTC-USD", "DOGE-USD", "ETH-USD"}
	results := c.AnalyzeAll(context.Background(), symbols)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, symbols[i], r.Symbol)
	}
	require.NoError(t, results[0].Err)
	assert.Equal(t, "BTC-USD", results[0].Report.Symbol)
	assert.ErrorIs(t, results[1].Err, down)
	assert.Nil(t, results[1].Report)
	require.NoError(t, results[2].Err)
	assert.Equal(t, "ETH-USD", results[2].Report.Symbol)
}
