package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"SMCSentinel/internal/model"
	"SMCSentinel/internal/smc"
	"SMCSentinel/internal/strategy"
)

// ErrNoData is returned when a fetch yields no usable bars.
var ErrNoData = errors.New("no usable bars")

// Collector fetches bars and runs the SMC analysis for symbols.
type Collector struct {
	Fetcher  Fetcher
	Interval string
	Bars     int
	Params   smc.Params
	logger   zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, interval string, bars int, params smc.Params, logger zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Interval: interval,
		Bars:     bars,
		Params:   params,
		logger:   logger.With().Str("component", "collector").Logger(),
	}
}

// Result is the outcome of analysing one symbol.
type Result struct {
	Symbol string
	Report *model.Report
	Err    error
}

// Analyze fetches the configured number of bars for symbol and builds a report.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*model.Report, error) {
	raw, err := c.Fetcher.FetchBars(ctx, symbol, c.Interval, c.Bars)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, c.Interval, err)
	}

	bars, dropped := Sanitize(raw)
	if dropped > 0 {
		c.logger.Warn().Str("symbol", symbol).Int("dropped", dropped).Int("kept", len(bars)).Msg("dropped unusable bars")
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	if len(bars) < c.Params.MinBars() {
		c.logger.Warn().Str("symbol", symbol).Int("bars", len(bars)).Int("min", c.Params.MinBars()).
			Msg("too few bars for swing detection")
	}

	a := smc.Analyze(bars, c.Params)
	report := strategy.BuildReport(symbol, c.Interval, a)

	c.logger.Info().
		Str("symbol", symbol).
		Int("bars", report.Bars).
		Str("trend", string(report.Summary.CurrentTrend)).
		Int("score", report.Score.Score).
		Str("signal", string(report.Score.Signal)).
		Msg("analysis complete")
	return report, nil
}

// AnalyzeAll analyses every symbol concurrently. Results keep the order of symbols and a
// failing symbol does not affect the others.
func (c *Collector) AnalyzeAll(ctx context.Context, symbols []string) []Result {
	results := make([]Result, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			report, err := c.Analyze(ctx, symbol)
			if err != nil {
				c.logger.Error().Err(err).Str("symbol", symbol).Msg("analysis failed")
			}
			results[i] = Result{Symbol: symbol, Report: report, Err: err}
		}(i, symbol)
	}
	wg.Wait()
	return results
}

// Sanitize drops bars with a non-finite or non-positive price or an invalid volume, sorts
// the rest by time and keeps the last bar for each duplicate timestamp. The input is not
// modified.
func Sanitize(bars []model.Candle) ([]model.Candle, int) {
	clean := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		if validPrice(b.Open) && validPrice(b.High) && validPrice(b.Low) && validPrice(b.Close) &&
			!math.IsNaN(b.Volume) && !math.IsInf(b.Volume, 0) && b.Volume >= 0 {
			clean = append(clean, b)
		}
	}
	sort.SliceStable(clean, func(i, j int) bool { return clean[i].Time.Before(clean[j].Time) })

	out := clean[:0]
	for _, b := range clean {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out, len(bars) - len(out)
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
