package smc

import (
	"sort"
	"sync"

	"SMCSentinel/internal/model"
)

// Trailing window sizes used by the summary, each inclusive of the bar being summarised.
const (
	OrderBlockWindow = 20
	FVGWindow        = 10
	StructureWindow  = 5
)

// Analysis is the annotated result of one pass over a candle sequence.
type Analysis struct {
	Candles       []model.Candle
	Params        Params
	Swings        Swings
	OrderBlocks   []model.OrderBlock
	FairValueGaps []model.FairValueGap
	Structure     Structure
}

// Analyze runs every detector over candles. The fair value gap scan has no dependency on
// the swing labels and runs in its own goroutine.
func Analyze(candles []model.Candle, p Params) *Analysis {
	a := &Analysis{Candles: candles, Params: p}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.FairValueGaps = DetectFairValueGaps(candles, p.FVGMinGapPct)
	}()

	a.Swings = DetectSwings(candles, p.SwingWindow)
	a.OrderBlocks = DetectOrderBlocks(candles, a.Swings, p.OBVolumeMultiplier, p.OBLookback)
	a.Structure = TrackStructure(candles, a.Swings)

	wg.Wait()
	return a
}

// Summary summarises the windows ending at the last candle.
func (a *Analysis) Summary() model.AnalysisSummary {
	return a.SummaryAt(len(a.Candles) - 1)
}

// SummaryAt summarises the windows ending at candle i.
func (a *Analysis) SummaryAt(i int) model.AnalysisSummary {
	s := model.AnalysisSummary{CurrentTrend: model.TrendNeutral}
	if i < 0 || i >= len(a.Candles) {
		return s
	}
	s.CurrentPrice = a.Candles[i].Close
	s.CurrentTrend = a.Structure.TrendAt(i)

	for _, ob := range a.RecentOrderBlocks(i) {
		if ob.Kind == model.Bullish {
			s.BullishOrderBlocks++
		} else {
			s.BearishOrderBlocks++
		}
	}
	for _, g := range a.RecentFairValueGaps(i) {
		if g.Kind == model.Bullish {
			s.BullishFVGs++
		} else {
			s.BearishFVGs++
		}
	}
	lo, hi := windowBounds(i, StructureWindow)
	for _, e := range within(a.Structure.Events, func(e model.StructureEvent) int { return e.Index }, lo, hi) {
		switch e.Kind {
		case model.MSBBullish:
			s.MSBBullishRecent++
		case model.MSBBearish:
			s.MSBBearishRecent++
		case model.BoSBullish:
			s.BoSBullishRecent++
		case model.BoSBearish:
			s.BoSBearishRecent++
		}
	}

	s.BullishSignals = s.BullishOrderBlocks + s.BullishFVGs + s.BoSBullishRecent
	s.BearishSignals = s.BearishOrderBlocks + s.BearishFVGs + s.BoSBearishRecent
	return s
}

// RecentOrderBlocks returns the order blocks in the OrderBlockWindow ending at candle i.
func (a *Analysis) RecentOrderBlocks(i int) []model.OrderBlock {
	lo, hi := windowBounds(i, OrderBlockWindow)
	return within(a.OrderBlocks, func(ob model.OrderBlock) int { return ob.Index }, lo, hi)
}

// RecentFairValueGaps returns the gaps in the FVGWindow ending at candle i.
func (a *Analysis) RecentFairValueGaps(i int) []model.FairValueGap {
	lo, hi := windowBounds(i, FVGWindow)
	return within(a.FairValueGaps, func(g model.FairValueGap) int { return g.Index }, lo, hi)
}

// LastSwing returns the most recent pivot of the given kind at or before candle i.
func (a *Analysis) LastSwing(kind model.SwingKind, i int) (model.SwingPoint, bool) {
	if i >= len(a.Candles) {
		i = len(a.Candles) - 1
	}
	for j := i; j >= 0; j-- {
		switch {
		case kind == model.SwingHigh && a.Swings.IsHigh(j):
			return model.SwingPoint{Index: j, Price: a.Candles[j].High, Kind: kind}, true
		case kind == model.SwingLow && a.Swings.IsLow(j):
			return model.SwingPoint{Index: j, Price: a.Candles[j].Low, Kind: kind}, true
		}
	}
	return model.SwingPoint{}, false
}

func windowBounds(i, size int) (lo, hi int) {
	lo = i - size + 1
	if lo < 0 {
		lo = 0
	}
	return lo, i
}

// within returns the sub-slice of index-ordered items whose index lies in [lo, hi].
func within[T any](items []T, index func(T) int, lo, hi int) []T {
	start := sort.Search(len(items), func(k int) bool { return index(items[k]) >= lo })
	end := sort.Search(len(items), func(k int) bool { return index(items[k]) > hi })
	if start >= end {
		return nil
	}
	return items[start:end]
}
