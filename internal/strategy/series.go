package strategy

import (
	"time"

	"SMCSentinel/internal/model"
	"SMCSentinel/internal/smc"
)

// MinScoringBars is the history a bar needs before ScoreSeries scores it.
const MinScoringBars = 20

// ScoreSeries scores every bar of an analysis from the windows ending at that bar.
// Bars with less than MinScoringBars of history get the neutral result. Swing labels use
// later candles, so the score at bar i is not what a live run at bar i would have seen.
func ScoreSeries(a *smc.Analysis) []model.ScoreResult {
	out := make([]model.ScoreResult, len(a.Candles))
	neutral := Score(model.AnalysisSummary{CurrentTrend: model.TrendNeutral})
	for i := range a.Candles {
		if i < MinScoringBars {
			out[i] = neutral
			continue
		}
		out[i] = Score(a.SummaryAt(i))
	}
	return out
}

// BuildReport scores the last bar of an analysis and collects the order blocks and gaps
// inside the summary windows, order blocks first.
func BuildReport(symbol, interval string, a *smc.Analysis) *model.Report {
	last := len(a.Candles) - 1
	summary := a.Summary()
	r := &model.Report{
		Symbol:      symbol,
		Interval:    interval,
		Bars:        len(a.Candles),
		Summary:     summary,
		Score:       Score(summary),
		GeneratedAt: time.Now(),
	}
	for _, ob := range a.RecentOrderBlocks(last) {
		r.Zones = append(r.Zones, model.Zone{
			Type: model.ZoneOrderBlock, Direction: ob.Kind, Index: ob.Index,
			Time: a.Candles[ob.Index].Time, Low: ob.Low, High: ob.High,
		})
	}
	for _, g := range a.RecentFairValueGaps(last) {
		r.Zones = append(r.Zones, model.Zone{
			Type: model.ZoneFairValueGap, Direction: g.Kind, Index: g.Index,
			Time: a.Candles[g.Index].Time, Low: g.Bottom, High: g.Top,
		})
	}
	if last >= 0 {
		r.LastBarTime = a.Candles[last].Time
	}
	if p, ok := a.LastSwing(model.SwingHigh, last); ok {
		r.LastSwingHigh = &p
	}
	if p, ok := a.LastSwing(model.SwingLow, last); ok {
		r.LastSwingLow = &p
	}
	return r
}
