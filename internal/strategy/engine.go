package strategy

import "SMCSentinel/internal/model"

// Component weights. Each count-based component is clamped to ±cap before summing.
const (
	trendPoints = 30

	orderBlockStep = 10
	orderBlockCap  = 20
	fvgStep        = 10
	fvgCap         = 20
	msbStep        = 15
	msbCap         = 15
	bosStep        = 15
	bosCap         = 15
)

// Interpretations carries the fixed text for every signal.
var Interpretations = map[model.Signal]string{
	model.SignalStrongBuy:  "Strong bullish SMC confluence",
	model.SignalBuy:        "Bullish SMC setup",
	model.SignalNeutral:    "Mixed SMC signals",
	model.SignalSell:       "Bearish SMC setup",
	model.SignalStrongSell: "Strong bearish SMC confluence",
}

// mapSignal buckets a score. Bullish thresholds are inclusive from below, bearish ones
// from above: -30 is SELL and -60 is STRONG_SELL.
func mapSignal(score int) model.Signal {
	switch {
	case score >= 60:
		return model.SignalStrongBuy
	case score >= 30:
		return model.SignalBuy
	case score > -30:
		return model.SignalNeutral
	case score > -60:
		return model.SignalSell
	default:
		return model.SignalStrongSell
	}
}

// Score reduces a summary to a score in [-100, 100] and its signal.
func Score(s model.AnalysisSummary) model.ScoreResult {
	score := trendScore(s.CurrentTrend)
	score += clamp((s.BullishOrderBlocks-s.BearishOrderBlocks)*orderBlockStep, orderBlockCap)
	score += clamp((s.BullishFVGs-s.BearishFVGs)*fvgStep, fvgCap)
	score += clamp((s.MSBBullishRecent-s.MSBBearishRecent)*msbStep, msbCap)
	score += clamp((s.BoSBullishRecent-s.BoSBearishRecent)*bosStep, bosCap)

	signal := mapSignal(score)
	return model.ScoreResult{Score: score, Signal: signal, Interpretation: Interpretations[signal]}
}

func trendScore(t model.Trend) int {
	switch t {
	case model.TrendUp:
		return trendPoints
	case model.TrendDown:
		return -trendPoints
	default:
		return 0
	}
}

func clamp(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
