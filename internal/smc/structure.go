package smc

import "SMCSentinel/internal/model"

// StructureState is the market structure state machine threaded through one pass.
// The zero value is the initial state: neutral with no swing references.
type StructureState struct {
	Trend         model.Trend
	LastSwingHigh float64
	LastSwingLow  float64
	HasSwingHigh  bool
	HasSwingLow   bool
}

// Transition advances the state by one candle. The candle's own swing labels update the
// references before the break checks run. A break above is checked before a break below,
// so a candle that breaks both sides resolves bullish.
func Transition(state StructureState, c model.Candle, swingHigh, swingLow bool) (StructureState, model.StructureKind, bool) {
	if state.Trend == "" {
		state.Trend = model.TrendNeutral
	}
	if swingHigh {
		state.LastSwingHigh = c.High
		state.HasSwingHigh = true
	}
	if swingLow {
		state.LastSwingLow = c.Low
		state.HasSwingLow = true
	}
	if !state.HasSwingHigh || !state.HasSwingLow {
		return state, "", false
	}

	breaksAbove := c.High > state.LastSwingHigh
	breaksBelow := c.Low < state.LastSwingLow

	switch state.Trend {
	case model.TrendDown:
		if breaksAbove {
			state.Trend = model.TrendUp
			return state, model.MSBBullish, true
		}
		if breaksBelow {
			return state, model.BoSBearish, true
		}
	default:
		if breaksAbove {
			state.Trend = model.TrendUp
			return state, model.BoSBullish, true
		}
		if breaksBelow {
			state.Trend = model.TrendDown
			return state, model.MSBBearish, true
		}
	}
	return state, "", false
}

// Structure is the tracker output: the trend after every candle and the breaks in index order.
type Structure struct {
	Trends []model.Trend
	Events []model.StructureEvent
}

// TrendAt returns the trend after candle i, or neutral outside the sequence.
func (s Structure) TrendAt(i int) model.Trend {
	if i < 0 || i >= len(s.Trends) {
		return model.TrendNeutral
	}
	return s.Trends[i]
}

// TrackStructure runs the state machine over the whole sequence.
func TrackStructure(candles []model.Candle, swings Swings) Structure {
	out := Structure{Trends: make([]model.Trend, len(candles))}
	var state StructureState
	for i, c := range candles {
		var kind model.StructureKind
		var fired bool
		state, kind, fired = Transition(state, c, swings.IsHigh(i), swings.IsLow(i))
		if fired {
			out.Events = append(out.Events, model.StructureEvent{Index: i, Kind: kind})
		}
		out.Trends[i] = state.Trend
	}
	return out
}
