package model

import "time"

// AnalysisSummary aggregates SMC annotations over the trailing windows ending at one bar.
// Field names are shared with every consumer of the analysis and must not change.
type AnalysisSummary struct {
	CurrentPrice       float64 `json:"current_price"`
	CurrentTrend       Trend   `json:"current_trend"`
	BullishOrderBlocks int     `json:"bullish_order_blocks"`
	BearishOrderBlocks int     `json:"bearish_order_blocks"`
	BullishFVGs        int     `json:"bullish_fvgs"`
	BearishFVGs        int     `json:"bearish_fvgs"`
	MSBBullishRecent   int     `json:"msb_bullish_recent"`
	MSBBearishRecent   int     `json:"msb_bearish_recent"`
	BoSBullishRecent   int     `json:"bos_bullish_recent"`
	BoSBearishRecent   int     `json:"bos_bearish_recent"`
	BullishSignals     int     `json:"bullish_signals"`
	BearishSignals     int     `json:"bearish_signals"`
}

// Signal is the discrete label derived from a score.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalNeutral    Signal = "NEUTRAL"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// ScoreResult is the output of the scorer.
type ScoreResult struct {
	Score          int    `json:"score"`
	Signal         Signal `json:"signal"`
	Interpretation string `json:"interpretation"`
}

// ZoneType tells order blocks and fair value gaps apart inside a report.
type ZoneType string

const (
	ZoneOrderBlock   ZoneType = "ob"
	ZoneFairValueGap ZoneType = "fvg"
)

// Zone is a price range from the recent analysis windows, pinned to the bar that formed it.
type Zone struct {
	Type      ZoneType  `json:"type"`
	Direction Direction `json:"direction"`
	Index     int       `json:"index"`
	Time      time.Time `json:"time"`
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
}

// Report is one analysis run for one symbol, as handed to notification and history.
type Report struct {
	Symbol        string          `json:"symbol"`
	Interval      string          `json:"interval"`
	Bars          int             `json:"bars"`
	LastBarTime   time.Time       `json:"last_bar_time"`
	Summary       AnalysisSummary `json:"summary"`
	Score         ScoreResult     `json:"score"`
	Zones         []Zone          `json:"zones"`
	LastSwingHigh *SwingPoint     `json:"last_swing_high,omitempty"`
	LastSwingLow  *SwingPoint     `json:"last_swing_low,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
}
