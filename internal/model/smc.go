package model

// SwingKind marks a pivot as a local high or low.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a pivot attached to a candle index.
type SwingPoint struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  SwingKind `json:"kind"`
}

// Direction is the bias of an order block or fair value gap.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

// OrderBlock is the [Low, High] range of a high-volume swing candle that
// was followed by a displacement move.
type OrderBlock struct {
	Index int       `json:"index"`
	Kind  Direction `json:"kind"`
	Low   float64   `json:"low"`
	High  float64   `json:"high"`
}

// FairValueGap is the untraded range of a 3-candle pattern, anchored at the third candle.
type FairValueGap struct {
	Index  int       `json:"index"`
	Kind   Direction `json:"kind"`
	Bottom float64   `json:"bottom"`
	Top    float64   `json:"top"`
}

// Trend is the state of the market structure tracker.
type Trend string

const (
	TrendNeutral Trend = "neutral"
	TrendUp      Trend = "uptrend"
	TrendDown    Trend = "downtrend"
)

// StructureKind classifies a structure break.
type StructureKind string

const (
	MSBBullish StructureKind = "msb_bullish" // break above while in a downtrend
	MSBBearish StructureKind = "msb_bearish" // break below while neutral or in an uptrend
	BoSBullish StructureKind = "bos_bullish" // break above while neutral or in an uptrend
	BoSBearish StructureKind = "bos_bearish" // break below while in a downtrend
)

// StructureEvent is a structure break at a candle index.
type StructureEvent struct {
	Index int           `json:"index"`
	Kind  StructureKind `json:"kind"`
}
