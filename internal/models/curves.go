package models

// SegmentGlobal is the key of the least specific curve tier and of the
// fallback special modifier.
const SegmentGlobal = "global"

// Curve lookup levels, most to least specific. LevelDefault marks the
// synthetic zero-confidence rate used when the table has no entry at all.
const (
	LevelMakeFuel = "make_fuel"
	LevelMake     = "make"
	LevelFuel     = "fuel"
	LevelGlobal   = "global"
	LevelDefault  = "default"
)

// CurveEntry is one published depreciation curve: an annualized rate in
// [0, 0.40) and the sample size backing it.
type CurveEntry struct {
	Rate       float64 `json:"rate"`
	DataPoints int     `json:"dataPoints"`
}

// CurveTable is the artifact produced by a curve-builder run and consumed
// read-only for the lifetime of the server process. A new run replaces the
// file wholesale; there is no incremental update.
type CurveTable struct {
	Curves           map[string]CurveEntry `json:"curves"`
	SpecialModifiers map[string]float64    `json:"specialModifiers"`
	GeneratedAt      string                `json:"generatedAt"`
	MinDataPoints    int                   `json:"minDataPoints"`
	TotalCurves      int                   `json:"totalCurves"`
	Note             string                `json:"note"`
}

// CurveSource records which tier answered a lookup, for UI attribution.
type CurveSource struct {
	Level      string  `json:"level"`
	Key        string  `json:"key"`
	Rate       float64 `json:"rate"`
	DataPoints int     `json:"dataPoints"`
}
