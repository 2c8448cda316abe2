package models

// YearlyPriceStat is one row of the per-model-year advert price breakdown
// served by the analysis tooling, with the standard and special-variant
// populations split out.
type YearlyPriceStat struct {
	Year         int     `json:"year"`
	Count        int     `json:"count"`
	AvgPrice     float64 `json:"avg_price"`
	AvgStandard  float64 `json:"avg_standard"`
	AvgSpecial   float64 `json:"avg_special"`
	SpecialCount int     `json:"special_count"`
}
