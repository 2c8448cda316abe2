package residual

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"calcar/server/internal/models"
)

func tableWith(curves map[string]models.CurveEntry, modifiers map[string]float64) TableSource {
	return StaticTable{Table: &models.CurveTable{
		Curves:           curves,
		SpecialModifiers: modifiers,
	}}
}

func TestFindBestCurve_GlobalOnly(t *testing.T) {
	estimator := NewEstimator(tableWith(map[string]models.CurveEntry{
		models.SegmentGlobal: {Rate: 0.08, DataPoints: 5000},
	}, nil), logrus.New())

	// Any make/fuel resolves to the global entry
	for _, query := range [][2]string{
		{"bmw", "diesel"},
		{"made-up", "steam"},
		{"", ""},
	} {
		source := estimator.FindBestCurve(query[0], query[1])
		assert.Equal(t, models.LevelGlobal, source.Level)
		assert.Equal(t, models.SegmentGlobal, source.Key)
		assert.Equal(t, 0.08, source.Rate)
		assert.Equal(t, 5000, source.DataPoints)
	}
}

func TestFindBestCurve_Precedence(t *testing.T) {
	estimator := NewEstimator(tableWith(map[string]models.CurveEntry{
		"bmw|diesel":         {Rate: 0.09, DataPoints: 300},
		"bmw":                {Rate: 0.11, DataPoints: 900},
		"diesel":             {Rate: 0.12, DataPoints: 8000},
		models.SegmentGlobal: {Rate: 0.13, DataPoints: 40000},
	}, nil), logrus.New())

	// Most specific tier wins
	source := estimator.FindBestCurve("bmw", "diesel")
	assert.Equal(t, models.LevelMakeFuel, source.Level)
	assert.Equal(t, "bmw|diesel", source.Key)
	assert.Equal(t, 0.09, source.Rate)

	// Unknown fuel falls through to the make tier
	source = estimator.FindBestCurve("bmw", "petrol")
	assert.Equal(t, models.LevelMake, source.Level)
	assert.Equal(t, 0.11, source.Rate)

	// Unknown make falls through to the fuel tier
	source = estimator.FindBestCurve("lada", "diesel")
	assert.Equal(t, models.LevelFuel, source.Level)
	assert.Equal(t, 0.12, source.Rate)

	// Inputs are normalized defensively
	source = estimator.FindBestCurve("  BMW ", "Diesel")
	assert.Equal(t, models.LevelMakeFuel, source.Level)
}

func TestFindBestCurve_SyntheticDefault(t *testing.T) {
	// Table with no matching tier at all, not even global
	estimator := NewEstimator(tableWith(map[string]models.CurveEntry{
		"audi": {Rate: 0.10, DataPoints: 200},
	}, nil), logrus.New())

	source := estimator.FindBestCurve("bmw", "diesel")
	assert.Equal(t, models.LevelDefault, source.Level)
	assert.Equal(t, "", source.Key)
	assert.Equal(t, DefaultRate, source.Rate)
	assert.Equal(t, 0, source.DataPoints)

	// A nil table behaves the same
	empty := NewEstimator(StaticTable{}, logrus.New())
	source = empty.FindBestCurve("bmw", "diesel")
	assert.Equal(t, models.LevelDefault, source.Level)
	assert.Equal(t, DefaultRate, source.Rate)
}

func TestCalculateResidualFactor_AgeShaping(t *testing.T) {
	estimator := NewEstimator(tableWith(map[string]models.CurveEntry{
		models.SegmentGlobal: {Rate: 0.10, DataPoints: 1000},
	}, nil), logrus.New()).WithCurrentYear(2026)

	// Brand new vehicle, two years: 0.10*1.5 then 0.10*1.2
	v := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2026}
	factor := estimator.CalculateResidualFactor(v, 2)
	assert.InDelta(t, 0.85*0.88, factor, 1e-9)

	// Older vehicle flattens to the 0.7 multiplier
	old := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2020}
	factor = estimator.CalculateResidualFactor(old, 1)
	assert.InDelta(t, 1-0.07, factor, 1e-9)

	// Zero ownership years retains full value
	assert.Equal(t, 1.0, estimator.CalculateResidualFactor(v, 0))
}

func TestCalculateResidualFactor_YearlyRateClamped(t *testing.T) {
	// Pathologically large base rate: first year clamps to 0.35
	high := NewEstimator(tableWith(map[string]models.CurveEntry{
		models.SegmentGlobal: {Rate: 0.90, DataPoints: 100},
	}, nil), logrus.New()).WithCurrentYear(2026)

	v := models.Vehicle{Make: "x", FuelType: "y", YearOfManufacture: 2026}
	assert.InDelta(t, 1-MaxYearlyRate, high.CalculateResidualFactor(v, 1), 1e-9)

	// Pathologically small base rate: clamps up to 0.03
	low := NewEstimator(tableWith(map[string]models.CurveEntry{
		models.SegmentGlobal: {Rate: 0.001, DataPoints: 100},
	}, nil), logrus.New()).WithCurrentYear(2026)
	assert.InDelta(t, 1-MinYearlyRate, low.CalculateResidualFactor(v, 1), 1e-9)
}

func TestCalculateResidualFactor_Floor(t *testing.T) {
	estimator := NewEstimator(tableWith(map[string]models.CurveEntry{
		models.SegmentGlobal: {Rate: 0.30, DataPoints: 100},
	}, nil), logrus.New()).WithCurrentYear(2026)

	v := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2026}
	for _, years := range []int{0, 1, 5, 10, 50} {
		factor := estimator.CalculateResidualFactor(v, years)
		assert.GreaterOrEqual(t, factor, ResidualFloor, "years=%d", years)
		assert.LessOrEqual(t, factor, 1.0, "years=%d", years)
	}

	// Long horizons bottom out exactly at the floor
	assert.Equal(t, ResidualFloor, estimator.CalculateResidualFactor(v, 50))
}

func TestSpecialModifierApplied(t *testing.T) {
	estimator := NewEstimator(tableWith(
		map[string]models.CurveEntry{
			"bmw":                {Rate: 0.10, DataPoints: 500},
			models.SegmentGlobal: {Rate: 0.10, DataPoints: 5000},
		},
		map[string]float64{
			"bmw":                1.2,
			models.SegmentGlobal: 0.9,
		},
	), logrus.New()).WithCurrentYear(2026)

	// Age 2 uses the flat 1.0 multiplier, isolating the modifier effect
	standard := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2024}
	special := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2024, SpecialVariant: true}

	assert.InDelta(t, 1-0.10, estimator.CalculateResidualFactor(standard, 1), 1e-9)
	assert.InDelta(t, 1-0.12, estimator.CalculateResidualFactor(special, 1), 1e-9)

	// Make without its own modifier falls back to the global one
	otherSpecial := models.Vehicle{Make: "ford", FuelType: "diesel", YearOfManufacture: 2024, SpecialVariant: true}
	assert.InDelta(t, 1-0.09, estimator.CalculateResidualFactor(otherSpecial, 1), 1e-9)
}

func TestDepreciationResaleComplementary(t *testing.T) {
	estimator := NewEstimator(tableWith(map[string]models.CurveEntry{
		models.SegmentGlobal: {Rate: 0.11, DataPoints: 1000},
	}, nil), logrus.New()).WithCurrentYear(2026)

	v := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2022}
	for _, price := range []float64{0, 999, 25000, 117450.55} {
		for _, years := range []int{0, 1, 3, 8} {
			resale := estimator.CalculateResaleValue(price, v, years)
			depreciation := estimator.CalculateDepreciation(price, v, years)
			assert.InDelta(t, price, resale+depreciation, 1e-6, "price=%v years=%d", price, years)
		}
	}
}

func TestCurrentAge_NeverNegative(t *testing.T) {
	estimator := NewEstimator(StaticTable{}, logrus.New()).WithCurrentYear(2026)

	assert.Equal(t, 0, estimator.CurrentAge(models.Vehicle{YearOfManufacture: 2030}))
	assert.Equal(t, 4, estimator.CurrentAge(models.Vehicle{YearOfManufacture: 2022}))
}
