package residual

import (
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"calcar/server/internal/models"
)

const (
	// DefaultRate is the synthetic zero-confidence rate used when the curve
	// table has no entry at any tier.
	DefaultRate = 0.15

	// Effective yearly rates are clamped to this window regardless of how
	// extreme the base rate or age multiplier is.
	MinYearlyRate = 0.03
	MaxYearlyRate = 0.35

	// ResidualFloor models that vehicles never reach zero scrap value.
	ResidualFloor = 0.05
)

// TableSource yields the current immutable curve table. A nil table is
// treated as empty and resolves every lookup to the synthetic default.
type TableSource interface {
	Current() *models.CurveTable
}

// StaticTable adapts a fixed table to TableSource, mainly for tests and the
// offline tooling.
type StaticTable struct {
	Table *models.CurveTable
}

func (s StaticTable) Current() *models.CurveTable {
	return s.Table
}

// Estimator projects residual vehicle value from the curve table. It is a
// pure function of (vehicle, table snapshot, horizon) and safe for concurrent
// use from any number of callers.
type Estimator struct {
	tables      TableSource
	logger      *logrus.Logger
	currentYear func() int
}

func NewEstimator(tables TableSource, logger *logrus.Logger) *Estimator {
	return &Estimator{
		tables:      tables,
		logger:      logger,
		currentYear: func() int { return time.Now().Year() },
	}
}

// WithCurrentYear pins the calendar year used for vehicle age, for
// deterministic projections in tests and backtesting.
func (e *Estimator) WithCurrentYear(year int) *Estimator {
	e.currentYear = func() int { return year }
	return e
}

// FindBestCurve resolves the most specific published curve for the given make
// and fuel type, trying make|fuel, make, fuel, then global. When even the
// global entry is absent the result is the synthetic default, tagged so
// callers can tell "no data at all" from a genuine coarse-tier hit.
func (e *Estimator) FindBestCurve(makeName, fuelType string) models.CurveSource {
	makeName = normalize(makeName)
	fuelType = normalize(fuelType)

	candidates := []struct {
		level string
		key   string
	}{
		{models.LevelMakeFuel, makeName + "|" + fuelType},
		{models.LevelMake, makeName},
		{models.LevelFuel, fuelType},
		{models.LevelGlobal, models.SegmentGlobal},
	}

	if table := e.tables.Current(); table != nil {
		for _, candidate := range candidates {
			if entry, ok := table.Curves[candidate.key]; ok {
				return models.CurveSource{
					Level:      candidate.level,
					Key:        candidate.key,
					Rate:       entry.Rate,
					DataPoints: entry.DataPoints,
				}
			}
		}
	}

	return models.CurveSource{
		Level:      models.LevelDefault,
		Key:        "",
		Rate:       DefaultRate,
		DataPoints: 0,
	}
}

// GetCurveSource exposes the matched curve for UI attribution.
func (e *Estimator) GetCurveSource(v models.Vehicle) models.CurveSource {
	return e.FindBestCurve(v.Make, v.FuelType)
}

// CurrentAge returns the vehicle's age in whole years, never negative.
func (e *Estimator) CurrentAge(v models.Vehicle) int {
	age := e.currentYear() - v.YearOfManufacture
	if age < 0 {
		age = 0
	}
	return age
}

// baseRate resolves the vehicle's annualized rate, applying the make-level
// (or global) special modifier for special-variant trims.
func (e *Estimator) baseRate(v models.Vehicle) float64 {
	source := e.FindBestCurve(v.Make, v.FuelType)
	rate := source.Rate

	if v.SpecialVariant {
		if table := e.tables.Current(); table != nil {
			if modifier, ok := table.SpecialModifiers[normalize(v.Make)]; ok {
				rate *= modifier
			} else if modifier, ok := table.SpecialModifiers[models.SegmentGlobal]; ok {
				rate *= modifier
			}
		}
	}
	return rate
}

// CalculateResidualFactor projects the fraction of value retained after the
// given number of ownership years. Depreciation is steepest for new vehicles
// and flattens from age four; each simulated year compounds.
func (e *Estimator) CalculateResidualFactor(v models.Vehicle, ownershipYears int) float64 {
	rate := e.baseRate(v)
	age := e.CurrentAge(v)

	residual := 1.0
	for i := 0; i < ownershipYears; i++ {
		yearly := rate * ageMultiplier(age+i)
		if yearly < MinYearlyRate {
			yearly = MinYearlyRate
		}
		if yearly > MaxYearlyRate {
			yearly = MaxYearlyRate
		}
		residual *= 1 - yearly
	}

	if residual < ResidualFloor {
		residual = ResidualFloor
	}
	if residual > 1 {
		residual = 1
	}
	return residual
}

// CalculateResaleValue estimates the vehicle's value after the ownership
// period, rounded to whole currency units.
func (e *Estimator) CalculateResaleValue(purchasePrice float64, v models.Vehicle, years int) float64 {
	return math.Round(purchasePrice * e.CalculateResidualFactor(v, years))
}

// CalculateDepreciation returns the value lost over the ownership period.
// Defined as price minus resale so the two are exactly complementary.
func (e *Estimator) CalculateDepreciation(purchasePrice float64, v models.Vehicle, years int) float64 {
	return purchasePrice - e.CalculateResaleValue(purchasePrice, v, years)
}

// ageMultiplier shapes the base rate over the vehicle's absolute age: the
// first year off the forecourt depreciates hardest, older vehicles flatten.
func ageMultiplier(age int) float64 {
	switch {
	case age <= 0:
		return 1.5
	case age == 1:
		return 1.2
	case age <= 3:
		return 1.0
	default:
		return 0.7
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
