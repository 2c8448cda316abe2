package tco

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcar/server/internal/models"
	"calcar/server/internal/residual"
)

func testEstimator() *residual.Estimator {
	table := residual.StaticTable{Table: &models.CurveTable{
		Curves: map[string]models.CurveEntry{
			models.SegmentGlobal: {Rate: 0.10, DataPoints: 1000},
		},
	}}
	return residual.NewEstimator(table, logrus.New()).WithCurrentYear(2026)
}

func TestProject(t *testing.T) {
	calculator := NewCalculator(testEstimator(), logrus.New())

	v := models.Vehicle{
		Registration:      "BD51SMR",
		Make:              "ford",
		Model:             "focus",
		FuelType:          "petrol",
		YearOfManufacture: 2026,
		CO2Emissions:      127,
		ListPrice:         22500,
	}

	projection := calculator.Project(v, 20000, 2)

	// Residual: (1-0.15)(1-0.12) = 0.748
	assert.InDelta(t, 0.748, projection.ResidualFactor, 1e-9)
	assert.Equal(t, 14960.0, projection.ResaleValue)
	assert.Equal(t, 5040.0, projection.Depreciation)

	// VED: first-year banded rate for 127 g/km, then the standard rate
	require.Len(t, projection.AnnualVED, 2)
	assert.Equal(t, 190, projection.AnnualVED[0])
	assert.Equal(t, 165, projection.AnnualVED[1])
	assert.Equal(t, 355, projection.TotalVED)

	// Depreciation and tax compose additively
	assert.Equal(t, 5395.0, projection.TotalCost)
	assert.Equal(t, 2698.0, projection.CostPerYear)
	assert.Equal(t, models.LevelGlobal, projection.CurveSource.Level)
}

func TestProject_ZeroYears(t *testing.T) {
	calculator := NewCalculator(testEstimator(), logrus.New())

	v := models.Vehicle{Make: "ford", FuelType: "petrol", YearOfManufacture: 2024, CO2Emissions: 127, ListPrice: 22500}
	projection := calculator.Project(v, 18000, 0)

	assert.Equal(t, 1.0, projection.ResidualFactor)
	assert.Equal(t, 18000.0, projection.ResaleValue)
	assert.Equal(t, 0.0, projection.Depreciation)
	assert.Empty(t, projection.AnnualVED)
	assert.Equal(t, 0, projection.TotalVED)
	assert.Equal(t, 0.0, projection.TotalCost)
}

func TestProject_Complementarity(t *testing.T) {
	calculator := NewCalculator(testEstimator(), logrus.New())

	v := models.Vehicle{Make: "bmw", FuelType: "diesel", YearOfManufacture: 2022, CO2Emissions: 131, ListPrice: 35300}
	for _, years := range []int{1, 3, 5, 10} {
		projection := calculator.Project(v, 31000, years)
		assert.InDelta(t, 31000, projection.ResaleValue+projection.Depreciation, 1e-6, "years=%d", years)
	}
}
