// Package tco composes the depreciation projection and the VED tables into a
// total cost of ownership breakdown. It owns no data of its own; both inputs
// are pure functions of the vehicle.
package tco

import (
	"math"

	"github.com/sirupsen/logrus"

	"calcar/server/internal/models"
	"calcar/server/internal/residual"
	"calcar/server/internal/ved"
)

type Calculator struct {
	estimator *residual.Estimator
	logger    *logrus.Logger
}

func NewCalculator(estimator *residual.Estimator, logger *logrus.Logger) *Calculator {
	return &Calculator{
		estimator: estimator,
		logger:    logger,
	}
}

// Project produces the cost breakdown for owning the vehicle over the given
// number of years, starting from a purchase at purchasePrice today.
func (c *Calculator) Project(v models.Vehicle, purchasePrice float64, years int) models.TCOProjection {
	factor := c.estimator.CalculateResidualFactor(v, years)
	resale := math.Round(purchasePrice * factor)
	depreciation := purchasePrice - resale

	startAge := c.estimator.CurrentAge(v)
	annualVED := make([]int, 0, years)
	totalVED := 0
	for i := 0; i < years; i++ {
		rate := ved.AnnualRate(v, startAge+i)
		annualVED = append(annualVED, rate)
		totalVED += rate
	}

	totalCost := depreciation + float64(totalVED)
	costPerYear := totalCost
	if years > 0 {
		costPerYear = math.Round(totalCost / float64(years))
	}

	return models.TCOProjection{
		Registration:   v.Registration,
		Years:          years,
		PurchasePrice:  purchasePrice,
		ResidualFactor: factor,
		ResaleValue:    resale,
		Depreciation:   depreciation,
		AnnualVED:      annualVED,
		TotalVED:       totalVED,
		TotalCost:      totalCost,
		CostPerYear:    costPerYear,
		CurveSource:    c.estimator.GetCurveSource(v),
	}
}
