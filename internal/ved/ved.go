// Package ved implements the UK Vehicle Excise Duty tables (2022/23 rates).
// VED is computed independently of depreciation and composed additively by
// the TCO calculator.
package ved

import (
	"strings"

	"calcar/server/internal/models"
)

const (
	// Standard annual rate from the second registration year
	StandardRate        = 165
	AlternativeFuelRate = 155

	// Expensive car supplement: applies while the vehicle is aged 1 to 5
	// (registration years 2 to 6) when the list price exceeds the threshold
	ExpensiveCarSupplement = 355
	ExpensiveCarThreshold  = 40000

	supplementFirstAge = 1
	supplementLastAge  = 5
)

// co2Band is one first-year rate band; MaxCO2 is inclusive.
type co2Band struct {
	MaxCO2 int
	Rate   int
}

// firstYearBands are the first-year ("showroom tax") rates by CO2 g/km for
// petrol and RDE2-compliant diesel vehicles.
var firstYearBands = []co2Band{
	{0, 0},
	{50, 10},
	{75, 25},
	{90, 120},
	{100, 150},
	{110, 170},
	{130, 190},
	{150, 230},
	{170, 585},
	{190, 945},
	{225, 1420},
	{255, 2015},
}

const topBandRate = 2365

// FirstYearRate returns the first-year VED for the given CO2 emissions.
func FirstYearRate(co2 int) int {
	for _, band := range firstYearBands {
		if co2 <= band.MaxCO2 {
			return band.Rate
		}
	}
	return topBandRate
}

// AnnualRate returns the VED due for one year at the given vehicle age
// (0 = first registration year).
func AnnualRate(v models.Vehicle, age int) int {
	if isZeroEmission(v) {
		return 0
	}
	if age <= 0 {
		return FirstYearRate(v.CO2Emissions)
	}

	rate := StandardRate
	if isAlternativeFuel(v.FuelType) {
		rate = AlternativeFuelRate
	}
	if v.ListPrice > ExpensiveCarThreshold && age >= supplementFirstAge && age <= supplementLastAge {
		rate += ExpensiveCarSupplement
	}
	return rate
}

func isZeroEmission(v models.Vehicle) bool {
	fuel := strings.ToLower(strings.TrimSpace(v.FuelType))
	return fuel == "electric" || fuel == "electricity" || v.CO2Emissions == 0
}

func isAlternativeFuel(fuelType string) bool {
	switch strings.ToLower(strings.TrimSpace(fuelType)) {
	case "hybrid", "plug-in hybrid", "bioethanol", "lpg":
		return true
	default:
		return false
	}
}
