package models

import "time"

// VehicleRecord is the row shape returned by a vehicle-record source
// (DVLA-style lookup keyed by registration number).
type VehicleRecord struct {
	Registration      string    `json:"registration"`
	Make              string    `json:"make"`
	Model             string    `json:"model"`
	FuelType          string    `json:"fuel_type"`
	YearOfManufacture int       `json:"year_of_manufacture"`
	CO2Emissions      int       `json:"co2_emissions"`
	ListPrice         int       `json:"list_price"`
	CreatedAt         time.Time `json:"created_at"`
}

// Vehicle is the runtime query input to the residual estimator. Model is
// carried for display and image lookup only; the curve hierarchy deliberately
// excludes it because model-level price data mixes generations and facelifts
// under a single name.
type Vehicle struct {
	Registration      string `json:"registration"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	FuelType          string `json:"fuel_type"`
	YearOfManufacture int    `json:"year_of_manufacture"`
	CO2Emissions      int    `json:"co2_emissions"`
	ListPrice         int    `json:"list_price"`
	SpecialVariant    bool   `json:"special_variant"`
}

// AdvertRecord is one historical price listing from the adverts corpus.
// Records are read once, aggregated and discarded.
type AdvertRecord struct {
	Make     string  `json:"make"`
	Model    string  `json:"model"`
	FuelType string  `json:"fuel_type"`
	Year     int     `json:"year"`
	Price    float64 `json:"price"`
	Variant  string  `json:"variant"`
	Title    string  `json:"title"`
	Special  bool    `json:"special"`
}

// TCOProjection is the composed multi-year cost breakdown returned by the API.
type TCOProjection struct {
	Registration   string      `json:"registration"`
	Years          int         `json:"years"`
	PurchasePrice  float64     `json:"purchase_price"`
	ResidualFactor float64     `json:"residual_factor"`
	ResaleValue    float64     `json:"resale_value"`
	Depreciation   float64     `json:"depreciation"`
	AnnualVED      []int       `json:"annual_ved"`
	TotalVED       int         `json:"total_ved"`
	TotalCost      float64     `json:"total_cost"`
	CostPerYear    float64     `json:"cost_per_year"`
	CurveSource    CurveSource `json:"curve_source"`
}
