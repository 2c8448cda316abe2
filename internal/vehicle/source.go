// Package vehicle resolves registration numbers to vehicle records. The
// estimator core never depends on where a vehicle came from; sources are the
// upstream collaborators feeding it.
package vehicle

import (
	"errors"
	"strings"

	"calcar/server/config"
	"calcar/server/internal/curves"
	"calcar/server/internal/database"
	"calcar/server/internal/models"
)

var ErrNotFound = errors.New("vehicle not found")

// Source resolves a registration number to a vehicle record.
type Source interface {
	Lookup(registration string) (*models.VehicleRecord, error)
}

// NormalizeRegistration uppercases a registration and strips internal
// whitespace ("ab12 cde" -> "AB12CDE").
func NormalizeRegistration(registration string) string {
	registration = strings.ToUpper(strings.TrimSpace(registration))
	return strings.ReplaceAll(registration, " ", "")
}

// ToVehicle converts a looked-up record into the estimator's query input,
// normalizing the lookup keys and classifying special-variant status from the
// record's make and model text.
func ToVehicle(rec *models.VehicleRecord) models.Vehicle {
	return models.Vehicle{
		Registration:      rec.Registration,
		Make:              strings.ToLower(strings.TrimSpace(rec.Make)),
		Model:             strings.ToLower(strings.TrimSpace(rec.Model)),
		FuelType:          strings.ToLower(strings.TrimSpace(rec.FuelType)),
		YearOfManufacture: rec.YearOfManufacture,
		CO2Emissions:      rec.CO2Emissions,
		ListPrice:         rec.ListPrice,
		SpecialVariant:    curves.IsSpecialVariant(config.GetSpecialVariantKeywords(), rec.Make, rec.Model),
	}
}

// DatabaseSource looks registrations up in the sqlite vehicle store.
type DatabaseSource struct {
	db *database.Database
}

func NewDatabaseSource(db *database.Database) *DatabaseSource {
	return &DatabaseSource{db: db}
}

func (s *DatabaseSource) Lookup(registration string) (*models.VehicleRecord, error) {
	rec, err := s.db.GetVehicleByRegistration(NormalizeRegistration(registration))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// StaticSource serves a fixed set of records. It stands in for the real
// registration lookup in development and tests, and seeds the database on
// first run.
type StaticSource struct {
	records map[string]models.VehicleRecord
}

func NewStaticSource() *StaticSource {
	source := &StaticSource{records: make(map[string]models.VehicleRecord)}
	for _, rec := range SeedVehicles() {
		source.records[rec.Registration] = *rec
	}
	return source
}

func (s *StaticSource) Lookup(registration string) (*models.VehicleRecord, error) {
	rec, ok := s.records[NormalizeRegistration(registration)]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// SeedVehicles is the demo vehicle set loaded into an empty database.
func SeedVehicles() []*models.VehicleRecord {
	return []*models.VehicleRecord{
		{Registration: "BD51SMR", Make: "Ford", Model: "Focus", FuelType: "Petrol", YearOfManufacture: 2019, CO2Emissions: 127, ListPrice: 22500},
		{Registration: "LR68XKD", Make: "BMW", Model: "320d", FuelType: "Diesel", YearOfManufacture: 2018, CO2Emissions: 131, ListPrice: 35300},
		{Registration: "MA21OPL", Make: "Audi", Model: "TT RS", FuelType: "Petrol", YearOfManufacture: 2021, CO2Emissions: 187, ListPrice: 58000},
		{Registration: "EV70ZRO", Make: "Tesla", Model: "Model 3", FuelType: "Electric", YearOfManufacture: 2020, CO2Emissions: 0, ListPrice: 46990},
		{Registration: "KN19HYB", Make: "Toyota", Model: "Corolla", FuelType: "Hybrid", YearOfManufacture: 2019, CO2Emissions: 101, ListPrice: 27800},
		{Registration: "WR22LUX", Make: "Mercedes-Benz", Model: "S500 AMG Line", FuelType: "Petrol", YearOfManufacture: 2022, CO2Emissions: 198, ListPrice: 98500},
	}
}
