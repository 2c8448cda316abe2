package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"calcar/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetVehicleByRegistration returns the vehicle record for a normalized
// registration, or nil when the registration is unknown.
func (d *Database) GetVehicleByRegistration(registration string) (*models.VehicleRecord, error) {
	query := `
        SELECT registration, make, model, fuel_type, year_of_manufacture,
               co2_emissions, list_price,
               COALESCE(created_at, CURRENT_TIMESTAMP) as created_at
        FROM vehicles
        WHERE registration = ?
    `

	var rec models.VehicleRecord
	var createdAt sql.NullString
	err := d.db.QueryRow(query, registration).Scan(
		&rec.Registration,
		&rec.Make,
		&rec.Model,
		&rec.FuelType,
		&rec.YearOfManufacture,
		&rec.CO2Emissions,
		&rec.ListPrice,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if createdAt.Valid && createdAt.String != "" {
		if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
			rec.CreatedAt = t
		}
	}

	return &rec, nil
}

// UpsertVehicles inserts or replaces vehicle records, keyed by registration.
func (d *Database) UpsertVehicles(records []*models.VehicleRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
        INSERT OR REPLACE INTO vehicles
            (registration, make, model, fuel_type, year_of_manufacture, co2_emissions, list_price)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(
			rec.Registration,
			rec.Make,
			rec.Model,
			rec.FuelType,
			rec.YearOfManufacture,
			rec.CO2Emissions,
			rec.ListPrice,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert vehicle %s: %w", rec.Registration, err)
		}
	}

	return tx.Commit()
}

// CountVehicles returns the number of stored vehicle records.
func (d *Database) CountVehicles() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM vehicles").Scan(&count)
	return count, err
}

// GetYearlyPriceStats returns the per-model-year advert price breakdown for
// one make (optionally narrowed to a fuel type) from the advert archive, with
// the standard and special-variant populations split out.
func (d *Database) GetYearlyPriceStats(makeName, fuelType string) ([]models.YearlyPriceStat, error) {
	query := `
        SELECT
            year,
            COUNT(*) as record_count,
            COALESCE(AVG(price), 0) as avg_price,
            COALESCE(AVG(CASE WHEN special = 0 THEN price END), 0) as avg_standard,
            COALESCE(AVG(CASE WHEN special = 1 THEN price END), 0) as avg_special,
            SUM(CASE WHEN special = 1 THEN 1 ELSE 0 END) as special_count
        FROM adverts
        WHERE LOWER(make) = LOWER(?)
        AND (? = '' OR LOWER(fuel_type) = LOWER(?))
        GROUP BY year
        ORDER BY year DESC
    `

	rows, err := d.db.Query(query, makeName, fuelType, fuelType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.YearlyPriceStat
	for rows.Next() {
		var s models.YearlyPriceStat
		if err := rows.Scan(
			&s.Year,
			&s.Count,
			&s.AvgPrice,
			&s.AvgStandard,
			&s.AvgSpecial,
			&s.SpecialCount,
		); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (d *Database) Close() error {
	return d.db.Close()
}
