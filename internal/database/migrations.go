package database

import "fmt"

func (d *Database) RunMigrations() error {
	// Vehicle records keyed by registration
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS vehicles (
			registration TEXT PRIMARY KEY,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			fuel_type TEXT NOT NULL,
			year_of_manufacture INTEGER NOT NULL,
			co2_emissions INTEGER NOT NULL,
			list_price INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create vehicles table: %v", err)
	}

	// Index for the per-make diagnostics over the advert archive. The archive
	// table itself is created by the gorm writer when the builder runs with
	// archiving enabled; the index creation is deferred until it exists.
	var archiveExists int
	err = d.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'adverts';
	`).Scan(&archiveExists)
	if err != nil {
		return err
	}
	if archiveExists > 0 {
		_, err = d.db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_adverts_make_fuel
			ON adverts(make, fuel_type);
		`)
		if err != nil {
			return err
		}
	}

	return nil
}
