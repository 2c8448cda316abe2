// Diagnostic tool: prints the per-model-year advert price breakdown for one
// make (optionally one fuel type) from the advert archive, splitting the
// standard and special-variant populations. Useful for eyeballing whether a
// segment's curve looks sane before shipping a new table.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"calcar/server/config"
	"calcar/server/internal/database"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	makeName := flag.String("make", "", "vehicle make to analyze (required)")
	fuelType := flag.String("fuel", "", "fuel type filter (optional)")
	dbPath := flag.String("db", cfg.Paths.Database, "path to the sqlite database")
	flag.Parse()

	if *makeName == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	stats, err := db.GetYearlyPriceStats(*makeName, *fuelType)
	if err != nil {
		logger.WithError(err).Fatal("Failed to query advert archive (run curvebuilder with -archive first)")
	}
	if len(stats) == 0 {
		logger.Fatalf("No archived adverts for make %q", *makeName)
	}

	for _, s := range stats {
		fmt.Printf("Year %d: Count=%d, Avg=£%.0f | Standard(n=%d)=£%.0f | Special(n=%d)=£%.0f\n",
			s.Year,
			s.Count,
			s.AvgPrice,
			s.Count-s.SpecialCount,
			s.AvgStandard,
			s.SpecialCount,
			s.AvgSpecial,
		)
	}
}
