package curves

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"calcar/server/internal/models"
)

// IngestStats summarises one streaming pass over the adverts corpus.
// Dropped rows are never individually logged, only counted.
type IngestStats struct {
	Rows         int
	Kept         int
	Special      int
	DroppedParse int
	DroppedPrice int
	DroppedYear  int
}

// corpusColumns maps the CSV columns the builder cares about. The corpus was
// exported with a misspelled "feul_type" header; both spellings are accepted.
type corpusColumns struct {
	makeCol int
	model   int
	fuel    int
	year    int
	price   int
	variant int
	title   int
}

func resolveColumns(header []string) (corpusColumns, error) {
	cols := corpusColumns{makeCol: -1, model: -1, fuel: -1, year: -1, price: -1, variant: -1, title: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "make":
			cols.makeCol = i
		case "model":
			cols.model = i
		case "fuel_type", "feul_type":
			cols.fuel = i
		case "year":
			cols.year = i
		case "car_price", "price":
			cols.price = i
		case "variant":
			cols.variant = i
		case "car_title", "title":
			cols.title = i
		}
	}
	if cols.makeCol < 0 || cols.fuel < 0 || cols.year < 0 || cols.price < 0 {
		return cols, fmt.Errorf("corpus header missing required columns (got %v)", header)
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadCorpus streams the adverts CSV once, applying the parse, price and
// model-year filters, and calls fn for every surviving record. A missing or
// unreadable file is fatal to the run; malformed rows are dropped and counted.
func (b *Builder) ReadCorpus(path string, fn func(models.AdvertRecord)) (IngestStats, error) {
	stats := IngestStats{}

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("open adverts corpus: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("read corpus header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return stats, err
	}

	cb := b.cfg.CurveBuilder
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Rows++
			stats.DroppedParse++
			continue
		}
		stats.Rows++

		makeName := normalizeKey(field(row, cols.makeCol))
		fuelType := normalizeKey(field(row, cols.fuel))
		year, yearErr := strconv.Atoi(field(row, cols.year))
		price, priceErr := strconv.ParseFloat(field(row, cols.price), 64)

		if makeName == "" || fuelType == "" || yearErr != nil || priceErr != nil {
			stats.DroppedParse++
			continue
		}
		if price < cb.MinPrice || price > cb.MaxPrice {
			stats.DroppedPrice++
			continue
		}
		if year < cb.MinModelYear || year > cb.MaxModelYear {
			stats.DroppedYear++
			continue
		}

		model := field(row, cols.model)
		variant := field(row, cols.variant)
		title := field(row, cols.title)
		special := IsSpecialVariant(b.keywords, makeName, model, variant, title)

		stats.Kept++
		if special {
			stats.Special++
		}

		fn(models.AdvertRecord{
			Make:     makeName,
			Model:    model,
			FuelType: fuelType,
			Year:     year,
			Price:    price,
			Variant:  variant,
			Title:    title,
			Special:  special,
		})
	}

	return stats, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
