package curves

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"calcar/server/config"
	"calcar/server/internal/models"
)

// Fixed algorithmic bounds of the rate estimation. These are sanity windows
// on the estimation itself, unlike the sample-size thresholds in config which
// are operational tuning knobs.
const (
	// A segment needs this many reliable year buckets before a rate is derived
	minQualifyingYears = 3

	// Retention (older mean / newest mean) outside this open interval marks
	// an inverted or nonsensical ratio
	minRetention = 0.2
	maxRetention = 1.1

	// Implied annualized rates outside this open interval are implausible
	minImpliedRate = 0.02
	maxImpliedRate = 0.40

	// Published special modifiers must fall inside these bounds
	minModifier = 0.5
	maxModifier = 1.5
)

// Builder derives the depreciation curve table from the adverts corpus.
// One pass over the corpus, a pure fold into segment buckets, then per
// segment rate estimation. Deterministic for a given corpus and config.
type Builder struct {
	cfg      *config.Config
	keywords []string
	logger   *logrus.Logger
}

func NewBuilder(cfg *config.Config, logger *logrus.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		keywords: config.GetSpecialVariantKeywords(),
		logger:   logger,
	}
}

// Build streams the corpus at path and produces the curve table. Observers
// receive every surviving record; the curve builder command uses this to feed
// the advert archive without a second pass over the file.
func (b *Builder) Build(path string, observers ...func(models.AdvertRecord)) (*models.CurveTable, error) {
	standard := newAggregation()
	special := newAggregation()

	stats, err := b.ReadCorpus(path, func(rec models.AdvertRecord) {
		if rec.Special {
			for _, key := range specialKeys(rec.Make) {
				special.add(key, rec.Year, rec.Price)
			}
		} else {
			for _, key := range standardKeys(rec.Make, rec.FuelType) {
				standard.add(key, rec.Year, rec.Price)
			}
		}
		for _, observe := range observers {
			observe(rec)
		}
	})
	if err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"rows":          stats.Rows,
		"kept":          stats.Kept,
		"special":       stats.Special,
		"dropped_parse": stats.DroppedParse,
		"dropped_price": stats.DroppedPrice,
		"dropped_year":  stats.DroppedYear,
	}).Info("Finished corpus pass")

	table := b.buildTable(standard, special)
	b.logger.Infof("Derived %d curves and %d special modifiers", len(table.Curves), len(table.SpecialModifiers))
	return table, nil
}

// BuildFromRecords derives a curve table from an in-memory record set. Used
// by tests and anywhere the corpus has already been materialized.
func (b *Builder) BuildFromRecords(records []models.AdvertRecord) *models.CurveTable {
	standard := newAggregation()
	special := newAggregation()
	for _, rec := range records {
		if rec.Special {
			for _, key := range specialKeys(rec.Make) {
				special.add(key, rec.Year, rec.Price)
			}
		} else {
			for _, key := range standardKeys(rec.Make, rec.FuelType) {
				standard.add(key, rec.Year, rec.Price)
			}
		}
	}
	return b.buildTable(standard, special)
}

func (b *Builder) buildTable(standard, special aggregation) *models.CurveTable {
	cb := b.cfg.CurveBuilder

	curves := make(map[string]models.CurveEntry)
	for key, seg := range standard {
		if seg.total < cb.MinDataPoints {
			continue
		}
		rate, ok := b.segmentRate(seg)
		if !ok {
			continue
		}
		curves[key] = models.CurveEntry{Rate: rate, DataPoints: seg.total}
	}

	modifiers := make(map[string]float64)
	for key, seg := range special {
		if seg.total < cb.MinModifierSamples {
			continue
		}
		standardEntry, ok := curves[key]
		if !ok {
			// No published standard rate at this level to compare against
			continue
		}
		specialRate, ok := b.segmentRate(seg)
		if !ok {
			continue
		}
		modifier := round3(specialRate / standardEntry.Rate)
		if modifier < minModifier || modifier > maxModifier {
			continue
		}
		modifiers[key] = modifier
	}

	return &models.CurveTable{
		Curves:           curves,
		SpecialModifiers: modifiers,
		GeneratedAt:      time.Now().Format("2006-01-02"),
		MinDataPoints:    cb.MinDataPoints,
		TotalCurves:      len(curves),
		Note:             "Annualized depreciation rates derived from historical advert prices, segmented by make and fuel type. Special-variant trims are excluded from curves and contribute only to the modifiers.",
	}
}

// segmentRate derives the annualized depreciation rate for one segment, or
// reports that the segment has too little reliable data. The newest reliable
// year bucket is the reference price; every older bucket within the age span
// contributes an implied annualized rate.
func (b *Builder) segmentRate(seg *segment) (float64, bool) {
	cb := b.cfg.CurveBuilder

	years := seg.qualifyingYears(cb.MinYearBucket)
	if len(years) < minQualifyingYears {
		return 0, false
	}
	sort.Ints(years)

	newest := years[len(years)-1]
	referencePrice := seg.meanPrice(newest)
	if referencePrice <= 0 {
		return 0, false
	}

	var rates []float64
	for _, year := range years[:len(years)-1] {
		age := newest - year
		if age <= 0 || age > cb.MaxAgeSpan {
			continue
		}
		retention := seg.meanPrice(year) / referencePrice
		if retention <= minRetention || retention >= maxRetention {
			continue
		}
		rate := 1 - math.Pow(retention, 1/float64(age))
		if rate <= minImpliedRate || rate >= maxImpliedRate {
			continue
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return 0, false
	}

	var sum float64
	for _, r := range rates {
		sum += r
	}
	return round3(sum / float64(len(rates))), true
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
