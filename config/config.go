package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5350"`
	}

	Paths struct {
		// Path to the historical adverts corpus consumed by the curve builder
		AdvertsCSV string `env:"ADVERTS_CSV_PATH" envDefault:"data/all_car_adverts.csv"`

		// Path of the curve table artifact (written by the builder, read by the server)
		CurveTable string `env:"CURVE_TABLE_PATH" envDefault:"data/depreciation_curves.json"`

		// SQLite database holding vehicle records and the advert archive
		Database string `env:"DATABASE_PATH" envDefault:"database/calcar.db"`

		// Directory for the vehicle image lookup cache
		ImageCacheDir string `env:"IMAGE_CACHE_DIR" envDefault:""`
	}

	CurveBuilder struct {
		// Minimum records a segment needs before its curve is published
		MinDataPoints int `env:"CURVE_MIN_DATA_POINTS" envDefault:"50"`

		// Minimum records a model-year bucket needs to count as reliable
		MinYearBucket int `env:"CURVE_MIN_YEAR_BUCKET" envDefault:"20"`

		// Minimum special-variant records behind a published modifier
		MinModifierSamples int `env:"CURVE_MIN_MODIFIER_SAMPLES" envDefault:"100"`

		// Advert price window; rows outside are dropped as noise
		MinPrice float64 `env:"CURVE_MIN_PRICE" envDefault:"1000"`
		MaxPrice float64 `env:"CURVE_MAX_PRICE" envDefault:"300000"`

		// Model-year window for which the corpus has reliable coverage
		MinModelYear int `env:"CURVE_MIN_MODEL_YEAR" envDefault:"2017"`
		MaxModelYear int `env:"CURVE_MAX_MODEL_YEAR" envDefault:"2022"`

		// Maximum vehicle age (vs the newest bucket) usable for rate estimation
		MaxAgeSpan int `env:"CURVE_MAX_AGE_SPAN" envDefault:"5"`
	}

	CurveReload struct {
		// Minutes between re-reads of the curve table artifact (0 disables)
		IntervalMinutes int `env:"CURVE_RELOAD_INTERVAL" envDefault:"15"`
	}

	Archive struct {
		// Number of adverts per archive transaction
		BatchSize int `env:"ARCHIVE_BATCH_SIZE" envDefault:"500"`

		// Maximum number of retries for failed archive batches
		MaxRetries int `env:"ARCHIVE_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"ARCHIVE_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
