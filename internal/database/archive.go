package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"calcar/server/config"
	"calcar/server/internal/models"
)

// AdvertRow is the persisted shape of one archived corpus record.
type AdvertRow struct {
	ID         uint      `gorm:"primaryKey"`
	Make       string    `gorm:"column:make;index:idx_adverts_make_fuel"`
	Model      string    `gorm:"column:model"`
	FuelType   string    `gorm:"column:fuel_type;index:idx_adverts_make_fuel"`
	Year       int       `gorm:"column:year"`
	Price      float64   `gorm:"column:price"`
	Special    bool      `gorm:"column:special"`
	ImportedAt time.Time `gorm:"column:imported_at;autoCreateTime"`
}

func (AdvertRow) TableName() string {
	return "adverts"
}

// ArchiveWriter persists surviving corpus records to the advert archive in
// batched transactions with bounded retry, so the diagnostic tooling can
// query the exact population a curve run was built from.
type ArchiveWriter struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *logrus.Logger
	buffer []*AdvertRow
}

func NewArchiveWriter(dbPath string, cfg *config.Config, logger *logrus.Logger) (*ArchiveWriter, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open advert archive: %w", err)
	}

	if err := db.AutoMigrate(&AdvertRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate advert archive: %w", err)
	}

	// Each run archives a fresh snapshot of the corpus
	if err := db.Exec("DELETE FROM adverts").Error; err != nil {
		return nil, fmt.Errorf("failed to clear advert archive: %w", err)
	}

	return &ArchiveWriter{
		db:     db,
		cfg:    cfg,
		logger: logger,
		buffer: make([]*AdvertRow, 0, cfg.Archive.BatchSize),
	}, nil
}

// Write buffers one record, flushing a full batch when the buffer reaches the
// configured batch size.
func (w *ArchiveWriter) Write(rec models.AdvertRecord) error {
	w.buffer = append(w.buffer, &AdvertRow{
		Make:     rec.Make,
		Model:    rec.Model,
		FuelType: rec.FuelType,
		Year:     rec.Year,
		Price:    rec.Price,
		Special:  rec.Special,
	})
	if len(w.buffer) >= w.cfg.Archive.BatchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes any buffered records.
func (w *ArchiveWriter) Flush() error {
	if len(w.buffer) == 0 {
		return nil
	}
	batch := w.buffer
	w.buffer = make([]*AdvertRow, 0, w.cfg.Archive.BatchSize)
	return w.writeBatch(batch)
}

// writeBatch persists a single batch with transaction and retry logic.
func (w *ArchiveWriter) writeBatch(batch []*AdvertRow) error {
	var err error
	for attempt := 0; attempt <= w.cfg.Archive.MaxRetries; attempt++ {
		if attempt > 0 {
			w.logger.Infof("Retrying archive batch, attempt %d of %d", attempt, w.cfg.Archive.MaxRetries)
			time.Sleep(time.Duration(w.cfg.Archive.RetryDelay) * time.Second)
		}

		err = w.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(batch).Error; err != nil {
				return fmt.Errorf("failed to insert advert batch: %w", err)
			}
			return nil
		})

		if err == nil {
			w.logger.Debugf("Archived batch of %d adverts", len(batch))
			return nil
		}

		w.logger.Errorf("Archive batch failed: %v", err)
	}

	return fmt.Errorf("failed to archive batch after %d attempts: %w", w.cfg.Archive.MaxRetries, err)
}
