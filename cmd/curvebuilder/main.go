package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"calcar/server/config"
	"calcar/server/internal/curves"
	"calcar/server/internal/database"
	"calcar/server/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	csvPath := flag.String("csv", cfg.Paths.AdvertsCSV, "path to the adverts corpus CSV")
	outPath := flag.String("out", cfg.Paths.CurveTable, "path of the curve table artifact to write")
	archive := flag.Bool("archive", false, "also write surviving adverts to the sqlite archive")
	flag.Parse()

	builder := curves.NewBuilder(cfg, logger)

	var observers []func(models.AdvertRecord)
	var writer *database.ArchiveWriter
	if *archive {
		writer, err = database.NewArchiveWriter(cfg.Paths.Database, cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open advert archive")
		}
		observers = append(observers, func(rec models.AdvertRecord) {
			if err := writer.Write(rec); err != nil {
				logger.WithError(err).Fatal("Failed to archive adverts")
			}
		})
	}

	logger.Infof("Building depreciation curves from %s", *csvPath)
	table, err := builder.Build(*csvPath, observers...)
	if err != nil {
		logger.WithError(err).Fatal("Curve build failed")
	}

	if writer != nil {
		if err := writer.Flush(); err != nil {
			logger.WithError(err).Fatal("Failed to flush advert archive")
		}
	}

	if err := curves.SaveTable(*outPath, table); err != nil {
		logger.WithError(err).Fatal("Failed to write curve table")
	}

	logger.WithFields(logrus.Fields{
		"curves":    table.TotalCurves,
		"modifiers": len(table.SpecialModifiers),
		"out":       *outPath,
	}).Info("Curve table written")
}
