package curves

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"calcar/server/internal/models"
)

// SaveTable writes the curve table artifact, creating intermediate
// directories as needed. Each builder run overwrites the file wholesale.
func SaveTable(path string, table *models.CurveTable) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create curve table dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(table, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal curve table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write curve table: %w", err)
	}
	return nil
}

// LoadTable reads a curve table artifact from disk.
func LoadTable(path string) (*models.CurveTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curve table: %w", err)
	}
	var table models.CurveTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse curve table: %w", err)
	}
	return &table, nil
}

// Store holds the current curve table for the server process. Tables are
// immutable once loaded; a reload swaps the pointer wholesale so readers
// always see a complete table.
type Store struct {
	path     string
	logger   *logrus.Logger
	mu       sync.RWMutex
	table    *models.CurveTable
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewStore(path string, logger *logrus.Logger) *Store {
	return &Store{
		path:     path,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Load reads the artifact from disk and replaces the current table.
func (s *Store) Load() error {
	table, err := LoadTable(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"curves":       table.TotalCurves,
		"modifiers":    len(table.SpecialModifiers),
		"generated_at": table.GeneratedAt,
	}).Info("Loaded curve table")
	return nil
}

// Current returns the loaded table, or nil when no artifact has been loaded
// yet. Callers treat nil as an empty table and fall through to defaults.
func (s *Store) Current() *models.CurveTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// StartReload re-reads the artifact on the given interval so a new builder
// run is picked up without a restart.
func (s *Store) StartReload(interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.Load(); err != nil {
					s.logger.WithError(err).Warn("Curve table reload failed; keeping current table")
				}
			}
		}
	}()
}

// Stop terminates the reload loop and waits for it to exit.
func (s *Store) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
