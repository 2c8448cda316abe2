package curves

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calcar/server/internal/models"
)

func TestSaveLoadTable(t *testing.T) {
	table := &models.CurveTable{
		Curves: map[string]models.CurveEntry{
			"bmw|diesel":         {Rate: 0.095, DataPoints: 340},
			"bmw":                {Rate: 0.101, DataPoints: 812},
			models.SegmentGlobal: {Rate: 0.112, DataPoints: 45231},
		},
		SpecialModifiers: map[string]float64{
			"bmw":                0.82,
			models.SegmentGlobal: 0.91,
		},
		GeneratedAt:   "2024-06-01",
		MinDataPoints: 50,
		TotalCurves:   3,
		Note:          "test table",
	}

	path := filepath.Join(t.TempDir(), "curves", "depreciation_curves.json")
	require.NoError(t, SaveTable(path, table))

	loaded, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestLoadTable_Missing(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	logger := logrus.New()
	path := filepath.Join(t.TempDir(), "curves.json")
	store := NewStore(path, logger)

	// Nothing loaded yet
	assert.Nil(t, store.Current())
	assert.Error(t, store.Load())
	assert.Nil(t, store.Current())

	table := &models.CurveTable{
		Curves:      map[string]models.CurveEntry{models.SegmentGlobal: {Rate: 0.1, DataPoints: 100}},
		TotalCurves: 1,
	}
	require.NoError(t, SaveTable(path, table))

	// Load picks up the artifact; a failed reload keeps the current table
	require.NoError(t, store.Load())
	assert.Equal(t, table, store.Current())
}
