package service

import (
	"os"
	"path/filepath"
	"testing"

	"EquiSync/internal/config"
	"EquiSync/internal/model"
	"EquiSync/internal/venue"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive for the whole test.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Venue{}, &model.VenueAlias{}, &model.Competition{}))
	return db
}

const testSeed = `
venues:
  Kelsall Hill:
    postcode: CW6 0PE
    lat: 53.2096
    lng: -2.7107
    aliases:
      - The Hill At Kelsall
  Online: {}
ambiguous_names:
  - Rectory Farm
`

func newTestPipeline(t *testing.T) *venue.Pipeline {
	t.Helper()
	path := filepath.Join(t.TempDir(), "venues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o644))
	store := venue.NewSeedStore(path, logrus.New())
	require.NoError(t, store.Load())
	return venue.NewPipeline(store)
}

func testConfig() *config.Config {
	return &config.Config{
		Home:      config.HomeConfig{Postcode: "CW6 0PE", Latitude: 53.184, Longitude: -2.688},
		Reconcile: config.ReconcileConfig{ConflictThresholdMiles: 5},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
