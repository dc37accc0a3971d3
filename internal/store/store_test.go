package store

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minimav/running-app/internal/models"
)

// testStore opens a throwaway file-backed sqlite database. TranslateError
// gives the same typed duplicate-key errors the postgres driver produces.
func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RunArea{},
		&models.SubRunArea{},
		&models.LoggedRun{},
		&models.SegmentTraversal{},
		&models.IgnoredSegment{},
	)
	if err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	return New(db)
}

func mustCreateArea(t *testing.T, s *Store, username, areaName string) {
	t.Helper()
	err := s.CreateRunArea(username, areaName, "POLYGON((0 0,0 1,1 1,1 0,0 0))")
	if err != nil {
		t.Fatalf("could not create area %s: %v", areaName, err)
	}
}

func strPtr(v string) *string { return &v }
