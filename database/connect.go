package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DszGabriel04/attendance-nitgoa/models"
)

// Store wraps the relational collaborator. SQLite allows one writer at a time,
// so write paths serialize on mu the same way reads of gorm stay lock-free.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// Connect opens (and migrates) the SQLite database at path.
func Connect(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if err := db.AutoMigrate(
		&models.Faculty{},
		&models.Class{},
		&models.Student{},
		&models.Attendance{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
