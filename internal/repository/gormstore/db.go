// Package gormstore implements the repositories on a relational database through gorm.
package gormstore

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"runtracker/internal/repository"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the database selected by driver. TranslateError makes unique
// violations surface as gorm.ErrDuplicatedKey on both dialects.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(os.Stdout),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", driver, err)
	}
	return db, nil
}

// newLogger reports slow queries and failures. Lookups that find nothing are
// expected (uniqueness pre-checks) and stay quiet.
func newLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// NewStore wires all gorm repositories against db.
func NewStore(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:     NewUserRepository(db),
		Plans:     NewTrainingPlanRepository(db),
		Trainings: NewTrainingRepository(db),
		Diary:     NewDiaryRepository(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}
