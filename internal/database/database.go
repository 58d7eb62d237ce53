package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/minsukim/fishmarket-api/internal/database/migrations"
	"github.com/minsukim/fishmarket-api/internal/trade"
)

// NewDatabase opens the trade ledger database and brings the schema up
// to date.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&trade.Record{}); err != nil {
		return nil, err
	}

	if err := migrations.BackfillTradeTotals(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
