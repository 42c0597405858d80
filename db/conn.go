// Package db opens the database connection and keeps the schema
// migrated
package db

import (
	"fmt"

	"bitflow/identity-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database. TranslateError is on so unique
// index violations surface as gorm.ErrDuplicatedKey on both drivers;
// the store layer depends on that to report conflicts.
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	dsn := viper.GetString("db.dsn")

	switch viper.GetString("db.driver") {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Account{}, model.VerificationCode{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
