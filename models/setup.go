package models

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDataBase opens the embedded sqlite database and migrates the schema.
// The returned handle is passed to the store explicitly; there is no package
// global.
func ConnectDataBase(filename string) (*gorm.DB, error) {
	if filename == "" {
		// Fall back to the environment when the config leaves it blank
		_ = godotenv.Load()
		if name := os.Getenv("DB_NAME"); name != "" {
			filename = name + ".sqlite"
		} else {
			filename = "fusion.sqlite"
		}
	}

	db, err := gorm.Open(sqlite.Open(filename), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect sqlite database at %s: %w", filename, err)
	}
	log.Info(fmt.Sprintf("Connecting sqlite database at %s", filename))

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the table for every entity kind.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&VisSession{},
		&Item{},
		&Layer{},
		&Structure{},
		&ImageOverlay{},
		&Annotation{},
	)
}
