// Package database provides PostgreSQL connection management, schema
// migration, and seed data.
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/N6q/EventManagementAPI/internal/config"
	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
)

// Open connects to PostgreSQL and validates the connection.
// It retries up to 5 times to accommodate containers starting up.
func Open(cfg config.Config, logg *logger.Logger) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: gormLog})
		if err == nil {
			break
		}
		logg.Warn("db connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for all domain entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Event{}, &model.Attendee{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Seed inserts the demo events when the events table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Event{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	events := []model.Event{
		{
			Title:        "Oman Tech Innovation Summit",
			Description:  "Exploring AI, Cloud, and IoT trends shaping Oman's digital future.",
			Date:         now.AddDate(0, 0, 14),
			Location:     "Muscat",
			MaxAttendees: 200,
		},
		{
			Title:        "Data Science Bootcamp 2025",
			Description:  "Intensive hands-on training for data analysis and ML fundamentals.",
			Date:         now.AddDate(0, 0, 25),
			Location:     "Sohar",
			MaxAttendees: 150,
		},
	}
	if err := db.Create(&events).Error; err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	return nil
}
