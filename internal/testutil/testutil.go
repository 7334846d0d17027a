// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
)

var dbSequence atomic.Int64

// DB opens a fresh in-memory SQLite database with the schema migrated.
// Each call gets its own database, so tests stay independent.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbSequence.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.Event{}, &model.Attendee{}); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

// Logger returns a logger that discards output.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// SeedEvent inserts an event and returns it.
func SeedEvent(tb testing.TB, db *gorm.DB, title, location string, date time.Time, maxAttendees int) *model.Event {
	tb.Helper()
	ev := &model.Event{
		Title:        title,
		Description:  "seeded",
		Date:         date,
		Location:     location,
		MaxAttendees: maxAttendees,
	}
	if err := db.Create(ev).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return ev
}

// SeedAttendee inserts an attendee for the event and returns it.
func SeedAttendee(tb testing.TB, db *gorm.DB, eventID uint, email string) *model.Attendee {
	tb.Helper()
	a := &model.Attendee{
		FullName:     "Seeded Attendee",
		Email:        email,
		EventID:      eventID,
		RegisteredAt: time.Now().UTC(),
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed attendee: %v", err)
	}
	return a
}
