// Package model defines the core domain types for the event management system.
package model

import "time"

// Field length and capacity limits shared by validation and persistence.
const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 300
	LocationMaxLength    = 100
	FullNameMaxLength    = 80
	MinAttendees         = 10
	MaxAttendees         = 500
)

// Event represents an event that people can register for.
type Event struct {
	EventID      uint       `gorm:"primaryKey" json:"eventId"`
	Title        string     `gorm:"size:100;not null" json:"title"`
	Description  string     `gorm:"size:300" json:"description,omitempty"`
	Date         time.Time  `gorm:"not null;index:idx_event_date_location" json:"date"`
	Location     string     `gorm:"size:100;not null;index:idx_event_date_location" json:"location"`
	MaxAttendees int        `gorm:"not null;default:10" json:"maxAttendees"`
	Attendees    []Attendee `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"attendees,omitempty"`
}

// IsPast reports whether the event date is before the given instant.
// A past event is closed to registrations and mutations.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// IsFull reports whether the loaded attendee collection has reached capacity.
func (e *Event) IsFull() bool {
	return len(e.Attendees) >= e.MaxAttendees
}

// Attendee represents a person registered for exactly one event.
// The (EventID, Email) pair is unique across all attendees.
type Attendee struct {
	AttendeeID   uint      `gorm:"primaryKey" json:"attendeeId"`
	FullName     string    `gorm:"size:80;not null" json:"fullName"`
	Email        string    `gorm:"not null;uniqueIndex:idx_attendee_email_event" json:"email"`
	Phone        string    `json:"phone,omitempty"`
	RegisteredAt time.Time `gorm:"not null" json:"registeredAt"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_attendee_email_event" json:"eventId"`
}

// SoftDeletable is the opt-in capability for records that are marked inactive
// instead of physically removed. Repository.Delete persists the marker for
// types implementing it.
type SoftDeletable interface {
	MarkDeleted()
}

// WeatherInfo is a snapshot of current weather for an event location.
type WeatherInfo struct {
	Summary         string     `json:"summary"`
	TemperatureC    *float64   `json:"temperatureC"`
	ForecastTimeUTC *time.Time `json:"forecastTimeUtc"`
}

// UnavailableWeather is the sentinel attached to reports when the weather
// source fails or returns nothing. Weather failure never fails a report.
func UnavailableWeather() *WeatherInfo {
	return &WeatherInfo{Summary: "Unavailable"}
}

// EventWithCount is an event projection carrying its attendee count.
type EventWithCount struct {
	EventID       uint      `json:"eventId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	MaxAttendees  int       `json:"maxAttendees"`
	AttendeeCount int       `json:"attendeeCount"`
}

// NewEventWithCount builds the projection from an event with its attendee
// collection loaded.
func NewEventWithCount(ev Event) EventWithCount {
	return EventWithCount{
		EventID:       ev.EventID,
		Title:         ev.Title,
		Description:   ev.Description,
		Date:          ev.Date,
		Location:      ev.Location,
		MaxAttendees:  ev.MaxAttendees,
		AttendeeCount: len(ev.Attendees),
	}
}

// EventReport combines an event snapshot, its attendee count, and best-effort
// weather data. Reports are derived on demand and never stored.
type EventReport struct {
	EventID       uint         `json:"eventId"`
	Title         string       `json:"title"`
	Date          time.Time    `json:"date"`
	Location      string       `json:"location"`
	MaxAttendees  int          `json:"maxAttendees"`
	AttendeeCount int          `json:"attendeeCount"`
	GeneratedAt   time.Time    `json:"generatedAt"`
	Weather       *WeatherInfo `json:"weather"`
}

// PagedResult is the pagination envelope for list endpoints.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPagedResult wraps a page of items with its metadata.
func NewPagedResult[T any](items []T, total int64, page, size int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return PagedResult[T]{
		Items:      items,
		TotalItems: total,
		PageNumber: page,
		PageSize:   size,
		TotalPages: pages,
	}
}

// CreateEventRequest is the payload for creating or updating an event.
type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required,max=100"`
	Description  string    `json:"description" validate:"max=300"`
	Date         time.Time `json:"date" validate:"required"`
	Location     string    `json:"location" validate:"required,max=100"`
	MaxAttendees int       `json:"maxAttendees" validate:"required,gte=10,lte=500"`
}

// RegisterAttendeeRequest is the payload for registering an attendee.
type RegisterAttendeeRequest struct {
	FullName string `json:"fullName" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	EventID  uint   `json:"eventId" validate:"required"`
}

// LoginRequest is the payload for the token endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries an issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
