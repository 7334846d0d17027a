package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
)

// attendeeCountSubquery orders events by their attendee count without
// materializing the collection.
const attendeeCountSubquery = "(SELECT COUNT(*) FROM attendees WHERE attendees.event_id = events.event_id)"

// EventRepository adds event-specific lookups on top of the generic
// repository.
type EventRepository struct {
	*Repository[model.Event]
	log *logger.Logger
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *gorm.DB, baseLog *logger.Logger) *EventRepository {
	repoLog := baseLog.With("repo", "EventRepository")
	return &EventRepository{Repository: New[model.Event](db, repoLog), log: repoLog}
}

// WithTx returns a repository bound to the given transaction.
func (r *EventRepository) WithTx(tx *gorm.DB) *EventRepository {
	if tx == nil {
		return r
	}
	return &EventRepository{Repository: r.Repository.WithTx(tx), log: r.log}
}

// GetWithAttendees loads the event together with its full attendee
// collection, or nil when absent. Counts derived from a partially loaded
// collection are the main correctness hazard here, so the load is always
// eager.
func (r *EventRepository) GetWithAttendees(ctx context.Context, id uint) (*model.Event, error) {
	return r.getWithAttendees(ctx, id, false)
}

// GetWithAttendeesForUpdate is GetWithAttendees with an exclusive row-level
// lock on the event row. Concurrent registrations for the same event
// serialize on this lock until the surrounding transaction resolves, so two
// requests for the last seat cannot both observe free capacity.
func (r *EventRepository) GetWithAttendeesForUpdate(ctx context.Context, id uint) (*model.Event, error) {
	return r.getWithAttendees(ctx, id, true)
}

func (r *EventRepository) getWithAttendees(ctx context.Context, id uint, lock bool) (*model.Event, error) {
	q := r.db.WithContext(ctx).Preload("Attendees")
	// SQLite has no FOR UPDATE; its single-writer lock serializes the
	// transaction instead.
	if lock && r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ev model.Event
	err := q.First(&ev, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event with attendees: %w", err)
	}
	return &ev, nil
}

// AllWithAttendees returns every event with its attendees loaded, ordered by
// date ascending.
func (r *EventRepository) AllWithAttendees(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Upcoming returns events with date >= now, ordered by date ascending, with
// attendees loaded.
func (r *EventRepository) Upcoming(ctx context.Context, now time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("date >= ?", now).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// UpcomingWithin returns events with now <= date <= until, ordered by date
// ascending, with attendees loaded. Used by the reporting window.
func (r *EventRepository) UpcomingWithin(ctx context.Context, now, until time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Attendees").
		Where("date >= ? AND date <= ?", now, until).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events in window: %w", err)
	}
	return events, nil
}

// PagedFiltered returns one page of events matching the query filters,
// ordered by its enumerated sort key, plus the total count of the filtered
// set.
func (r *EventRepository) PagedFiltered(ctx context.Context, q model.EventQuery) ([]model.Event, int64, error) {
	scopes := []Scope{eventOrder(q.SortBy, q.Desc)}
	if q.Location != "" {
		scopes = append(scopes, Where("location = ?", q.Location))
	}
	if q.From != nil {
		scopes = append(scopes, Where("date >= ?", *q.From))
	}
	if q.To != nil {
		scopes = append(scopes, Where("date <= ?", *q.To))
	}
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Attendees")
	})
	return r.GetPaged(ctx, q.Page, q.Size, scopes...)
}

func eventOrder(sort model.EventSort, desc bool) Scope {
	var column string
	switch sort {
	case model.EventSortByTitle:
		column = "title"
	case model.EventSortByAttendees:
		column = attendeeCountSubquery
	default:
		column = "date"
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return OrderBy(column + " " + direction)
}
