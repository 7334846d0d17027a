// Package service implements the business workflows: event lifecycle,
// attendee registration, and report aggregation.
package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/repository"
)

// EventService enforces event creation, update, and deletion invariants.
// An event is "future" while date >= now and "past" after; time only ever
// moves events one way, and past events reject every mutation.
type EventService struct {
	runner    repository.TxRunner
	events    *repository.EventRepository
	attendees *repository.AttendeeRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(
	runner repository.TxRunner,
	events *repository.EventRepository,
	attendees *repository.AttendeeRepository,
	baseLog *logger.Logger,
) *EventService {
	return &EventService{
		runner:    runner,
		events:    events,
		attendees: attendees,
		log:       baseLog.With("service", "EventService"),
		now:       time.Now,
	}
}

// Create validates the request and persists a new event with zero attendees.
// Dates are normalized to UTC.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	now := s.now().UTC()
	if req.Date.Before(now) {
		return nil, fmt.Errorf("%w: event date cannot be in the past", model.ErrValidation)
	}
	if req.MaxAttendees <= 0 {
		return nil, fmt.Errorf("%w: maxAttendees must be greater than zero", model.ErrValidation)
	}

	ev := &model.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date.UTC(),
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
	}
	created, err := s.events.Add(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info("event created", "eventId", created.EventID, "title", created.Title)
	return created, nil
}

// Update replaces the mutable fields of an event. It reports false without
// touching the record when the event is absent, already past, or the new
// capacity is below the current attendee count.
func (s *EventService) Update(ctx context.Context, id uint, req model.CreateEventRequest) (bool, error) {
	applied := false
	err := s.runner.InTx(ctx, func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)

		existing, err := events.GetWithAttendeesForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		if existing.IsPast(s.now().UTC()) {
			return nil
		}
		if req.MaxAttendees < len(existing.Attendees) {
			return nil
		}

		existing.Title = req.Title
		existing.Description = req.Description
		existing.Date = req.Date.UTC()
		existing.Location = req.Location
		existing.MaxAttendees = req.MaxAttendees
		existing.Attendees = nil

		if err := events.Update(ctx, existing); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update event: %w", err)
	}
	if applied {
		s.log.Info("event updated", "eventId", id)
	}
	return applied, nil
}

// Delete removes an event and cascades to all its attendees in one
// transaction. It reports false when the event does not exist.
func (s *EventService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.runner.InTx(ctx, func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		attendees := s.attendees.WithTx(tx)

		existing, err := events.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}

		if err := attendees.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		if err := events.Delete(ctx, existing); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	if deleted {
		s.log.Info("event deleted", "eventId", id)
	}
	return deleted, nil
}

// Get returns an event with its attendees, or nil when absent.
func (s *EventService) Get(ctx context.Context, id uint) (*model.Event, error) {
	return s.events.GetWithAttendees(ctx, id)
}

// List returns all events with attendee counts, ordered by date ascending.
func (s *EventService) List(ctx context.Context) ([]model.EventWithCount, error) {
	events, err := s.events.AllWithAttendees(ctx)
	if err != nil {
		return nil, err
	}
	return withCounts(events), nil
}

// ListUpcoming returns events with date >= now, ordered by date ascending.
// There is no upper bound here; the 30-day window belongs to reporting.
func (s *EventService) ListUpcoming(ctx context.Context) ([]model.EventWithCount, error) {
	events, err := s.events.Upcoming(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return withCounts(events), nil
}

// ListPaged returns one page of filtered events with counts plus the total
// of the filtered set.
func (s *EventService) ListPaged(ctx context.Context, q model.EventQuery) (model.PagedResult[model.EventWithCount], error) {
	events, total, err := s.events.PagedFiltered(ctx, q)
	if err != nil {
		return model.PagedResult[model.EventWithCount]{}, err
	}
	return model.NewPagedResult(withCounts(events), total, q.Page, q.Size), nil
}

func withCounts(events []model.Event) []model.EventWithCount {
	out := make([]model.EventWithCount, 0, len(events))
	for _, ev := range events {
		out = append(out, model.NewEventWithCount(ev))
	}
	return out
}
