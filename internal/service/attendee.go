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

// AttendeeService is the registration workflow. A registration is accepted
// only when the event exists, is still in the future, the email is not
// already registered for it, and a seat remains - all checked and committed
// as one transaction so that two concurrent requests for the last seat can
// never both succeed.
type AttendeeService struct {
	runner    repository.TxRunner
	events    *repository.EventRepository
	attendees *repository.AttendeeRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewAttendeeService constructs an AttendeeService.
func NewAttendeeService(
	runner repository.TxRunner,
	events *repository.EventRepository,
	attendees *repository.AttendeeRepository,
	baseLog *logger.Logger,
) *AttendeeService {
	return &AttendeeService{
		runner:    runner,
		events:    events,
		attendees: attendees,
		log:       baseLog.With("service", "AttendeeService"),
		now:       time.Now,
	}
}

// Register runs the registration invariant chain inside a single
// transaction, with the event row locked for its duration:
//
//  1. load the event with its full attendee collection
//  2. absent                      -> ErrNotFound
//  3. date already passed         -> ErrEventClosed
//  4. email already registered    -> ErrDuplicateRegistration
//  5. no seat left                -> ErrCapacityExceeded
//  6. persist the attendee with RegisteredAt = now
//
// Every check runs against state read after the lock was acquired, so the
// count can never be stale inside the transaction.
func (s *AttendeeService) Register(ctx context.Context, req model.RegisterAttendeeRequest) (*model.Attendee, error) {
	var created *model.Attendee
	err := s.runner.InTx(ctx, func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		attendees := s.attendees.WithTx(tx)

		ev, err := events.GetWithAttendeesForUpdate(ctx, req.EventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return model.ErrNotFound
		}
		if ev.IsPast(s.now().UTC()) {
			return model.ErrEventClosed
		}
		for _, a := range ev.Attendees {
			if a.Email == req.Email {
				return model.ErrDuplicateRegistration
			}
		}
		if ev.IsFull() {
			return model.ErrCapacityExceeded
		}

		attendee := &model.Attendee{
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			EventID:      ev.EventID,
			RegisteredAt: s.now().UTC(),
		}
		created, err = attendees.Add(ctx, attendee)
		return err
	})
	if err != nil {
		if model.IsRegistrationRejected(err) {
			s.log.Info("registration rejected",
				"eventId", req.EventID, "email", req.Email, "reason", err.Error())
			return nil, err
		}
		return nil, fmt.Errorf("register attendee: %w", err)
	}

	s.log.Info("attendee registered",
		"eventId", created.EventID, "attendeeId", created.AttendeeID)
	return created, nil
}

// ListByEvent returns the event's attendees in registration order. There is
// no existence check on the event; an unknown id yields an empty slice.
func (s *AttendeeService) ListByEvent(ctx context.Context, eventID uint) ([]model.Attendee, error) {
	return s.attendees.ByEvent(ctx, eventID)
}

// Get returns an attendee by id, or nil when absent.
func (s *AttendeeService) Get(ctx context.Context, attendeeID uint) (*model.Attendee, error) {
	return s.attendees.GetByID(ctx, attendeeID)
}

// IsEmailTaken reports whether the email is registered for any event. This
// is the global check, distinct from the per-event duplicate check inside
// Register.
func (s *AttendeeService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return s.attendees.IsEmailTaken(ctx, email)
}

// Delete removes an attendee: absent -> false, removed -> true. Removal only
// relaxes the capacity invariant, so no re-validation happens.
func (s *AttendeeService) Delete(ctx context.Context, attendeeID uint) (bool, error) {
	attendee, err := s.attendees.GetByID(ctx, attendeeID)
	if err != nil {
		return false, err
	}
	if attendee == nil {
		return false, nil
	}
	if err := s.attendees.Delete(ctx, attendee); err != nil {
		return false, err
	}
	return true, nil
}
