package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
)

// AttendeeRepository adds attendee-specific lookups on top of the generic
// repository.
type AttendeeRepository struct {
	*Repository[model.Attendee]
	log *logger.Logger
}

// NewAttendeeRepository constructs an AttendeeRepository.
func NewAttendeeRepository(db *gorm.DB, baseLog *logger.Logger) *AttendeeRepository {
	repoLog := baseLog.With("repo", "AttendeeRepository")
	return &AttendeeRepository{Repository: New[model.Attendee](db, repoLog), log: repoLog}
}

// WithTx returns a repository bound to the given transaction.
func (r *AttendeeRepository) WithTx(tx *gorm.DB) *AttendeeRepository {
	if tx == nil {
		return r
	}
	return &AttendeeRepository{Repository: r.Repository.WithTx(tx), log: r.log}
}

// ByEvent returns all attendees of the event in registration order. An
// unknown event id yields an empty slice.
func (r *AttendeeRepository) ByEvent(ctx context.Context, eventID uint) ([]model.Attendee, error) {
	var attendees []model.Attendee
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&attendees).Error
	if err != nil {
		return nil, fmt.Errorf("list attendees by event: %w", err)
	}
	return attendees, nil
}

// IsAlreadyRegistered reports whether the email is registered for the event.
// The match is case-sensitive and exact.
func (r *AttendeeRepository) IsAlreadyRegistered(ctx context.Context, eventID uint, email string) (bool, error) {
	return r.Exists(ctx, Where("event_id = ? AND email = ?", eventID, email))
}

// IsEmailTaken reports whether the email is registered for any event.
func (r *AttendeeRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return r.Exists(ctx, Where("email = ?", email))
}

// DeleteByEvent removes every attendee of the event. Used by the event
// delete cascade.
func (r *AttendeeRepository) DeleteByEvent(ctx context.Context, eventID uint) error {
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.Attendee{}).Error
	if err != nil {
		return fmt.Errorf("delete attendees by event: %w", err)
	}
	return nil
}
