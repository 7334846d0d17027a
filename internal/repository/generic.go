// Package repository implements the data-access layer: a generic GORM-backed
// repository plus event and attendee specializations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/N6q/EventManagementAPI/internal/logger"
	"github.com/N6q/EventManagementAPI/internal/model"
)

// Scope narrows or orders a query. Scopes compose left to right.
type Scope func(*gorm.DB) *gorm.DB

// Where builds a predicate scope.
func Where(query interface{}, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// OrderBy builds an ordering scope from a fixed clause.
func OrderBy(clause string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause)
	}
}

// Repository provides uniform CRUD, filtering, pagination, and transaction
// scoping for any record type, decoupling services from storage mechanics.
type Repository[T any] struct {
	db  *gorm.DB
	log *logger.Logger
}

// New constructs a Repository for T.
func New[T any](db *gorm.DB, baseLog *logger.Logger) *Repository[T] {
	return &Repository[T]{db: db, log: baseLog}
}

// WithTx returns a repository bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	if tx == nil {
		return r
	}
	return &Repository[T]{db: tx, log: r.log}
}

// GetByID returns the record or nil when it does not exist. Absence is not
// an error.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &entity, nil
}

// GetAll returns every record matching the scopes. Without an ordering scope
// the store's iteration order is preserved.
func (r *Repository[T]) GetAll(ctx context.Context, scopes ...Scope) ([]T, error) {
	var results []T
	q := r.query(ctx, scopes)
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}
	return results, nil
}

// Add inserts the entity and returns it with its store-assigned identity
// populated.
func (r *Repository[T]) Add(ctx context.Context, entity *T) (*T, error) {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	return entity, nil
}

// Update replaces the whole record. It returns ErrConcurrency when the
// record no longer exists. Save is not used here: its zero-rows insert
// fallback would silently resurrect a concurrently deleted record.
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	result := r.db.WithContext(ctx).Model(entity).Select("*").Updates(entity)
	if result.Error != nil {
		return fmt.Errorf("update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrConcurrency
	}
	return nil
}

// Delete removes the entity. Types implementing model.SoftDeletable are
// marked deleted and persisted instead of physically removed.
func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	if sd, ok := any(entity).(model.SoftDeletable); ok {
		sd.MarkDeleted()
		return r.Update(ctx, entity)
	}
	if err := r.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// GetPaged returns the 1-based page of records matching the scopes together
// with the total count of the full filtered set. A page beyond the last one
// yields an empty item slice with the true count.
func (r *Repository[T]) GetPaged(ctx context.Context, pageNumber, pageSize int, scopes ...Scope) ([]T, int64, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}

	var total int64
	if err := r.query(ctx, scopes).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	var items []T
	err := r.query(ctx, scopes).
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get paged: %w", err)
	}
	return items, total, nil
}

// Exists reports whether any record matches the scopes.
func (r *Repository[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	var count int64
	if err := r.query(ctx, scopes).Model(new(T)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return count > 0, nil
}

func (r *Repository[T]) query(ctx context.Context, scopes []Scope) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, s := range scopes {
		q = s(q)
	}
	return q
}
