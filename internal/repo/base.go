package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

// Creator builds a fresh entity from a create input.
type Creator[T any] interface {
	Model() *T
}

// Patch is the normalized view of a partial update: only the fields that were
// explicitly set appear in Changes, keyed by column name.
type Patch interface {
	Changes() map[string]any
}

// Fields is the plain key-value form of a partial update.
type Fields map[string]any

func (f Fields) Changes() map[string]any { return f }

// Base is a generic CRUD repository over any entity with an `id` primary key
// column, parameterized by the entity, its create input and its update input.
// Absence is a nil result, never an error; store failures propagate verbatim.
type Base[T any, C Creator[T], U Patch] struct {
	db *gorm.DB
}

func New[T any, C Creator[T], U Patch](db *gorm.DB) *Base[T, C, U] {
	return &Base[T, C, U]{db: db}
}

// DB exposes the underlying handle for specialized queries.
func (r *Base[T, C, U]) DB() *gorm.DB { return r.db }

// Get returns the entity with the given id, or nil when absent.
func (r *Base[T, C, U]) Get(ctx context.Context, id any) (*T, error) {
	var m T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Page returns up to limit entities after skipping skip, in store order.
func (r *Base[T, C, U]) Page(ctx context.Context, skip, limit int) ([]T, error) {
	skip, limit = normalizePage(skip, limit)
	var items []T
	err := r.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new entity built from the input and returns it with the
// store-assigned id populated.
func (r *Base[T, C, U]) Create(ctx context.Context, in C) (*T, error) {
	m := in.Model()
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Update merges the set fields of the update input into the existing entity.
func (r *Base[T, C, U]) Update(ctx context.Context, existing *T, in U) (*T, error) {
	return r.merge(ctx, existing, in.Changes())
}

// UpdateFields is the plain-mapping form of Update. Both forms are identical
// after normalization.
func (r *Base[T, C, U]) UpdateFields(ctx context.Context, existing *T, fields Fields) (*T, error) {
	return r.merge(ctx, existing, fields)
}

func (r *Base[T, C, U]) merge(ctx context.Context, existing *T, changes map[string]any) (*T, error) {
	if len(changes) == 0 {
		return existing, nil
	}
	if err := r.db.WithContext(ctx).Model(existing).Updates(changes).Error; err != nil {
		return nil, err
	}
	// reload so the caller sees exactly what the store holds
	if err := r.db.WithContext(ctx).First(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove deletes the entity with the given id and returns its last-known
// state, or nil when it was already gone.
func (r *Base[T, C, U]) Remove(ctx context.Context, id any) (*T, error) {
	m, err := r.Get(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Count returns the total number of entities of this type.
func (r *Base[T, C, U]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

// Exists reports whether Get would return an entity for the id.
func (r *Base[T, C, U]) Exists(ctx context.Context, id any) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = defaultSkip
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return skip, limit
}
