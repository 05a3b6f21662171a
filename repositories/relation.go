package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relation manages a join table of (owner, target) rows guarded by a unique index.
// Favorites, shopping carts and subscriptions are all instances of it.
type Relation[T any] struct {
	db           *gorm.DB
	ownerColumn  string
	targetColumn string
	newRow       func(ownerID, targetID uint) T
}

// NewRelation creates a relation over the table of T
func NewRelation[T any](db *gorm.DB, ownerColumn, targetColumn string, newRow func(ownerID, targetID uint) T) *Relation[T] {
	return &Relation[T]{
		db:           db,
		ownerColumn:  ownerColumn,
		targetColumn: targetColumn,
		newRow:       newRow,
	}
}

// Add inserts the (owner, target) row. The unique index is the source of truth:
// a concurrent double insert surfaces as ErrDuplicate, never as a raw driver error.
func (r *Relation[T]) Add(ctx context.Context, ownerID, targetID uint) (T, error) {
	row := r.newRow(ownerID, targetID)

	exists, err := r.Exists(ctx, ownerID, targetID)
	if err != nil {
		return row, err
	}
	if exists {
		return row, ErrDuplicate
	}
	return r.insert(ctx, ownerID, targetID)
}

func (r *Relation[T]) insert(ctx context.Context, ownerID, targetID uint) (T, error) {
	row := r.newRow(ownerID, targetID)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return row, ErrDuplicate
	}
	return row, err
}

// Remove deletes the (owner, target) row; gorm.ErrRecordNotFound when there was none
func (r *Relation[T]) Remove(ctx context.Context, ownerID, targetID uint) error {
	result := r.db.WithContext(ctx).
		Where(r.ownerColumn+" = ? AND "+r.targetColumn+" = ?", ownerID, targetID).
		Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists checks whether the (owner, target) row is present
func (r *Relation[T]) Exists(ctx context.Context, ownerID, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.ownerColumn+" = ? AND "+r.targetColumn+" = ?", ownerID, targetID).
		Count(&count).Error
	return count > 0, err
}

// TargetsAmong returns which of targetIDs the owner is related to
func (r *Relation[T]) TargetsAmong(ctx context.Context, ownerID uint, targetIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(targetIDs))
	if ownerID == 0 || len(targetIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(r.ownerColumn+" = ? AND "+r.targetColumn+" IN ?", ownerID, targetIDs).
		Pluck(r.targetColumn, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// TargetIDsQuery returns a subquery selecting every target of owner, for use in IN filters
func (r *Relation[T]) TargetIDsQuery(ownerID uint) *gorm.DB {
	return r.db.Model(new(T)).Select(r.targetColumn).Where(r.ownerColumn+" = ?", ownerID)
}

// CountByOwner counts the owner's rows
func (r *Relation[T]) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where(r.ownerColumn+" = ?", ownerID).Count(&count).Error
	return count, err
}
