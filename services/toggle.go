package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram-api/metrics"
	"github.com/foodgram-api/repositories"
	"gorm.io/gorm"
)

// Toggle adds and removes rows of a join relation and maps storage outcomes
// to ErrAlreadyExists / ErrRelationNotFound
type Toggle[T any] struct {
	name     string
	relation *repositories.Relation[T]
	metrics  *metrics.Metrics
}

// NewToggle wraps a relation; name labels its metrics
func NewToggle[T any](name string, relation *repositories.Relation[T], m *metrics.Metrics) *Toggle[T] {
	return &Toggle[T]{name: name, relation: relation, metrics: m}
}

// Add creates the (owner, target) row
func (t *Toggle[T]) Add(ctx context.Context, ownerID, targetID uint) error {
	_, err := t.relation.Add(ctx, ownerID, targetID)
	switch {
	case err == nil:
		t.record("add", metrics.OutcomeOK)
		return nil
	case errors.Is(err, repositories.ErrDuplicate):
		t.record("add", metrics.OutcomeDuplicate)
		return ErrAlreadyExists
	default:
		t.record("add", metrics.OutcomeError)
		return fmt.Errorf("add %s: %w", t.name, err)
	}
}

// Remove deletes the (owner, target) row
func (t *Toggle[T]) Remove(ctx context.Context, ownerID, targetID uint) error {
	err := t.relation.Remove(ctx, ownerID, targetID)
	switch {
	case err == nil:
		t.record("remove", metrics.OutcomeOK)
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		t.record("remove", metrics.OutcomeMissing)
		return ErrRelationNotFound
	default:
		t.record("remove", metrics.OutcomeError)
		return fmt.Errorf("remove %s: %w", t.name, err)
	}
}

// Reject records an add refused before it reached the store
func (t *Toggle[T]) Reject(action string) {
	t.record(action, metrics.OutcomeRejected)
}

func (t *Toggle[T]) record(action, outcome string) {
	if t.metrics != nil {
		t.metrics.RelationChanged(t.name, action, outcome)
	}
}
