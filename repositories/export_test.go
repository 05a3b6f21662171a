package repositories

import "context"

// Insert skips the existence check of Add, as a concurrent writer would
func (r *Relation[T]) Insert(ctx context.Context, ownerID, targetID uint) (T, error) {
	return r.insert(ctx, ownerID, targetID)
}
