package services

import "github.com/foodgram-api/models"

// RequireAuthenticated fails for anonymous requesters
func RequireAuthenticated(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireStaff fails unless the requester is a staff member
func RequireStaff(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsStaff {
		return ErrPermissionDenied
	}
	return nil
}

// RequireOwnerOrStaff fails unless the requester authored the object or is staff.
// Orphaned objects (nil author) are staff-only.
func RequireOwnerOrStaff(actor *models.User, authorID *uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.IsStaff {
		return nil
	}
	if authorID == nil || *authorID != actor.ID {
		return ErrPermissionDenied
	}
	return nil
}

func viewerID(actor *models.User) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}
