package services

import "errors"

var (
	ErrNotFound           = errors.New("object not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrSelfSubscription   = errors.New("cannot subscribe to yourself")
	ErrRelationNotFound   = errors.New("relation does not exist")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidImage       = errors.New("invalid image")
	ErrIngredientInUse    = errors.New("ingredient is used by recipes")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
)
