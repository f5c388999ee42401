package services

import "errors"

// Sentinel errors translated to HTTP statuses at the handler boundary.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidFileType  = errors.New("invalid file type")
	ErrFileTooLarge     = errors.New("file exceeds maximum size")
	ErrDefaultTemplate  = errors.New("default template cannot be deleted")
	ErrRender           = errors.New("render failed")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid email or password")
	ErrInvalidToken     = errors.New("invalid or expired token")
)
