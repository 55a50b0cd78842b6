package model

import "errors"

// Error kinds reported by the core. Errors returned to callers wrap one of these,
// check them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrPermission = errors.New("not permitted")
)
