package service

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrValidation         = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("admin privileges required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
