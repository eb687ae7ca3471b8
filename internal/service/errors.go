package service

import "errors"

// ErrNotFound indicates the requested resource was not found.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so callers cannot tell which check failed.
var ErrInvalidCredentials = errors.New("Credenciales inválidas")

// ErrRoleNotSeeded indicates a role reference row expected from migrations is
// missing. It is a configuration fault, never the caller's mistake.
var ErrRoleNotSeeded = errors.New("role reference data is not seeded")

// ValidationError represents a bad-request condition (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError represents a conflict condition (HTTP 409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
