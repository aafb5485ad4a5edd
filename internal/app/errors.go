package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInvalidIDStrategy = errors.New("invalid id strategy")
)
