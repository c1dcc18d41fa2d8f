package services

import "errors"

var (
	// ErrNotFound signals a missing rule/character/post; no statistics are
	// mutated when it is returned.
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfig signals a bad rule definition (unknown action type or
	// missing action_config fields); it counts as a rule failure.
	ErrInvalidConfig = errors.New("invalid automation rule config")
)
