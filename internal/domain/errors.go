package domain

import "errors"

var (
	ErrPointNotFound = errors.New("point not found")
	ErrUnknownItem   = errors.New("unknown item")
	ErrNoItems       = errors.New("at least one item is required")
)
