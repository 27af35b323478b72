package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a malformed search request or settings payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexNotFound signals that an index has neither stored nor configured settings.
	ErrIndexNotFound = errors.New("index not found")
	// ErrCorruptSettings signals stored settings that fail validation.
	ErrCorruptSettings = errors.New("corrupt settings")
)
