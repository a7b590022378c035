package entity

import "errors"

var (
	ErrInvalidModel   = errors.New("invalid model")
	ErrDuplicateModel = errors.New("model already registered")
	ErrModelNotFound  = errors.New("model not found")
	ErrMethodNotFound = errors.New("method not found")
	ErrInvalidClass   = errors.New("invalid entity class")
	ErrDuplicateClass = errors.New("entity class already registered")
	ErrClassNotFound  = errors.New("entity class not found")
)
