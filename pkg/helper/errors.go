package helper

import "errors"

var (
	ErrInvalidHelper   = errors.New("invalid helper")
	ErrDuplicateHelper = errors.New("helper already registered")
	ErrHelperNotFound  = errors.New("helper not found")
)
