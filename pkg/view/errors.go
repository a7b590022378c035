package view

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrUnknownKind      = errors.New("unknown template kind")
)
