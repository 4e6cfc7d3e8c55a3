package model

import "errors"

var (
	// Token related errors
	ErrTokenUnset = errors.New("security token not acquired")

	// Workflow related errors
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrRevealNotAvailable   = errors.New("credential reveal window closed")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
