package repository

import "errors"

var (
	// ErrInvalidCaptureURL indicates an invalid capture URL
	ErrInvalidCaptureURL = errors.New("invalid capture URL")

	// ErrCaptureNotFound indicates the capture was not found
	ErrCaptureNotFound = errors.New("capture not found")
)
