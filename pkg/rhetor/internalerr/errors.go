package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoAnalysis    = errors.New("text has not been analyzed")
	ErrIndexCorrupt  = errors.New("index corrupt")
)
