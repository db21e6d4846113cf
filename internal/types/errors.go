package types

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("file not found")
	ErrInvalidPath      = errors.New("invalid path")
	ErrCancelled        = errors.New("operation cancelled")

	// Guard conditions, rejected before any filesystem mutation.
	ErrAppRunning    = errors.New("application is running")
	ErrProtectedItem = errors.New("item is protected")
	ErrRiskTier      = errors.New("removal not recommended")
)
