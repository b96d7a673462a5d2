package models

import "errors"

// Sentinel errors for configuration and model resolution.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnknownProvider indicates a model identifier names a provider
	// this build does not know how to reach.
	ErrUnknownProvider = errors.New("unknown model provider")

	// ErrInvalidModel indicates a malformed model identifier. Identifiers
	// take the form "<provider>/<model-name>".
	ErrInvalidModel = errors.New("invalid model identifier")

	// ErrInvalidIndexDist indicates an unsupported index distance type.
	ErrInvalidIndexDist = errors.New("invalid index distance type")

	// ErrInvalidTableMethod indicates an unsupported table method.
	ErrInvalidTableMethod = errors.New("invalid table method")

	// ErrInvalidSchedule indicates a schedule that is neither a valid cron
	// expression nor the realtime sentinel.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidJob indicates a job record that fails basic validation,
	// such as an empty name or an empty column list.
	ErrInvalidJob = errors.New("invalid job")
)
