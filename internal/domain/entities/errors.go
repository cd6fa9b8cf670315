package entities

import "errors"

var (
	// ErrDiscoveryFailed aborts the whole job before any message is emitted.
	ErrDiscoveryFailed = errors.New("discovery failed")
	// ErrAnalyzeFailed is isolated to the dependency being analyzed.
	ErrAnalyzeFailed = errors.New("analyze failed")
	// ErrUpdateFailed is isolated to one project and dependency.
	ErrUpdateFailed = errors.New("update failed")
	// ErrInconsistentState flags an update that was expected to change files but did not.
	ErrInconsistentState = errors.New("inconsistent state")
	// ErrUnknownEcosystem is returned when no worker is registered for a package manager.
	ErrUnknownEcosystem = errors.New("unknown ecosystem")
)

// ErrorType maps a unit error to the error type reported to the hosting layer.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, ErrInconsistentState):
		return "inconsistent_state"
	case errors.Is(err, ErrAnalyzeFailed):
		return "analyze_failed"
	case errors.Is(err, ErrUpdateFailed):
		return "update_failed"
	default:
		return "unknown_error"
	}
}
