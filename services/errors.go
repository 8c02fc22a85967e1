package services

import "fmt"

// LoadError reports a snapshot fetch failure during the initial load. It is
// fatal: the dashboard never reaches the ready state and the caller should
// surface "cannot initialize".
type LoadError struct {
	Kind string // entity kind being fetched: vehicles, nodes, messages, alerts
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("initial %s load failed: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RefreshError reports a snapshot fetch failure during a periodic refresh
// tick. It is recoverable: the previous store state stays untouched and the
// next tick proceeds unaffected.
type RefreshError struct {
	Kind string
	Err  error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%s refresh failed: %v", e.Kind, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }
