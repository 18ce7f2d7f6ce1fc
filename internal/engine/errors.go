package engine

import (
	"errors"
	"fmt"
)

// ErrPageLimit is returned when a document exceeds the configured page ceiling.
var ErrPageLimit = errors.New("page count exceeds limit")

// DocumentOpenError reports that the underlying engine could not open or
// parse the input document at all.
type DocumentOpenError struct {
	Op  string
	Err error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("engine: %s: %v", e.Op, e.Err)
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }

// WidgetAccessError reports a failure reading or mutating a single widget.
// Callers are expected to log it, skip the widget and continue.
type WidgetAccessError struct {
	Field string
	Op    string
	Err   error
}

func (e *WidgetAccessError) Error() string {
	return fmt.Sprintf("engine: %s %q: %v", e.Op, e.Field, e.Err)
}

func (e *WidgetAccessError) Unwrap() error { return e.Err }
