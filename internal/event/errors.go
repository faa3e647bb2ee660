package event

import "fmt"

// SourceUnavailableError indicates that every constituent request for a
// source failed, so the adapter produced nothing at all.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
