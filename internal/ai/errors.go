package ai

import "fmt"

// CollaboratorError wraps a failure from the model backend so callers can
// distinguish upstream faults from their own validation errors.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Err: err}
}
