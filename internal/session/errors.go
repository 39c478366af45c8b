// Package session manages per-application session directories: creation,
// artifact I/O, checkpoint detection, and retention cleanup.
package session

import "fmt"

// NotFoundError indicates an expected artifact file is absent. It always
// means "re-run the step that produces this artifact".
type NotFoundError struct {
	SessionID string
	Artifact  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact %s not found in session %s", e.Artifact, e.SessionID)
}

// FormatError indicates a stored (usually user-edited) JSON artifact failed
// to parse or validate.
type FormatError struct {
	Artifact string
	Cause    error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("artifact %s is not valid: %v", e.Artifact, e.Cause)
	}
	return fmt.Sprintf("artifact %s is not valid", e.Artifact)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// StoreError indicates a filesystem-level failure in the session store.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session store: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("session store: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
