package contacts

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation addresses an id that does not
// exist in the store.
var ErrNotFound = errors.New("contact not found")

// ValidationError reports a user-correctable problem with supplied fields,
// such as a missing required name. It is distinct from store faults so the
// web layer can surface it as a 4xx response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ImportError reports a failed bulk import. The whole batch has been rolled
// back; the underlying cause is preserved for logging via Unwrap.
type ImportError struct {
	BatchID string
	Err     error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s failed: %v", e.BatchID, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
