package diagram

import (
	"errors"
	"fmt"
)

// Command-time errors. A command that fails with one of these leaves the
// store unchanged; the interaction session continues.
var (
	// ErrInvalidReference means a command referenced a nonexistent entity id.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrCycleDetected means a group mutation would make the membership
	// relation cyclic.
	ErrCycleDetected = errors.New("cycle detected")
)

// MalformedLayoutError reports the first schema or reference violation found
// while validating a layout document. It is a load-time error; the caller
// decides whether to reject the load or substitute a fallback document.
type MalformedLayoutError struct {
	Field     string // which part of the document is broken, e.g. "groups"
	Reference string // the offending id
	Reason    string
}

func (e *MalformedLayoutError) Error() string {
	if e.Reference == "" {
		return fmt.Sprintf("malformed layout: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed layout: %s: %s (%s)", e.Field, e.Reference, e.Reason)
}
