package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by every lookup failure against the catalog.
	ErrNotFound = errors.New("not found")

	// ErrMalformedContent is matched by catalog documents that violate the
	// structural contract.
	ErrMalformedContent = errors.New("malformed catalog content")
)

// NotFoundError describes a track, module, or step ID that does not resolve.
type NotFoundError struct {
	Kind     string // "track", "module" or "step"
	ID       string
	ModuleID string // set for steps
}

func (e *NotFoundError) Error() string {
	if e.Kind == "step" {
		return fmt.Sprintf("step %q not found in module %q", e.ID, e.ModuleID)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// MalformedContentError lists every structural problem found in a catalog.
type MalformedContentError struct {
	Problems []string
}

func (e *MalformedContentError) Error() string {
	return fmt.Sprintf("catalog validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

func (e *MalformedContentError) Unwrap() error { return ErrMalformedContent }
