package view

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound is the sentinel matched by errors.Is when a
	// logical view name does not resolve to a file on disk. It is a
	// recoverable condition: emit-mode renders report it and produce no
	// output, return-mode renders surface it to the caller.
	ErrTemplateNotFound = errors.New("view not found")

	// ErrCaptureImbalance reports an unmatched open/close on the output
	// capture stack. It indicates a renderer bug rather than a bad view,
	// and is never expected during normal operation.
	ErrCaptureImbalance = errors.New("output capture imbalance")
)

// NotFoundError carries the fully resolved path of a missing view for
// diagnostics. It unwraps to ErrTemplateNotFound.
type NotFoundError struct {
	Name string // logical view name as requested
	Path string // fully resolved path that was checked
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("view %q not found at %s", e.Name, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}
