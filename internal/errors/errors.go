// SPDX-License-Identifier: AGPL-3.0-only
package errors

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller errors so HTTP handlers can map them to a 400.
var ErrInvalidInput = errors.New("invalid input")

// NotFound creates a formatted "not found" error
func NotFound(resource, id string) error {
	return fmt.Errorf("resource not found: %s with ID %s", resource, id)
}

// UnknownTool creates an error for a tool invocation naming a tool absent
// from the catalog.
func UnknownTool(name string) error {
	return fmt.Errorf("unknown tool: %s", name)
}

// InvalidInput creates a formatted "invalid input" error
func InvalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// Internal creates a formatted "internal error" error
func Internal(err error) error {
	return fmt.Errorf("internal error: %v", err)
}
