// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
)

// ErrDuplicateName is the sentinel error wrapped by DuplicateNameError.
var ErrDuplicateName = errors.New("duplicate extension name")

// DuplicateNameError records a second extension directory claiming a name
// already present in the snapshot. The first occurrence (in traversal order)
// wins; the duplicate is reported as a soft failure.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("extension name %q is declared by more than one directory", e.Name)
}

// Unwrap returns ErrDuplicateName so callers can use errors.Is.
func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }
