// Package importer converts spreadsheet grids into clients, positions and
// prices.
//
// Column order is never assumed: the header row is found by matching English
// and Chinese synonyms, and every value is defaulted when it cannot be read so
// that a single bad cell never rejects a row.
package importer

import (
	"errors"
	"fmt"
)

// ErrImport is matched by every error that aborts an import.
var ErrImport = errors.New("import failed")

// Error describes why a grid could not be imported. Excerpt holds the content
// that was looked at, to help fix the source.
type Error struct {
	Reason  string
	Excerpt string
	Err     error
}

func (e *Error) Error() string {
	msg := "import failed: " + e.Reason
	if e.Excerpt != "" {
		msg += fmt.Sprintf(" (first row: %s)", e.Excerpt)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match ErrImport.
func (e *Error) Is(target error) bool { return target == ErrImport }
