package manifest

import (
	"errors"
	"fmt"
)

// ErrMissingField is reported when a required manifest field is absent at the
// point of access. The wrapped message names the field.
var ErrMissingField = errors.New("missing manifest field")

// SyntaxError reports malformed TOML in a manifest or lockfile.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
