package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for the schema layer. Callers check these with errors.Is()
// instead of string matching.
var (
	ErrInvalidFragment    = errors.New("invalid schema fragment")
	ErrMissingPlaceholder = errors.New("placeholder not found in template")
)

// CompositionError reports a malformed fragment handed to the composition
// layer. Composition happens at schema-authoring time, so this is a
// programmer error and fails fast.
type CompositionError struct {
	Op       string // "compose", "combine", "embed"
	Fragment interface{}
	Err      error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("schema %s: %v (fragment: %v)", e.Op, e.Err, e.Fragment)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

func compositionErr(op string, fragment interface{}, err error) *CompositionError {
	return &CompositionError{Op: op, Fragment: fragment, Err: err}
}
