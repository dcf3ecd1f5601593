package sonar

import "fmt"

// ResolutionError reports an issue referencing a component or module key
// absent from the report's component listing.
type ResolutionError struct {
	Key    string
	Module bool
}

func (e *ResolutionError) Error() string {
	if e.Module {
		return fmt.Sprintf("unknown module key %q", e.Key)
	}
	return fmt.Sprintf("unknown component key %q", e.Key)
}

// StructuralError reports a document that is not a usable report: malformed
// JSON or a missing required top-level section.
type StructuralError struct {
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *StructuralError) Unwrap() error { return e.Err }

// FieldError reports an issue record lacking a field that path resolution
// requires.
type FieldError struct {
	Index int
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("issue %d is missing required field %q", e.Index, e.Field)
}
