package settings

import "fmt"

// ParseError reports a settings document that could not be parsed at all:
// empty input, malformed JSON, or a top-level value that is not an object.
// It is fatal to the whole load operation.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse settings document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a required field that is missing or blank. The
// lenient load path never produces it; it comes from strict validation and
// from mutations given a blank required value.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing or blank", e.Field)
}

// DuplicatePathError reports an add of a monitored directory whose path is
// already in the collection. Paths compare by exact string equality.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("monitored directory already exists: %s", e.Path)
}

// DuplicateLetterError reports an add of a drive mapping whose letter is
// already taken. Letters compare case-insensitively.
type DuplicateLetterError struct {
	Letter string
}

func (e *DuplicateLetterError) Error() string {
	return fmt.Sprintf("drive mapping already exists for letter %s", e.Letter)
}

// NotFoundError reports a remove or set operation whose target key is not
// in the collection. Kind is "directory" or "drive mapping".
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// malformedEntryError reports a collection entry that failed shape
// validation during assembly. The assembler logs it, counts the entry as
// skipped, and moves on; the error never reaches the caller.
type malformedEntryError struct {
	reason string
}

func (e *malformedEntryError) Error() string {
	return e.reason
}
