package snippet

import (
	"errors"
	"fmt"
)

// Kind classifies a snippet error.
type Kind int

const (
	// KindInvalidIdentifier means a snippet name breaks the identifier rules.
	KindInvalidIdentifier Kind = iota + 1
	// KindSelfReference means a snippet lists itself as a dependency.
	KindSelfReference
	// KindUnknownSnippet means a requested name is not in the registry.
	KindUnknownSnippet
	// KindCycleDetected means the requested closure is not acyclic.
	KindCycleDetected
	// KindUnknownDependency means a stored snippet depends on a missing name.
	KindUnknownDependency
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidIdentifier:
		return "invalid identifier"
	case KindSelfReference:
		return "self-referential dependency"
	case KindUnknownSnippet:
		return "unknown snippet"
	case KindCycleDetected:
		return "cycle detected"
	case KindUnknownDependency:
		return "unknown dependency"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind. Every *Error matches the sentinel of its kind
// with errors.Is.
var (
	ErrInvalidIdentifier = errors.New("snippet: invalid identifier")
	ErrSelfReference     = errors.New("snippet: self-referential dependency")
	ErrUnknownSnippet    = errors.New("snippet: unknown snippet")
	ErrCycleDetected     = errors.New("snippet: cycle detected")
	ErrUnknownDependency = errors.New("snippet: unknown dependency")
)

var sentinels = map[Kind]error{
	KindInvalidIdentifier: ErrInvalidIdentifier,
	KindSelfReference:     ErrSelfReference,
	KindUnknownSnippet:    ErrUnknownSnippet,
	KindCycleDetected:     ErrCycleDetected,
	KindUnknownDependency: ErrUnknownDependency,
}

// Error is returned by every registry operation that rejects its input.
// Message is shown to end users as is.
type Error struct {
	Kind Kind
	// Name is the offending identifier, if any.
	Name string
	// Path holds the cycle for KindCycleDetected.
	Path    []string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newError(kind Kind, name, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidIdentifierErr returns true if err is or wraps ErrInvalidIdentifier.
func IsInvalidIdentifierErr(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsSelfReferenceErr returns true if err is or wraps ErrSelfReference.
func IsSelfReferenceErr(err error) bool {
	return errors.Is(err, ErrSelfReference)
}

// IsUnknownSnippetErr returns true if err is or wraps ErrUnknownSnippet.
func IsUnknownSnippetErr(err error) bool {
	return errors.Is(err, ErrUnknownSnippet)
}

// IsCycleErr returns true if err is or wraps ErrCycleDetected.
func IsCycleErr(err error) bool {
	return errors.Is(err, ErrCycleDetected)
}

// IsUnknownDependencyErr returns true if err is or wraps ErrUnknownDependency.
func IsUnknownDependencyErr(err error) bool {
	return errors.Is(err, ErrUnknownDependency)
}
