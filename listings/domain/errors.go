package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested listing id does not exist.
	ErrNotFound = errors.New("department not found")

	// ErrUnsupportedType indicates an upload with a disallowed file extension.
	ErrUnsupportedType = errors.New("unsupported image type")
)

// ValidationError carries every failed field at once so a client can render
// all field-level problems from a single response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}
