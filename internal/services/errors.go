package services

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound covers both missing ids and ids scoped to another store; the
// two are indistinguishable on purpose.
var ErrNotFound = errors.New("not found")

// ErrStatusFinal rejects transitions out of completed/cancelled.
var ErrStatusFinal = errors.New("order already finalized")

// ValidationError carries field-level messages back to the caller with the
// original input preserved for re-display.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, dup := e.Fields[field]; !dup {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
