package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that have no match.
var ErrNotFound = errors.New("not found")

// MissingFieldError reports a required column absent from a record batch.
type MissingFieldError struct {
	Table string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("table %q is missing required field %q", e.Table, e.Field)
}

// EmptyEntitySetError reports that no valid entity could be built for a type.
type EmptyEntitySetError struct {
	Type  EntityType
	Table string
}

func (e *EmptyEntitySetError) Error() string {
	return fmt.Sprintf("no valid %s entities could be built from table %q", e.Type, e.Table)
}
