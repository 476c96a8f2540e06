package store

import (
	"errors"
	"fmt"

	"github.com/csandman/audnexus/internal/entity"
)

const (
	OpCreate = "creating"
	OpRead   = "reading"
	OpUpdate = "updating"
	OpDelete = "deleting"
	OpSearch = "searching"
)

// OpError attributes a store failure to an operation, kind and asin.
type OpError struct {
	Op   string
	Kind entity.Kind
	Asin string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("an error occurred while %s %s %s in the DB", e.Op, e.Kind, e.Asin)
}

// Unwrap exposes the cause and, for driver failures, entity.ErrStoreUnavailable.
func (e *OpError) Unwrap() []error {
	if errors.Is(e.Err, entity.ErrNotFound) {
		return []error{e.Err}
	}
	return []error{entity.ErrStoreUnavailable, e.Err}
}
