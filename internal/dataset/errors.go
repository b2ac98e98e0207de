package dataset

import (
	"fmt"
	"strings"
)

// DataLoadError indicates the source could not be read or parsed into a table.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("load dataset: %v", e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SchemaError indicates a required column is absent or a column has the wrong kind.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: column %q %s", e.Column, e.Reason)
}

// InsufficientDataError indicates a fillable column has no values to impute from.
type InsufficientDataError struct {
	Column   string
	Strategy string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cannot compute %s for %q: no non-missing values", e.Strategy, e.Column)
}

// UnknownColumnError indicates a lookup for a column the dataset does not have.
type UnknownColumnError struct {
	Column    string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown column %q", e.Column)
	}
	return fmt.Sprintf("unknown column %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}
