package view

import (
	"fmt"

	"github.com/KaramelBytes/gymdash/internal/dataset"
)

// InsufficientColumnsError indicates fewer than two numeric columns for a
// correlation matrix.
type InsufficientColumnsError struct {
	Found int
}

func (e *InsufficientColumnsError) Error() string {
	return fmt.Sprintf("correlation needs at least 2 numeric columns, found %d", e.Found)
}

// ColumnKindError indicates a view was requested on a column of the wrong kind.
type ColumnKindError struct {
	Column string
	Kind   dataset.Kind
	Want   dataset.Kind
}

func (e *ColumnKindError) Error() string {
	return fmt.Sprintf("column %q is %s, want %s", e.Column, e.Kind, e.Want)
}

// UnknownViewError indicates a view name outside Kinds.
type UnknownViewError struct {
	Kind string
}

func (e *UnknownViewError) Error() string {
	return fmt.Sprintf("unknown view %q (use categorical, histogram, scatter or heatmap)", e.Kind)
}
