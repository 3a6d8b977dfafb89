package pager

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when the query normalizes to nothing.
var ErrEmptyQuery = errors.New("query must not be empty")

// OutOfSequenceError is returned when a caller requests a page other than
// the next sequential one for an existing session.
type OutOfSequenceError struct {
	Query     string
	Requested int
	Want      int
}

// Error implements the error interface.
func (e *OutOfSequenceError) Error() string {
	return fmt.Sprintf(
		"page %d requested for %q, next sequential page is %d",
		e.Requested, e.Query, e.Want,
	)
}

// NoContinuationError is returned when a page beyond 1 is requested but no
// continuation token is stored, either because page 1 was never fetched,
// the session expired, or the previous page was the last one.
type NoContinuationError struct {
	Query     string
	Requested int
}

// Error implements the error interface.
func (e *NoContinuationError) Error() string {
	return fmt.Sprintf(
		"no continuation available for %q at page %d",
		e.Query, e.Requested,
	)
}
