package models

import (
	"fmt"
	"strings"
)

// ValidationError reports a target that is not a usable domain or URL.
type ValidationError struct {
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("enter a valid domain such as \"yoursite.com\" (got %q)", e.Input)
}

// AttemptError is the failure of a single retrieval strategy.
type AttemptError struct {
	Strategy string
	Reason   string
}

// RetrievalError is returned when every retrieval strategy failed.
// Attempts are kept in the order they were tried.
type RetrievalError struct {
	URL      string
	Attempts []AttemptError
}

func (e *RetrievalError) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, a.Reason)
	}
	return fmt.Sprintf("could not fetch %s after trying %d route(s); the site may block automated requests or be unavailable (%s)",
		e.URL, len(e.Attempts), strings.Join(reasons, " / "))
}

// ParseError reports HTML that could not be turned into a document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("the page HTML could not be parsed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError reports a history persistence failure. It never reaches callers
// of the audit; the history layer logs and drops it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
