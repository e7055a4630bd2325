package entities

import "errors"

var (
	// ErrConfiguration is returned when a page type lacks the template, matcher
	// or field an operation needs.
	ErrConfiguration = errors.New("configuration error")

	// ErrPageState is returned when a page is asserted loaded but is not.
	ErrPageState = errors.New("page state error")

	// ErrTimeout is returned when a polling or explicit-wait budget runs out.
	ErrTimeout = errors.New("timeout")

	// ErrElementNotFound is returned by single-element lookups that match nothing.
	ErrElementNotFound = errors.New("element not found")

	// ErrStaleElement is returned when a previously resolved element has been
	// detached from the document.
	ErrStaleElement = errors.New("stale element reference")
)
