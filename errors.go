package restiva

import "errors"

var (
	// ErrNotFound is returned when a repository, blob, or config is absent.
	ErrNotFound = errors.New("not found")
	// ErrMalformedPath is returned when a resource path does not match the
	// protocol grammar /{repo}[/{type}[/{name}]].
	ErrMalformedPath = errors.New("malformed resource path")
)
