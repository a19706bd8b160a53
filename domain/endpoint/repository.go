package endpoint

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an endpoint lookup by name misses.
var ErrNotFound = errors.New("endpoint not found")

// Repository owns the endpoint configuration. Adding or activating an
// endpoint with Active set clears the flag on every other endpoint in the
// same operation, preserving the single-active invariant.
type Repository interface {
	Add(ctx context.Context, e *Endpoint) error
	FindAll(ctx context.Context) ([]Endpoint, error)
	Activate(ctx context.Context, name string) (*Endpoint, error)
	FindActive(ctx context.Context) (*Endpoint, error)
}
