package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"promptdeck/domain/endpoint"
)

const configFileName = "config.json"

// configDocument is the persisted shape of config.json.
type configDocument struct {
	Endpoints []endpoint.Endpoint `json:"endpoints"`
}

// EndpointRepository keeps the endpoint configuration in memory and persists
// the whole config.json document after every mutation.
type EndpointRepository struct {
	mu        sync.RWMutex
	path      string
	endpoints []endpoint.Endpoint
}

func NewEndpointRepository(dataDir string) *EndpointRepository {
	r := &EndpointRepository{
		path: filepath.Join(dataDir, configFileName),
	}

	var doc configDocument
	if readDocument(r.path, &doc) {
		r.endpoints = doc.Endpoints
	}
	return r
}

func (r *EndpointRepository) persist() error {
	if err := writeDocument(r.path, configDocument{Endpoints: r.endpoints}); err != nil {
		return fmt.Errorf("persisting endpoints: %w", err)
	}
	return nil
}

// Add appends the endpoint. When it is marked active, the flag is cleared on
// every other endpoint in the same operation so at most one stays active.
func (r *EndpointRepository) Add(ctx context.Context, e *endpoint.Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Active {
		for i := range r.endpoints {
			r.endpoints[i].Active = false
		}
	}
	r.endpoints = append(r.endpoints, *e)
	if err := r.persist(); err != nil {
		r.endpoints = r.endpoints[:len(r.endpoints)-1]
		return err
	}
	return nil
}

func (r *EndpointRepository) FindAll(ctx context.Context) ([]endpoint.Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]endpoint.Endpoint, len(r.endpoints))
	copy(all, r.endpoints)
	return all, nil
}

// Activate marks the named endpoint active and clears all others.
func (r *EndpointRepository) Activate(ctx context.Context, name string) (*endpoint.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var activated *endpoint.Endpoint
	for i := range r.endpoints {
		if r.endpoints[i].Name == name {
			r.endpoints[i].Active = true
			activated = &r.endpoints[i]
		} else {
			r.endpoints[i].Active = false
		}
	}
	if activated == nil {
		return nil, endpoint.ErrNotFound
	}
	if err := r.persist(); err != nil {
		return nil, err
	}
	found := *activated
	return &found, nil
}

// FindActive returns the single active endpoint, or nil when none is
// configured.
func (r *EndpointRepository) FindActive(ctx context.Context) (*endpoint.Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.endpoints {
		if e.Active {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}
