package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"promptdeck/domain/endpoint"
)

func TestEndpointRepository_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("should clear the active flag on all other endpoints", func(t *testing.T) {
		repo := NewEndpointRepository(t.TempDir())

		if err := repo.Add(ctx, &endpoint.Endpoint{Name: "first", BaseURL: "http://a", Model: "m1", Active: true}); err != nil {
			t.Fatalf("add first: %v", err)
		}
		if err := repo.Add(ctx, &endpoint.Endpoint{Name: "second", BaseURL: "http://b", Model: "m2", Active: true}); err != nil {
			t.Fatalf("add second: %v", err)
		}

		all, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		activeCount := 0
		for _, e := range all {
			if e.Active {
				activeCount++
				if e.Name != "second" {
					t.Errorf("expected second to be active, got %s", e.Name)
				}
			}
		}
		if activeCount != 1 {
			t.Errorf("expected exactly one active endpoint, got %d", activeCount)
		}
	})

	t.Run("should keep an existing active endpoint when adding an inactive one", func(t *testing.T) {
		repo := NewEndpointRepository(t.TempDir())

		repo.Add(ctx, &endpoint.Endpoint{Name: "first", Active: true})
		repo.Add(ctx, &endpoint.Endpoint{Name: "second", Active: false})

		active, err := repo.FindActive(ctx)
		if err != nil {
			t.Fatalf("find active: %v", err)
		}
		if active == nil || active.Name != "first" {
			t.Errorf("expected first to stay active, got %+v", active)
		}
	})
}

func TestEndpointRepository_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("should make the named endpoint the single active one", func(t *testing.T) {
		repo := NewEndpointRepository(t.TempDir())
		repo.Add(ctx, &endpoint.Endpoint{Name: "first", Active: true})
		repo.Add(ctx, &endpoint.Endpoint{Name: "second"})

		activated, err := repo.Activate(ctx, "second")
		if err != nil {
			t.Fatalf("activate: %v", err)
		}
		if !activated.Active {
			t.Error("expected activated endpoint to report active")
		}

		active, _ := repo.FindActive(ctx)
		if active == nil || active.Name != "second" {
			t.Errorf("expected second active, got %+v", active)
		}
	})

	t.Run("should fail for an unknown name", func(t *testing.T) {
		repo := NewEndpointRepository(t.TempDir())
		if _, err := repo.Activate(ctx, "missing"); err != endpoint.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEndpointRepository_FindActive(t *testing.T) {
	t.Run("should return nil when nothing is active", func(t *testing.T) {
		repo := NewEndpointRepository(t.TempDir())
		active, err := repo.FindActive(context.Background())
		if err != nil {
			t.Fatalf("find active: %v", err)
		}
		if active != nil {
			t.Errorf("expected nil, got %+v", active)
		}
	})
}

func TestEndpointRepository_Load(t *testing.T) {
	t.Run("should round trip through config.json", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewEndpointRepository(dir)
		repo.Add(context.Background(), &endpoint.Endpoint{
			Name:    "openai",
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "sk-test",
			Model:   "gpt-4o",
			Active:  true,
		})

		reloaded := NewEndpointRepository(dir)
		active, err := reloaded.FindActive(context.Background())
		if err != nil {
			t.Fatalf("find active: %v", err)
		}
		if active == nil || active.APIKey != "sk-test" || active.Model != "gpt-4o" {
			t.Errorf("round trip lost fields: %+v", active)
		}
	})

	t.Run("should start empty when config.json is corrupt", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("nope"), 0o600); err != nil {
			t.Fatal(err)
		}

		repo := NewEndpointRepository(dir)
		all, err := repo.FindAll(context.Background())
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected empty, got %d", len(all))
		}
	})
}
