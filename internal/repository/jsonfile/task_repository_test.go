package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"promptdeck/domain/task"
)

func TestTaskRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("should seed exactly one v1 version", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())

		created, err := repo.Create(ctx, "summarize")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(created.Versions) != 1 {
			t.Fatalf("expected 1 version, got %d", len(created.Versions))
		}
		if created.Versions[0].VersionID != "v1" {
			t.Errorf("expected v1, got %s", created.Versions[0].VersionID)
		}
		if created.Versions[0].Description != "Initial version" {
			t.Errorf("unexpected seed description %q", created.Versions[0].Description)
		}
	})

	t.Run("should generate distinct ids under rapid creation", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		repo.Now = func() time.Time { return fixed }

		seen := map[string]bool{}
		for i := 0; i < 5; i++ {
			created, err := repo.Create(ctx, "t")
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if seen[created.ID] {
				t.Fatalf("duplicate id %s", created.ID)
			}
			seen[created.ID] = true
		}
	})

	t.Run("should persist to tasks.json immediately", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewTaskRepository(dir)

		if _, err := repo.Create(ctx, "summarize"); err != nil {
			t.Fatalf("create: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
		if err != nil {
			t.Fatalf("expected tasks.json to exist: %v", err)
		}
		var onDisk []task.Task
		if err := json.Unmarshal(data, &onDisk); err != nil {
			t.Fatalf("parse tasks.json: %v", err)
		}
		if len(onDisk) != 1 || onDisk[0].Name != "summarize" {
			t.Errorf("unexpected document: %+v", onDisk)
		}
	})
}

func TestTaskRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("should reload an equal task graph", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewTaskRepository(dir)

		created, err := repo.Create(ctx, "translate")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.CreateVersion(ctx, created.ID, "tighter wording"); err != nil {
			t.Fatalf("create version: %v", err)
		}
		if err := repo.SetVariable(ctx, created.ID, "lang", "fr"); err != nil {
			t.Fatalf("set variable: %v", err)
		}
		if err := repo.UpdateVersion(ctx, created.ID, "v2", task.VersionFields{
			Description:  "tighter wording",
			SystemPrompt: "You translate text.",
			UserPrompt:   "Translate to {{lang}}: {{text}}",
		}); err != nil {
			t.Fatalf("update version: %v", err)
		}
		if err := repo.AppendResult(ctx, created.ID, &task.Result{
			ResultID:       "res_1",
			VersionID:      "v2",
			ExecutedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Inputs:         map[string]string{"lang": "fr"},
			RenderedPrompt: "Translate to fr: {{text}}",
			Response:       "ok",
			Model:          "gpt-4o",
		}); err != nil {
			t.Fatalf("append result: %v", err)
		}

		before, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("find before reload: %v", err)
		}

		reloaded := NewTaskRepository(dir)
		after, err := reloaded.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("find after reload: %v", err)
		}

		beforeJSON, _ := json.Marshal(before)
		afterJSON, _ := json.Marshal(after)
		if string(beforeJSON) != string(afterJSON) {
			t.Errorf("round trip lost data:\nbefore %s\nafter  %s", beforeJSON, afterJSON)
		}
	})

	t.Run("should start empty when the document is corrupt", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}

		repo := NewTaskRepository(dir)
		all, err := repo.FindAll(context.Background())
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected empty collection, got %d tasks", len(all))
		}
	})

	t.Run("should seed v1 for a persisted task with no versions", func(t *testing.T) {
		dir := t.TempDir()
		doc := `[{"id":"task_1_20250601120000","name":"bare"}]`
		if err := os.WriteFile(filepath.Join(dir, "tasks.json"), []byte(doc), 0o600); err != nil {
			t.Fatal(err)
		}

		repo := NewTaskRepository(dir)
		loaded, err := repo.FindByID(context.Background(), "task_1_20250601120000")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(loaded.Versions) != 1 || loaded.Versions[0].VersionID != "v1" {
			t.Errorf("expected seeded v1, got %+v", loaded.Versions)
		}
		if loaded.Variables == nil || loaded.Results == nil {
			t.Error("expected collections to default to empty, got nil")
		}
	})
}

func TestTaskRepository_Versions(t *testing.T) {
	ctx := context.Background()

	t.Run("should assign monotonic version ids", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		created, err := repo.Create(ctx, "t")
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		for i, want := range []string{"v2", "v3", "v4"} {
			v, err := repo.CreateVersion(ctx, created.ID, "")
			if err != nil {
				t.Fatalf("create version %d: %v", i, err)
			}
			if v.VersionID != want {
				t.Errorf("expected %s, got %s", want, v.VersionID)
			}
		}
	})

	t.Run("should bump modified_at on version creation", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		repo.Now = func() time.Time { return current }

		created, err := repo.Create(ctx, "t")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		current = current.Add(time.Minute)
		if _, err := repo.CreateVersion(ctx, created.ID, ""); err != nil {
			t.Fatalf("create version: %v", err)
		}

		got, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if !got.ModifiedAt.Equal(current) {
			t.Errorf("expected modified_at %v, got %v", current, got.ModifiedAt)
		}
	})

	t.Run("should reject versions for unknown tasks", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		if _, err := repo.CreateVersion(ctx, "missing", ""); err != task.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("should remove the task and its results", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		created, err := repo.Create(ctx, "t")
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.FindByID(ctx, created.ID); err != task.ErrNotFound {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("should be a no-op for unknown ids", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		if err := repo.Delete(ctx, "missing"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

func TestTaskRepository_Results(t *testing.T) {
	ctx := context.Background()

	appendResult := func(t *testing.T, repo *TaskRepository, taskID, versionID, resultID string) {
		t.Helper()
		err := repo.AppendResult(ctx, taskID, &task.Result{
			ResultID:  resultID,
			VersionID: versionID,
			Inputs:    map[string]string{},
		})
		if err != nil {
			t.Fatalf("append %s: %v", resultID, err)
		}
	}

	t.Run("should list most recent first, filtered by version", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		created, _ := repo.Create(ctx, "t")
		repo.CreateVersion(ctx, created.ID, "")

		appendResult(t, repo, created.ID, "v1", "res_a")
		appendResult(t, repo, created.ID, "v2", "res_b")
		appendResult(t, repo, created.ID, "v1", "res_c")

		results, err := repo.ResultsByVersion(ctx, created.ID, "v1", 50)
		if err != nil {
			t.Fatalf("results: %v", err)
		}
		if len(results) != 2 || results[0].ResultID != "res_c" || results[1].ResultID != "res_a" {
			t.Errorf("unexpected order: %+v", results)
		}
	})

	t.Run("should cap the result list at the limit", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		created, _ := repo.Create(ctx, "t")

		for i := 0; i < 6; i++ {
			appendResult(t, repo, created.ID, "v1", fmt.Sprintf("res_%d", i))
		}
		results, err := repo.ResultsByVersion(ctx, created.ID, "v1", 4)
		if err != nil {
			t.Fatalf("results: %v", err)
		}
		if len(results) != 4 {
			t.Errorf("expected 4 results, got %d", len(results))
		}
		if results[0].ResultID != "res_5" {
			t.Errorf("expected newest first, got %s", results[0].ResultID)
		}
	})

	t.Run("should keep recorded inputs isolated from later edits", func(t *testing.T) {
		repo := NewTaskRepository(t.TempDir())
		created, _ := repo.Create(ctx, "t")
		repo.SetVariable(ctx, created.ID, "x", "1")

		loaded, _ := repo.FindByID(ctx, created.ID)
		err := repo.AppendResult(ctx, created.ID, &task.Result{
			ResultID:  "res_1",
			VersionID: "v1",
			Inputs:    loaded.SnapshotVariables(),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}

		repo.SetVariable(ctx, created.ID, "x", "2")

		results, _ := repo.ResultsByVersion(ctx, created.ID, "v1", 1)
		if results[0].Inputs["x"] != "1" {
			t.Errorf("recorded inputs changed retroactively: %q", results[0].Inputs["x"])
		}
	})
}
