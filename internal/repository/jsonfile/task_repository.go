package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"promptdeck/domain/task"
)

const tasksFileName = "tasks.json"

// TaskRepository keeps the task collection in memory and persists the whole
// tasks.json document after every mutation. A RW mutex serializes access;
// all reads hand out deep copies so no caller ever holds a live reference
// into the store.
type TaskRepository struct {
	mu    sync.RWMutex
	path  string
	tasks []*task.Task

	// Now is the clock used for ids and timestamps, overridable in tests.
	Now func() time.Time
}

func NewTaskRepository(dataDir string) *TaskRepository {
	r := &TaskRepository{
		path: filepath.Join(dataDir, tasksFileName),
		Now:  time.Now,
	}

	var loaded []*task.Task
	if readDocument(r.path, &loaded) {
		now := r.Now()
		for _, t := range loaded {
			t.ApplyDefaults(now)
		}
		r.tasks = loaded
	}
	return r
}

func (r *TaskRepository) persist() error {
	if err := writeDocument(r.path, r.tasks); err != nil {
		return fmt.Errorf("persisting tasks: %w", err)
	}
	return nil
}

// Create appends a new task seeded with version v1 and persists immediately.
// The id carries the collection size as a counter so rapid creation within
// one wall-clock second cannot collide.
func (r *TaskRepository) Create(ctx context.Context, name string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now()
	id := fmt.Sprintf("task_%d_%s", len(r.tasks)+1, now.Format("20060102150405"))
	t := task.New(id, name, now)
	r.tasks = append(r.tasks, t)
	if err := r.persist(); err != nil {
		r.tasks = r.tasks[:len(r.tasks)-1]
		return nil, err
	}
	return t.Clone(), nil
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		all = append(all, *t.Clone())
	}
	return all, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := r.find(id)
	if t == nil {
		return nil, task.ErrNotFound
	}
	return t.Clone(), nil
}

func (r *TaskRepository) Rename(ctx context.Context, id, name string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(id)
	if t == nil {
		return nil, task.ErrNotFound
	}
	t.Name = name
	t.ModifiedAt = r.Now()
	if err := r.persist(); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Delete removes the task and everything it owns. Deleting an unknown id is
// a no-op.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return r.persist()
		}
	}
	return nil
}

// CreateVersion appends version v<N+1> where N is the current version count.
// Version ids are never reused; versions are never removed individually.
func (r *TaskRepository) CreateVersion(ctx context.Context, taskID, description string) (*task.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(taskID)
	if t == nil {
		return nil, task.ErrNotFound
	}
	now := r.Now()
	v := task.Version{
		VersionID:   fmt.Sprintf("v%d", len(t.Versions)+1),
		Description: description,
		CreatedAt:   now,
	}
	t.Versions = append(t.Versions, v)
	t.ModifiedAt = now
	if err := r.persist(); err != nil {
		t.Versions = t.Versions[:len(t.Versions)-1]
		return nil, err
	}
	return &v, nil
}

// UpdateVersion writes the editable fields into the version in place. This is
// the autosave flush target; calling it with unchanged fields re-persists
// identical content, which is safe.
func (r *TaskRepository) UpdateVersion(ctx context.Context, taskID, versionID string, fields task.VersionFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(taskID)
	if t == nil {
		return task.ErrNotFound
	}
	v := t.Version(versionID)
	if v == nil {
		return task.ErrVersionNotFound
	}
	v.Description = fields.Description
	v.SystemPrompt = fields.SystemPrompt
	v.UserPrompt = fields.UserPrompt
	t.ModifiedAt = r.Now()
	return r.persist()
}

// SetVariable inserts or overwrites one entry in the task's shared variable
// map. The map is owned by the task and read through by every version.
func (r *TaskRepository) SetVariable(ctx context.Context, taskID, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(taskID)
	if t == nil {
		return task.ErrNotFound
	}
	t.Variables[name] = value
	t.ModifiedAt = r.Now()
	return r.persist()
}

// AppendResult records an execution outcome. Results are append-only and
// immutable once stored.
func (r *TaskRepository) AppendResult(ctx context.Context, taskID string, result *task.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.find(taskID)
	if t == nil {
		return task.ErrNotFound
	}
	t.Results = append(t.Results, *result.Clone())
	t.ModifiedAt = r.Now()
	if err := r.persist(); err != nil {
		t.Results = t.Results[:len(t.Results)-1]
		return err
	}
	return nil
}

// ResultsByVersion returns the version's results most-recent-first, capped at
// limit (unlimited when limit <= 0).
func (r *TaskRepository) ResultsByVersion(ctx context.Context, taskID, versionID string, limit int) ([]task.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := r.find(taskID)
	if t == nil {
		return nil, task.ErrNotFound
	}
	var results []task.Result
	for i := len(t.Results) - 1; i >= 0; i-- {
		if t.Results[i].VersionID != versionID {
			continue
		}
		results = append(results, *t.Results[i].Clone())
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results, nil
}

// SaveAll re-persists the current collection as-is.
func (r *TaskRepository) SaveAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist()
}

func (r *TaskRepository) find(id string) *task.Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
