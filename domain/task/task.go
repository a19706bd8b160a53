package task

import (
	"time"
)

// Task is a named collection of prompt versions. The variables map is shared
// by every version of the task: editing a value once changes what all
// versions render. Results accumulate append-only.
type Task struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CreatedAt  time.Time         `json:"created_at"`
	ModifiedAt time.Time         `json:"modified_at"`
	Variables  map[string]string `json:"variables"`
	Versions   []Version         `json:"versions"`
	Results    []Result          `json:"results"`
}

// Version is one revision of a system/user prompt pair. Its identity is
// immutable; the prompt fields are mutated in place by autosave flushes.
type Version struct {
	VersionID    string    `json:"version_id"`
	Description  string    `json:"description"`
	SystemPrompt string    `json:"system_prompt"`
	UserPrompt   string    `json:"user_prompt"`
	CreatedAt    time.Time `json:"created_at"`
}

// Result records one rendered-and-executed prompt. Inputs is a snapshot of
// the task variables at execution time, never a live reference, so later
// edits cannot rewrite history.
type Result struct {
	ResultID       string            `json:"result_id"`
	VersionID      string            `json:"version_id"`
	ExecutedAt     time.Time         `json:"executed_at"`
	Inputs         map[string]string `json:"inputs"`
	RenderedPrompt string            `json:"rendered_prompt"`
	Response       string            `json:"response"`
	Model          string            `json:"model"`
}

// VersionFields are the editable fields of a version, staged by the editing
// session and written back on autosave flush.
type VersionFields struct {
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
}

const (
	initialVersionID          = "v1"
	initialVersionDescription = "Initial version"
)

// New builds a task with the seed version every task starts with.
func New(id, name string, now time.Time) *Task {
	return &Task{
		ID:         id,
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
		Variables:  map[string]string{},
		Versions:   []Version{seedVersion(now)},
		Results:    []Result{},
	}
}

func seedVersion(now time.Time) Version {
	return Version{
		VersionID:   initialVersionID,
		Description: initialVersionDescription,
		CreatedAt:   now,
	}
}

// ApplyDefaults fills fields a persisted document may omit: nil collections
// become empty ones, zero timestamps become now, and an empty version list is
// seeded with v1 so the at-least-one-version invariant holds after any load.
func (t *Task) ApplyDefaults(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.ModifiedAt.IsZero() {
		t.ModifiedAt = now
	}
	if t.Variables == nil {
		t.Variables = map[string]string{}
	}
	if len(t.Versions) == 0 {
		t.Versions = []Version{seedVersion(now)}
	}
	if t.Results == nil {
		t.Results = []Result{}
	}
}

// Version returns the version with the given id, or nil.
func (t *Task) Version(versionID string) *Version {
	for i := range t.Versions {
		if t.Versions[i].VersionID == versionID {
			return &t.Versions[i]
		}
	}
	return nil
}

// SnapshotVariables returns an independent copy of the variables map.
func (t *Task) SnapshotVariables() map[string]string {
	snapshot := make(map[string]string, len(t.Variables))
	for k, v := range t.Variables {
		snapshot[k] = v
	}
	return snapshot
}

// Clone returns a deep copy of the task so callers can read it without
// holding the repository lock.
func (t *Task) Clone() *Task {
	clone := *t
	clone.Variables = t.SnapshotVariables()
	clone.Versions = make([]Version, len(t.Versions))
	copy(clone.Versions, t.Versions)
	clone.Results = make([]Result, len(t.Results))
	for i, r := range t.Results {
		clone.Results[i] = *r.Clone()
	}
	return &clone
}

// Clone returns a deep copy of the result, including its inputs snapshot.
func (r *Result) Clone() *Result {
	clone := *r
	clone.Inputs = make(map[string]string, len(r.Inputs))
	for k, v := range r.Inputs {
		clone.Inputs[k] = v
	}
	return &clone
}
