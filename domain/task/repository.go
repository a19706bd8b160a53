package task

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a task or version lookup misses.
var ErrNotFound = errors.New("task not found")

// ErrVersionNotFound is returned when a task exists but the version does not.
var ErrVersionNotFound = errors.New("version not found")

// Repository owns the task collection. Implementations persist after every
// mutation and serialize all access; returned tasks are deep copies, never
// live references into the store.
type Repository interface {
	Create(ctx context.Context, name string) (*Task, error)
	FindAll(ctx context.Context) ([]Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	Rename(ctx context.Context, id, name string) (*Task, error)
	Delete(ctx context.Context, id string) error
	CreateVersion(ctx context.Context, taskID, description string) (*Version, error)
	UpdateVersion(ctx context.Context, taskID, versionID string, fields VersionFields) error
	SetVariable(ctx context.Context, taskID, name, value string) error
	AppendResult(ctx context.Context, taskID string, result *Result) error
	ResultsByVersion(ctx context.Context, taskID, versionID string, limit int) ([]Result, error)
	SaveAll(ctx context.Context) error
}
