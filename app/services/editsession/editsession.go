// Package editsession tracks the fields being edited for a loaded version
// and debounces their persistence through the autosave scheduler.
package editsession

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptdeck/app/services/autosave"
	"promptdeck/domain/task"
)

// Session is the editing context for one task/version pair. Staged fields
// replace each other; only the latest stage is flushed.
type Session struct {
	ID string

	taskID    string
	versionID string
	tasks     task.Repository
	scheduler *autosave.Scheduler

	mu     sync.Mutex
	staged *task.VersionFields
}

// Stage records the current editable fields and re-arms the autosave delay.
func (s *Session) Stage(fields task.VersionFields) {
	s.mu.Lock()
	s.staged = &fields
	s.mu.Unlock()

	s.scheduler.NotifyEdit()
}

// Flush persists the staged fields immediately, bypassing the delay.
func (s *Session) Flush() error {
	return s.scheduler.Flush()
}

// flush writes the staged fields into the loaded version. The staged fields
// are kept afterwards, so a flush with no new edits re-persists identical
// content, which is a safe no-op.
func (s *Session) flush() error {
	s.mu.Lock()
	staged := s.staged
	s.mu.Unlock()

	if staged == nil {
		return nil
	}
	return s.tasks.UpdateVersion(context.Background(), s.taskID, s.versionID, *staged)
}

// Manager hands out one session per task/version pair.
type Manager struct {
	mu       sync.Mutex
	tasks    task.Repository
	delay    time.Duration
	sessions map[string]*Session
}

func NewManager(tasks task.Repository, delay time.Duration) *Manager {
	return &Manager{
		tasks:    tasks,
		delay:    delay,
		sessions: map[string]*Session{},
	}
}

// Stage stages fields on the session for the pair, creating it on first use,
// and returns the session.
func (m *Manager) Stage(taskID, versionID string, fields task.VersionFields) *Session {
	s := m.session(taskID, versionID)
	s.Stage(fields)
	return s
}

// FlushAll flushes every open session immediately. This is the manual
// save-all operation; it returns the first error encountered but flushes the
// remaining sessions regardless.
func (m *Manager) FlushAll() error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Drop forgets the session for the pair, cancelling any pending flush. Used
// when the task or version goes away.
func (m *Manager) Drop(taskID, versionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := taskID + "/" + versionID
	if s, ok := m.sessions[key]; ok {
		s.scheduler.Stop()
		delete(m.sessions, key)
	}
}

// DropTask forgets every session of the task, cancelling pending flushes.
func (m *Manager) DropTask(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := taskID + "/"
	for key, s := range m.sessions {
		if strings.HasPrefix(key, prefix) {
			s.scheduler.Stop()
			delete(m.sessions, key)
		}
	}
}

func (m *Manager) session(taskID, versionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := taskID + "/" + versionID
	if s, ok := m.sessions[key]; ok {
		return s
	}
	s := &Session{
		ID:        uuid.New().String(),
		taskID:    taskID,
		versionID: versionID,
		tasks:     m.tasks,
	}
	s.scheduler = autosave.New(m.delay, s.flush)
	m.sessions[key] = s
	return s
}
