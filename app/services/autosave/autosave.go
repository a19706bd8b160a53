// Package autosave debounces edit notifications into a single delayed flush.
package autosave

import (
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

// Scheduler owns a single pending timer slot. NotifyEdit cancels whatever is
// pending and re-arms the delay; only an uninterrupted delay fires the flush.
// Flush errors are logged, never raised out of the timer goroutine.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	flush func() error
}

func New(delay time.Duration, flush func() error) *Scheduler {
	return &Scheduler{
		delay: delay,
		flush: flush,
	}
}

// NotifyEdit (re)starts the delay. N notifications inside one delay window
// collapse into one flush.
func (s *Scheduler) NotifyEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	s.timer = nil
	s.mu.Unlock()

	if err := s.flush(); err != nil {
		log.Errorf("autosave flush failed: %s", err)
	}
}

// Flush cancels any pending timer and flushes immediately. Safe to call with
// no pending edits.
func (s *Scheduler) Flush() error {
	s.Stop()
	return s.flush()
}

// Stop cancels any pending flush without firing it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
