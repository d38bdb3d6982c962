// Package scheduler provides a cancellable timer registry keyed by owning
// entity. Cancelling an owner deterministically cancels every pending
// continuation armed for it, so callbacks never act on deleted state.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]map[string]*time.Timer
	logger  *slog.Logger
	stopped bool
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[string]map[string]*time.Timer),
		logger: logger.With("module", "scheduler"),
	}
}

// Schedule arms fn to run after delay, registered under (owner, key). An
// existing timer with the same owner and key is replaced.
func (s *Scheduler) Schedule(owner, key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn("Scheduler stopped, dropping timer", "owner", owner, "key", key)

		return
	}

	if existing, ok := s.timers[owner][key]; ok {
		existing.Stop()
	}

	if s.timers[owner] == nil {
		s.timers[owner] = make(map[string]*time.Timer)
	}

	s.timers[owner][key] = time.AfterFunc(delay, func() {
		s.remove(owner, key)
		fn()
	})
}

// Cancel stops one pending timer. It reports whether a timer was registered.
func (s *Scheduler) Cancel(owner, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[owner][key]
	if !ok {
		return false
	}

	timer.Stop()
	delete(s.timers[owner], key)

	if len(s.timers[owner]) == 0 {
		delete(s.timers, owner)
	}

	return true
}

// CancelOwner stops every pending timer registered for the owner and returns
// how many were cancelled.
func (s *Scheduler) CancelOwner(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := 0

	for key, timer := range s.timers[owner] {
		timer.Stop()
		delete(s.timers[owner], key)
		cancelled++
	}

	delete(s.timers, owner)

	return cancelled
}

// Pending returns the number of timers currently armed for the owner.
func (s *Scheduler) Pending(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers[owner])
}

// Stop cancels all timers and refuses further scheduling.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true

	for owner, keyed := range s.timers {
		for _, timer := range keyed {
			timer.Stop()
		}

		delete(s.timers, owner)
	}
}

func (s *Scheduler) remove(owner, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers[owner], key)

	if len(s.timers[owner]) == 0 {
		delete(s.timers, owner)
	}
}
