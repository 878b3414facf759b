package scheduler

import (
	"sync"
	"time"

	"task-reminder/backend/internal/models"

	"github.com/gofrs/uuid"
)

// Notifier delivers a reminder when an armed timer fires.
type Notifier interface {
	Notify(title string)
}

// Scheduler keeps exactly one armed timer per future task. The timer set is
// rebuilt wholesale on every Resync, so callers only need to hand it the
// full current task list after any change.
type Scheduler struct {
	mu       sync.Mutex
	timers   map[uuid.UUID]*time.Timer
	notifier Notifier
}

func New(notifier Notifier) *Scheduler {
	return &Scheduler{
		timers:   make(map[uuid.UUID]*time.Timer),
		notifier: notifier,
	}
}

// Resync cancels every armed timer and re-arms one timer per task whose
// ScheduledAt is strictly after now. Tasks already due are skipped, never
// fired retroactively. Calling Resync twice with the same input arms the
// same set, never duplicates.
func (s *Scheduler) Resync(tasks []models.Task, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()

	for _, task := range tasks {
		delay := task.ScheduledAt.Sub(now)
		if delay <= 0 {
			continue
		}

		// Tolerate a duplicate id in the input: disarm the earlier
		// handle before it is overwritten.
		if prev, ok := s.timers[task.ID]; ok {
			prev.Stop()
		}

		title := task.Title
		s.timers[task.ID] = time.AfterFunc(delay, func() {
			s.notifier.Notify(title)
		})
	}
}

// Teardown cancels all armed timers. Nothing fires after it returns.
func (s *Scheduler) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
}

func (s *Scheduler) teardownLocked() {
	for id, timer := range s.timers {
		// Stop reports false for a timer that already fired; the entry
		// is stale either way.
		timer.Stop()
		delete(s.timers, id)
	}
}

// Armed reports how many timers are currently armed.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// ArmedIDs returns the ids of all currently armed timers.
func (s *Scheduler) ArmedIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	return ids
}
