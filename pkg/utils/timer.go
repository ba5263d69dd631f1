package utils

import (
	"sync"
	"time"
)

// StageTimer records wall-clock durations for the sequential stages of
// a report run (extract, reconstruct, aggregate, render). Stages are
// reported in the order they were started.
type StageTimer struct {
	mu      sync.Mutex
	started time.Time
	order   []string
	stages  map[string]time.Duration
	marks   map[string]time.Time
}

// NewStageTimer creates a StageTimer anchored at the current time.
func NewStageTimer() *StageTimer {
	return &StageTimer{
		started: time.Now(),
		stages:  make(map[string]time.Duration),
		marks:   make(map[string]time.Time),
	}
}

// Start begins timing the named stage and returns a stop function.
// Stopping twice has no effect.
func (t *StageTimer) Start(name string) func() {
	t.mu.Lock()
	if _, seen := t.marks[name]; !seen {
		t.order = append(t.order, name)
	}
	t.marks[name] = time.Now()
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			t.stages[name] = time.Since(t.marks[name])
			t.mu.Unlock()
		})
	}
}

// Duration returns the recorded duration for a stage, or zero if the
// stage never completed.
func (t *StageTimer) Duration(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[name]
}

// Total returns the elapsed time since the timer was created.
func (t *StageTimer) Total() time.Duration {
	return time.Since(t.started)
}

// Report logs one line per completed stage plus a total.
func (t *StageTimer) Report(log Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, name := range t.order {
		if d, ok := t.stages[name]; ok {
			log.Debug("stage %s: %v", name, d)
		}
	}
	log.Debug("total: %v", time.Since(t.started))
}
