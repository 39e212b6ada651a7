// Package time provides the clock seam used for latency accounting
package time

import (
	"sync"
	"time"
)

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

// Now returns time.Now
func (System) Now() time.Time { return time.Now() }

// Since is time.Since against c
func Since(c Clock, t time.Time) time.Duration { return c.Now().Sub(t) }

// Stepper is a deterministic clock that advances by Step on every Now call
type Stepper struct {
	mu   sync.Mutex
	At   time.Time
	Step time.Duration
}

// Now returns the current instant and advances by Step
func (s *Stepper) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.At
	s.At = s.At.Add(s.Step)
	return t
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
