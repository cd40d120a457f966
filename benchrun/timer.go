// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"fmt"
	"time"
)

// A TimerError reports misuse of a run's timer, such as stopping a
// timer that is already stopped. It is a programming error in the
// benchmark body and fails the run that raised it.
type TimerError struct {
	Op  string // the timer operation that was misused
	Msg string
}

func (e *TimerError) Error() string {
	return fmt.Sprintf("timer misuse: %s: %s", e.Op, e.Msg)
}

// A timer accumulates the running wall-clock time of one measured run,
// excluding intervals while it is stopped. The zero value is stopped
// with no accumulated time; reset starts it.
//
// Timer state is owned by a single run and must not be shared across
// runs. Stopping a stopped timer or starting a running one panics
// with a *TimerError, which the run driver recovers as a failure of
// that run.
type timer struct {
	now     func() time.Time // clock; nil means time.Now
	start   time.Time
	total   time.Duration
	running bool
}

func (t *timer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// reset zeroes the accumulated time and marks the timer running from
// now, regardless of its previous state.
func (t *timer) reset() {
	t.total = 0
	t.start = t.clock()
	t.running = true
}

// pause freezes accumulation.
func (t *timer) pause() {
	if !t.running {
		panic(&TimerError{"pause", "timer is already stopped"})
	}
	t.total += t.clock().Sub(t.start)
	t.running = false
}

// resume restarts accumulation after a pause.
func (t *timer) resume() {
	if t.running {
		panic(&TimerError{"resume", "timer is already running"})
	}
	t.start = t.clock()
	t.running = true
}

// elapsed returns the accumulated running time, excluding stopped
// intervals.
func (t *timer) elapsed() time.Duration {
	if t.running {
		return t.total + t.clock().Sub(t.start)
	}
	return t.total
}
