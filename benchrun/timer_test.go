// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"testing"
	"time"
)

// A fakeClock is a scripted clock for deterministic timing tests.
// Benchmark bodies advance it explicitly.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTimerExcludesPauses(t *testing.T) {
	var clk fakeClock
	tm := timer{now: clk.now}

	tm.reset()
	clk.advance(5 * time.Millisecond)
	tm.pause()
	clk.advance(10 * time.Millisecond)
	tm.resume()
	clk.advance(3 * time.Millisecond)

	if got, want := tm.elapsed(), 8*time.Millisecond; got != want {
		t.Errorf("got elapsed %v, want %v", got, want)
	}
}

func TestTimerReset(t *testing.T) {
	var clk fakeClock
	tm := timer{now: clk.now}

	tm.reset()
	clk.advance(time.Second)
	tm.reset()
	clk.advance(2 * time.Millisecond)
	if got, want := tm.elapsed(), 2*time.Millisecond; got != want {
		t.Errorf("got elapsed %v after reset, want %v", got, want)
	}

	// reset must also recover a stopped timer.
	tm.pause()
	tm.reset()
	clk.advance(time.Millisecond)
	if got, want := tm.elapsed(), time.Millisecond; got != want {
		t.Errorf("got elapsed %v after reset of stopped timer, want %v", got, want)
	}
}

// wantTimerError runs f and checks that it panics with a *TimerError.
func wantTimerError(t *testing.T, op string, f func()) {
	t.Helper()
	defer func() {
		e := recover()
		if e == nil {
			t.Fatalf("%s did not panic", op)
		}
		if _, ok := e.(*TimerError); !ok {
			t.Fatalf("%s panicked with %v, want *TimerError", op, e)
		}
	}()
	f()
}

func TestTimerDoublePause(t *testing.T) {
	var clk fakeClock
	tm := timer{now: clk.now}
	tm.reset()
	tm.pause()
	wantTimerError(t, "second pause", tm.pause)
}

func TestTimerResumeRunning(t *testing.T) {
	var clk fakeClock
	tm := timer{now: clk.now}
	tm.reset()
	wantTimerError(t, "resume of running timer", tm.resume)
}
