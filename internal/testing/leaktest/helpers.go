// Package leaktest provides goroutine accounting for tests that exercise
// fire-and-forget work, such as the detached price cache refreshes.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker records a goroutine baseline and later verifies the count
// returned to it
type GoroutineChecker struct {
	baseline int
	t        testing.TB
}

// NewGoroutineChecker snapshots the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	// Let goroutines started by earlier tests wind down first
	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		baseline: runtime.NumGoroutine(),
		t:        t,
	}
}

// Check fails the test when more than tolerance goroutines outlive the
// baseline. It waits briefly so goroutines in their final instructions are
// not counted as leaks.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	runtime.Gosched()
	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	leaked := runtime.NumGoroutine() - g.baseline
	if leaked > tolerance {
		g.t.Errorf("goroutine leak: baseline=%d, leaked=%d (tolerance=%d)",
			g.baseline, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails the test if any goroutine it
// started is still alive afterwards
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
