package engine

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock so fill timestamps are
// deterministic in tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

// mustOrder builds an order for a test, failing the test on a constructor
// error.
func mustOrder(t *testing.T, instr Instrument, qty int64, side Side, owner string, clock *fakeClock) *Order {
	t.Helper()
	o, err := NewOrder(instr, qty, side, owner, clock)
	if err != nil {
		t.Fatalf("NewOrder(%+v, %d, %v, %q): %v", instr, qty, side, owner, err)
	}
	return o
}
