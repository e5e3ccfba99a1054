package dreal

import (
	"fmt"
	"sync/atomic"
)

// interruptFlag is the process-wide, atomically-read interrupt flag
// described in spec §5: set by an asynchronous handler (e.g. Ctrl-C),
// polled at every Fixpoint iteration and every ICP pop point, and
// cleared by the solver entry point on return. It is never consulted
// from library construction paths.
var interruptFlag atomic.Bool

// SetInterrupt marks the process-wide interrupt flag. Safe to call from
// a signal handler goroutine.
func SetInterrupt() { interruptFlag.Store(true) }

// ClearInterrupt clears the process-wide interrupt flag. Called by the
// solver entry point (Context.CheckSatisfiability, Minimize) on
// every return path, so a stale interrupt never leaks into the next
// solve.
func ClearInterrupt() { interruptFlag.Store(false) }

// IsInterrupted reports the current flag state without side effects.
func IsInterrupted() bool { return interruptFlag.Load() }

// PollInterrupt returns ErrInterrupted if the flag is set, otherwise
// nil. Every Fixpoint sweep and every ICP pop point calls this.
func PollInterrupt() error {
	if interruptFlag.Load() {
		return fmt.Errorf("%w: interrupt flag observed at poll point", ErrInterrupted)
	}
	return nil
}
