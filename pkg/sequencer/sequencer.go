// Package sequencer allocates request identifiers and correlates one
// outstanding acknowledgement at a time.
package sequencer

import (
	"fmt"
	"time"
)

// initialID is the counter's starting value. Next increments before
// returning, so the first identifier handed out is initialID+1.
const initialID uint32 = 1_000_000_000

// DefaultTimeout is the bounded wait applied to a synchronous
// acknowledgement wait.
const DefaultTimeout = 5 * time.Second

// Sequencer hands out strictly increasing request identifiers and tracks
// at most one awaited acknowledgement. It is not safe for concurrent use;
// the daemon is single-threaded by design (spec.md §5).
type Sequencer struct {
	next    uint32
	waiting bool
	awaited uint32
	lastErr error
}

// New returns a Sequencer whose first allocated id is 1,000,000,001.
func New() *Sequencer {
	return &Sequencer{next: initialID}
}

// Next allocates and returns a fresh request identifier.
func (s *Sequencer) Next() uint32 {
	s.next++
	return s.next
}

// Await records that the caller is now blocked on an acknowledgement for
// id. Only one id may be awaited at a time.
func (s *Sequencer) Await(id uint32) {
	s.waiting = true
	s.awaited = id
	s.lastErr = nil
}

// Waiting reports whether an acknowledgement is currently awaited.
func (s *Sequencer) Waiting() bool {
	return s.waiting
}

// Deliver notifies the sequencer of an inbound acknowledgement. If id
// matches the awaited id, the wait is cleared and the ack's error is
// recorded; otherwise the ack is not for the awaited id and is ignored by
// the sequencer (the caller should log it at trace level).
func (s *Sequencer) Deliver(id uint32, ackErr error) (matched bool) {
	if !s.waiting || id != s.awaited {
		return false
	}
	s.waiting = false
	s.lastErr = ackErr
	return true
}

// Wait blocks, calling poll repeatedly until either the awaited
// acknowledgement arrives (Deliver clears Waiting) or timeout elapses.
// poll should wait for the inbound channel, perform one non-blocking pass
// over it and dispatch whatever events arrive to handlers, which in turn
// call Deliver. Wait returns the error carried by the acknowledgement (nil
// on success), a timeout error, or the first error poll returns.
func (s *Sequencer) Wait(timeout time.Duration, poll func(time.Duration) error) error {
	deadline := time.Now().Add(timeout)
	for s.waiting {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.waiting = false
			return fmt.Errorf("sequencer: timed out waiting for ack of request %d", s.awaited)
		}
		if err := poll(remaining); err != nil {
			return err
		}
	}
	return s.lastErr
}
