// Package queue implements the FIFO of pending outbound kernel messages.
package queue

import "fmt"

// Request is an owned, serialized outbound kernel message together with
// the request identifier it was assigned. Ownership is exclusive: once a
// Request has been sent it must not be reused.
type Request struct {
	ID    uint32
	Bytes []byte
}

// Sender transmits one serialized message. It is implemented by the
// control channel (pkg/rtnl).
type Sender interface {
	Send(b []byte) error
}

// Queue is a simple FIFO of pending Requests.
type Queue struct {
	pending []Request
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Push enqueues a Request for later transmission.
func (q *Queue) Push(r Request) {
	q.pending = append(q.pending, r)
}

// Len reports how many requests are currently queued.
func (q *Queue) Len() int {
	return len(q.pending)
}

// PendingIDs returns the request identifiers currently queued, in FIFO
// order, without sending or removing anything. Callers that need to await
// acknowledgement of a drain use this to know which ids to wait for.
func (q *Queue) PendingIDs() []uint32 {
	ids := make([]uint32, len(q.pending))
	for i, req := range q.pending {
		ids[i] = req.ID
	}
	return ids
}

// Drain sends every queued request, in FIFO order, through sender. A
// Request is removed from the queue as soon as it is sent. On the first
// send failure, the drain stops; the remaining unsent requests stay in the
// queue and the error is returned to the caller as fatal, per spec.md §4.3.
func (q *Queue) Drain(sender Sender) error {
	for len(q.pending) > 0 {
		req := q.pending[0]
		if err := sender.Send(req.Bytes); err != nil {
			return fmt.Errorf("queue: failed to send request %d: %w", req.ID, err)
		}
		q.pending = q.pending[1:]
	}
	return nil
}

// Clear discards every remaining pending request without sending it. Used
// during shutdown to free stragglers after the final drain.
func (q *Queue) Clear() {
	q.pending = nil
}
