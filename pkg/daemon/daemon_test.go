//go:build linux

package daemon

import (
	"math"

	"github.com/dynmhs/dynmhs/pkg/rtnl"
)

// fakeTransport is a hand-rolled test double for Transport. It answers the
// most recent Send according to what kind of request it was: a dump (GET)
// request gets back whatever events were staged via stageDumpContents (if
// any), followed by a MultipartEnd, followed by a trailing Acknowledgement
// — exactly like a real dump, which is "terminated by a multipart-end and
// an acknowledgement" (spec.md §GLOSSARY); any other request (a route/rule
// create or delete) gets back a bare Acknowledgement, like a real
// NLMSG_ERROR ack. Either way it then reports EAGAIN (ok=false) until the
// next Send. Fd intentionally returns a non-negative descriptor that is not
// open: unix.Poll reports such an fd as immediately ready (POLLNVAL) rather
// than blocking, which is exactly the "don't actually wait" behavior these
// tests want without a real socket. (A negative fd would instead be
// ignored by poll and never reported ready.)
type fakeTransport struct {
	sent       [][]byte
	stageQ     [][]rtnl.Event
	answered   bool
	closed     bool
	nextAckErr int32
}

func (f *fakeTransport) Send(b []byte) error {
	f.sent = append(f.sent, append([]byte(nil), b...))
	f.answered = false
	return nil
}

func (f *fakeTransport) ReceiveOne() ([]rtnl.Event, bool, error) {
	if len(f.sent) == 0 || f.answered {
		return nil, false, nil
	}
	f.answered = true
	last := f.sent[len(f.sent)-1]
	seq := seqOf(last)

	if !isDumpRequest(last) {
		ackErr := f.nextAckErr
		f.nextAckErr = 0
		return []rtnl.Event{{Kind: rtnl.Acknowledgement, Seq: seq, AckID: seq, AckErr: ackErr}}, true, nil
	}

	// A dump's own completion ack is never the thing under test here, so it
	// always reports success; stageNextAckErr targets the mutation that
	// follows a dump, not the dump itself.
	var staged []rtnl.Event
	if len(f.stageQ) > 0 {
		staged = f.stageQ[0]
		f.stageQ = f.stageQ[1:]
	}
	ack := rtnl.Event{Kind: rtnl.Acknowledgement, Seq: seq, AckID: seq}
	events := append(append([]rtnl.Event(nil), staged...), rtnl.Event{Kind: rtnl.MultipartEnd, Seq: seq}, ack)
	return events, true, nil
}

func (f *fakeTransport) Fd() int { return math.MaxInt32 }

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// stageDumpContents queues, in order, the pre-MultipartEnd event content
// each successive dump request's response should carry; create and delete
// requests do not consume an entry. A queue entry may be nil for a dump
// that should come back empty.
func (f *fakeTransport) stageDumpContents(stages ...[]rtnl.Event) {
	f.stageQ = append(f.stageQ, stages...)
}

// stageNextAckErr arranges for the very next mutation request's
// acknowledgement to carry the given netlink error code instead of 0.
func (f *fakeTransport) stageNextAckErr(errno int32) {
	f.nextAckErr = errno
}

// seqOf reads the sequence number a Build* function stamped into its
// output, so a test can script a matching response without hardcoding the
// sequencer's internal counter.
func seqOf(raw []byte) uint32 {
	events := rtnl.ParseMessages(raw)
	if len(events) == 0 {
		return 0
	}
	return events[0].Seq
}

// isDumpRequest reports whether raw is one of the four RTM_GET* dump
// requests rather than a route/rule create or delete. ParseMessages has no
// case for the RTM_GET* message types (they carry no useful payload to a
// real inbound-event consumer), so it falls through to UnexpectedError for
// them alone; every mutation request instead parses as its own
// Added/Removed kind. That happens to be exactly the distinction this fake
// needs to make, without duplicating rtnl's message-type constants here.
func isDumpRequest(raw []byte) bool {
	events := rtnl.ParseMessages(raw)
	return len(events) > 0 && events[0].Kind == rtnl.UnexpectedError
}
