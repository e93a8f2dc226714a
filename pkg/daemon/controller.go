package daemon

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/dynmhs/dynmhs/pkg/handlers"
	"github.com/dynmhs/dynmhs/pkg/mode"
	"github.com/dynmhs/dynmhs/pkg/queue"
	"github.com/dynmhs/dynmhs/pkg/rtnl"
	"github.com/dynmhs/dynmhs/pkg/sequencer"
)

// Controller drives the two mode transitions: bootstrap
// (Undefined -> Operational) and shutdown (Operational -> Reset).
type Controller struct {
	Transport  Transport
	Seq        *sequencer.Sequencer
	Queue      *queue.Queue
	Dispatcher *handlers.Dispatcher
	Mode       *mode.Mode
	Log        logr.Logger
}

// NewController returns a ready-to-use Controller.
func NewController(t Transport, seq *sequencer.Sequencer, q *queue.Queue, d *handlers.Dispatcher, m *mode.Mode, log logr.Logger) *Controller {
	return &Controller{Transport: t, Seq: seq, Queue: q, Dispatcher: d, Mode: m, Log: log}
}

// Bootstrap runs the startup dump sequence: links, then addresses, then
// routes, then rules, each dumped and synchronously waited for in turn.
// Mode is set to Operational before the first dump is issued, so that the
// address and route entries streamed back for already-managed interfaces
// generate the same rule/route clones a live event would (spec.md §4.2).
func (c *Controller) Bootstrap() error {
	*c.Mode = mode.Operational
	c.Log.Info("bootstrap starting")

	stages := []struct {
		name  string
		build func(uint32) []byte
	}{
		{"links", rtnl.BuildDumpLinks},
		{"addresses", rtnl.BuildDumpAddrs},
		{"routes", rtnl.BuildDumpRoutes},
		{"rules", rtnl.BuildDumpRules},
	}
	for _, stage := range stages {
		if err := c.dumpAndWait(stage.build); err != nil {
			return fmt.Errorf("daemon: bootstrap dump of %s: %w", stage.name, err)
		}
		if err := c.Queue.Drain(c.Transport); err != nil {
			return fmt.Errorf("daemon: bootstrap flush after %s dump: %w", stage.name, err)
		}
	}
	c.Log.Info("bootstrap complete", "mode", c.Mode.String())
	return nil
}

// Shutdown runs the teardown sweep: mode is set to Reset first, so any
// straggling event delivered mid-sweep is handled under reset semantics;
// then rules and routes referencing a configured custom table are dumped
// and deleted, in that order, before the control channel is closed. Rule
// deletions are drained and their acknowledgements awaited before the
// route dump is even issued, so the two sweeps never race (spec.md §5).
func (c *Controller) Shutdown() error {
	*c.Mode = mode.Reset
	c.Log.Info("shutdown sweep starting")

	if err := c.dumpAndWait(rtnl.BuildDumpRules); err != nil {
		c.Log.Info("shutdown rule dump wait failed, continuing", "error", err)
	}
	if err := c.drainAndAwaitAcks(); err != nil {
		c.Log.Info("shutdown rule sweep failed, continuing", "error", err)
	}

	if err := c.dumpAndWait(rtnl.BuildDumpRoutes); err != nil {
		c.Log.Info("shutdown route dump wait failed, continuing", "error", err)
	}
	if err := c.drainAndAwaitAcks(); err != nil {
		c.Log.Info("shutdown route sweep failed, continuing", "error", err)
	}

	c.Queue.Clear()
	c.Log.Info("shutdown sweep complete")
	return c.Transport.Close()
}

// drainAndAwaitAcks sends every currently queued request and then waits,
// one at a time and in the order they were sent, for each one's
// acknowledgement. A per-message kernel error (e.g. "no such route" for a
// route already gone) is logged and never treated as fatal, per spec.md
// §7; a timeout is treated the same way so one missing ack cannot stall
// the rest of the sweep.
func (c *Controller) drainAndAwaitAcks() error {
	ids := c.Queue.PendingIDs()
	if err := c.Queue.Drain(c.Transport); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	for _, id := range ids {
		c.Seq.Await(id)
		if err := c.Seq.Wait(sequencer.DefaultTimeout, c.pollAndDispatch); err != nil {
			c.Log.Info("deletion request not acknowledged, continuing", "id", id, "error", err)
		}
	}
	return nil
}

// dumpAndWait sends one dump request and blocks until the acknowledgement
// that follows its NLMSG_DONE arrives (or the sequencer's default timeout
// elapses), dispatching every
// message received along the way. The actual wait, pollWait, parks on the
// transport's file descriptor via unix.Poll (poll_linux.go) so this
// blocks the single daemon goroutine without busy-waiting.
func (c *Controller) dumpAndWait(build func(uint32) []byte) error {
	id := c.Seq.Next()
	if err := c.Transport.Send(build(id)); err != nil {
		return fmt.Errorf("send dump request: %w", err)
	}
	c.Seq.Await(id)
	return c.Seq.Wait(sequencer.DefaultTimeout, c.pollAndDispatch)
}

// pollAndDispatch waits up to remaining for the transport to become
// readable, then dispatches every event a subsequent non-blocking drain
// yields. It is the poll function threaded into sequencer.Wait.
func (c *Controller) pollAndDispatch(remaining time.Duration) error {
	if err := pollWait(c.Transport.Fd(), remaining); err != nil {
		return err
	}
	for {
		events, ok, err := c.Transport.ReceiveOne()
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		for _, ev := range events {
			c.Dispatcher.Dispatch(ev)
		}
		if !ok {
			return nil
		}
	}
}
