//go:build linux

package daemon

import (
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"

	"github.com/dynmhs/dynmhs/pkg/handlers"
	"github.com/dynmhs/dynmhs/pkg/queue"
)

// Loop is the steady-state Operational-mode event loop: a single
// unix.Poll wait over the control socket and the shutdown signal pipe,
// draining whichever is ready and flushing the outbound queue on every
// wakeup (spec.md §4.6).
type Loop struct {
	Transport  Transport
	Signal     *ShutdownSignal
	Dispatcher *handlers.Dispatcher
	Queue      *queue.Queue
	Log        logr.Logger
}

// NewLoop returns a ready-to-use Loop.
func NewLoop(t Transport, sig *ShutdownSignal, d *handlers.Dispatcher, q *queue.Queue, log logr.Logger) *Loop {
	return &Loop{Transport: t, Signal: sig, Dispatcher: d, Queue: q, Log: log}
}

// Run blocks until a shutdown signal arrives or the transport fails
// unrecoverably. It returns nil on a clean shutdown request.
func (l *Loop) Run() error {
	socketFd := int32(l.Transport.Fd())
	signalFd := int32(l.Signal.Fd())

	for {
		fds := []unix.PollFd{
			{Fd: socketFd, Events: unix.POLLIN},
			{Fd: signalFd, Events: unix.POLLIN},
		}
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("daemon: poll: %w", err)
		}

		if fds[0].Revents != 0 {
			// Any revent (POLLIN, or an error/hangup condition) is worth a
			// drain attempt: ReceiveOne's own EAGAIN handling absorbs a
			// spurious wakeup, and a real error surfaces through it. The
			// socket is always drained before the shutdown signal is even
			// checked, so a wakeup that has both fds ready never skips
			// inbound data on its way out (spec.md §4.6).
			if err := l.drainInbound(); err != nil {
				return err
			}
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			l.Signal.Drain()
			l.Log.Info("shutdown signal received")
			return nil
		}

		if err := l.Queue.Drain(l.Transport); err != nil {
			return fmt.Errorf("daemon: outbound queue: %w", err)
		}
	}
}

// drainInbound performs non-blocking recvfroms until the socket would
// block, dispatching every event as it arrives.
func (l *Loop) drainInbound() error {
	for {
		events, ok, err := l.Transport.ReceiveOne()
		if err != nil {
			return fmt.Errorf("daemon: inbound receive: %w", err)
		}
		for _, ev := range events {
			l.Dispatcher.Dispatch(ev)
		}
		if !ok {
			return nil
		}
	}
}
