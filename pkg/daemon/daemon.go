// Package daemon wires the wire codec, sequencer, queue and event handlers
// into the running process: the mode transitions at startup and shutdown,
// and the steady-state event loop in between.
package daemon

import (
	"github.com/dynmhs/dynmhs/pkg/rtnl"
)

// Transport is the subset of *rtnl.Socket the daemon depends on, narrowed to
// an interface so tests can substitute a fake control channel instead of a
// real kernel socket, mirroring the teacher's struct-of-funcs test doubles.
type Transport interface {
	Send(b []byte) error
	ReceiveOne() (events []rtnl.Event, ok bool, err error)
	Fd() int
	Close() error
}
