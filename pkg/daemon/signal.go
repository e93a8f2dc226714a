package daemon

import (
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignal turns SIGINT/SIGTERM into a pollable file descriptor: a
// self-pipe (the standard trick documented in signal(7)) fed by a single
// forwarding goroutine that does nothing but relay os/signal notifications,
// so the event loop remains the sole actor touching daemon state.
type ShutdownSignal struct {
	r *os.File
	w *os.File
	c chan os.Signal
}

// NewShutdownSignal creates the pipe and starts the forwarding goroutine.
func NewShutdownSignal() (*ShutdownSignal, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	s := &ShutdownSignal{r: r, w: w, c: make(chan os.Signal, 2)}
	signal.Notify(s.c, syscall.SIGINT, syscall.SIGTERM)
	go s.forward()
	return s, nil
}

func (s *ShutdownSignal) forward() {
	for range s.c {
		// Best-effort: if the pipe is full the event loop hasn't drained a
		// prior notification yet, and one byte is all it ever needs to see.
		_, _ = s.w.Write([]byte{0})
	}
}

// Fd returns the read end, for composing into a poll set with the control
// socket.
func (s *ShutdownSignal) Fd() int {
	return int(s.r.Fd())
}

// Drain consumes and discards any bytes currently sitting in the pipe.
func (s *ShutdownSignal) Drain() {
	fd := int(s.r.Fd())
	if err := syscall.SetNonblock(fd, true); err != nil {
		return
	}
	defer syscall.SetNonblock(fd, false)
	buf := make([]byte, 64)
	for {
		n, err := syscall.Read(fd, buf)
		if n <= 0 || err != nil {
			return
		}
	}
}

// Close stops signal delivery and releases the pipe.
func (s *ShutdownSignal) Close() {
	signal.Stop(s.c)
	close(s.c)
	s.r.Close()
	s.w.Close()
}
