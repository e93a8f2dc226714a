//go:build linux

package rtnl

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// minSendBuf and minRecvBuf are the socket buffer floors from spec.md §6.
const (
	minSendBuf = 64 * 1024
	minRecvBuf = 1024 * 1024
	// recvBufferSize is the size of the read buffer used for each recvfrom,
	// large enough to avoid truncation on hosts with large page sizes.
	recvBufferSize = 64 * 1024
)

// Socket owns the kernel routing-information control channel: an
// AF_NETLINK/NETLINK_ROUTE socket bound for link, address, route and
// generic-notify multicast groups.
type Socket struct {
	fd int
}

// Open creates, sizes and binds the control channel.
func Open() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, unix.NETLINK_ROUTE)
	if err != nil {
		return nil, fmt.Errorf("rtnl: socket: %w", err)
	}
	s := &Socket{fd: fd}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, minSendBuf); err != nil {
		s.Close()
		return nil, fmt.Errorf("rtnl: setsockopt(SO_SNDBUF): %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, minRecvBuf); err != nil {
		s.Close()
		return nil, fmt.Errorf("rtnl: setsockopt(SO_RCVBUF): %w", err)
	}

	addr := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: subscribeGroups}
	if err := unix.Bind(fd, addr); err != nil {
		s.Close()
		return nil, fmt.Errorf("rtnl: bind: %w", err)
	}
	return s, nil
}

// Fd returns the underlying file descriptor, for composing into a poll set
// alongside the shutdown signal source.
func (s *Socket) Fd() int {
	return s.fd
}

// Send transmits one fully-serialized outbound message. It implements
// pkg/queue.Sender.
func (s *Socket) Send(b []byte) error {
	dest := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(s.fd, b, 0, dest); err != nil {
		return fmt.Errorf("rtnl: sendto: %w", err)
	}
	return nil
}

// ReceiveOne performs a single non-blocking recvfrom and parses whatever
// datagram, if any, it returns. ok is false when the socket would block
// (EAGAIN), which is the drain's stopping condition (spec.md §4.6).
func (s *Socket) ReceiveOne() (events []Event, ok bool, err error) {
	buf := make([]byte, recvBufferSize)
	n, _, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, false, nil
		}
		if err == unix.EINTR {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("rtnl: recvfrom: %w", err)
	}
	return ParseMessages(buf[:n]), true, nil
}

// Close releases the control channel.
func (s *Socket) Close() error {
	return unix.Close(s.fd)
}
