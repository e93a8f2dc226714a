package rtnl

import "net"

// Kind tags the variant carried by an Event. Dispatch on Kind is a plain
// switch in pkg/handlers; there is no dynamic dispatch by message type.
type Kind int

const (
	LinkAdded Kind = iota
	LinkRemoved
	AddressAdded
	AddressRemoved
	RouteAdded
	RouteRemoved
	RuleAdded
	RuleRemoved
	Acknowledgement
	MultipartEnd
	UnexpectedError
)

func (k Kind) String() string {
	switch k {
	case LinkAdded:
		return "LinkAdded"
	case LinkRemoved:
		return "LinkRemoved"
	case AddressAdded:
		return "AddressAdded"
	case AddressRemoved:
		return "AddressRemoved"
	case RouteAdded:
		return "RouteAdded"
	case RouteRemoved:
		return "RouteRemoved"
	case RuleAdded:
		return "RuleAdded"
	case RuleRemoved:
		return "RuleRemoved"
	case Acknowledgement:
		return "Acknowledgement"
	case MultipartEnd:
		return "MultipartEnd"
	case UnexpectedError:
		return "UnexpectedError"
	default:
		return "Unknown"
	}
}

// linkLocalV6 is the fe80::/10 prefix used to recognize IPv6 link-local
// addresses, which spec.md §4.4 excludes from rule generation.
var linkLocalV6 = &net.IPNet{
	IP:   net.ParseIP("fe80::"),
	Mask: net.CIDRMask(10, 128),
}

// IsLinkLocalV6 reports whether ip is an IPv6 link-local address.
func IsLinkLocalV6(ip net.IP) bool {
	v6 := ip.To16()
	if v6 == nil || ip.To4() != nil {
		return false
	}
	return linkLocalV6.Contains(v6)
}

// Event is the tagged union of everything the codec can decode from an
// inbound kernel message, per spec.md §3's Inbound event kinds. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind Kind

	// Seq is the nlmsghdr sequence number the message was sent with. For
	// dump responses (NEW* entries and the closing MultipartEnd) it lets a
	// waiter correlate a stream of messages back to the request that
	// triggered it, the same way AckID correlates a single acknowledgement.
	Seq uint32

	LinkIndex int32
	LinkName  string

	AddrFamily      uint8
	AddrIfIndex     int32
	AddrPrefixLen   uint8
	Addr            net.IP
	AddrIsLinkLocal bool

	Route RouteMsg
	Rule  RuleMsg

	AckID  uint32
	AckErr int32

	Err string
}
