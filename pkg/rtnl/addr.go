package rtnl

import "net"

func parseAddrEvent(added bool, body []byte) (Event, bool) {
	if len(body) < sizeofIfAddrmsg {
		return Event{}, false
	}
	family := body[0]
	prefixLen := body[1]
	ifIndex := int32(byteOrder.Uint32(body[4:8]))
	attrs := walkAttrs(body[sizeofIfAddrmsg:])

	var addr net.IP
	// IFA_ADDRESS is the prefix address; IFA_LOCAL, when present (always
	// for IPv4), is the actual local address. Prefer LOCAL when present,
	// matching how the kernel itself documents the distinction.
	if data, ok := findAttr(attrs, ifaLocal); ok {
		addr = net.IP(append([]byte(nil), data...))
	} else if data, ok := findAttr(attrs, ifaAddress); ok {
		addr = net.IP(append([]byte(nil), data...))
	}

	kind := AddressRemoved
	if added {
		kind = AddressAdded
	}
	return Event{
		Kind:            kind,
		AddrFamily:      family,
		AddrIfIndex:     ifIndex,
		AddrPrefixLen:   prefixLen,
		Addr:            addr,
		AddrIsLinkLocal: family == afInet6 && IsLinkLocalV6(addr),
	}, true
}
