package rtnl

func parseLinkEvent(added bool, body []byte) (Event, bool) {
	if len(body) < sizeofIfInfomsg {
		return Event{}, false
	}
	index := int32(byteOrder.Uint32(body[4:8]))
	attrs := walkAttrs(body[sizeofIfInfomsg:])
	name := ""
	if data, ok := findAttr(attrs, iflaIfname); ok {
		name = cString(data)
	}
	kind := LinkRemoved
	if added {
		kind = LinkAdded
	}
	return Event{Kind: kind, LinkIndex: index, LinkName: name}, true
}

// cString trims a NUL-terminated attribute payload to a Go string.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
