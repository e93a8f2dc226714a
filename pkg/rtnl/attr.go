package rtnl

// attribute is a single decoded netlink/rtnetlink attribute (rtattr):
// a type tag and its raw payload.
type attribute struct {
	Type uint16
	Data []byte
}

// encodeAttr serializes one attribute: a 4-byte rtattr header (length,
// type) followed by the payload, padded to a 4-byte boundary. The header's
// length field covers the header itself plus the unpadded payload, per
// RTA_LENGTH; padding bytes beyond that are not counted, per RTA_ALIGN.
func encodeAttr(attrType uint16, data []byte) []byte {
	total := sizeofRtAttr + len(data)
	buf := make([]byte, nlmsgAlign(total))
	byteOrder.PutUint16(buf[0:2], uint16(total))
	byteOrder.PutUint16(buf[2:4], attrType)
	copy(buf[sizeofRtAttr:], data)
	return buf
}

func encodeAttrUint32(attrType uint16, v uint32) []byte {
	data := make([]byte, 4)
	byteOrder.PutUint32(data, v)
	return encodeAttr(attrType, data)
}

// walkAttrs decodes a length-prefixed nested attribute sequence, tolerating
// and skipping unknown attribute types, and silently stopping at the first
// attribute whose declared length would run past the end of b (a truncated
// attribute sequence), per spec.md §4.1.
func walkAttrs(b []byte) []attribute {
	var attrs []attribute
	for len(b) >= sizeofRtAttr {
		length := int(byteOrder.Uint16(b[0:2]))
		attrType := byteOrder.Uint16(b[2:4])
		if length < sizeofRtAttr || length > len(b) {
			return attrs
		}
		attrs = append(attrs, attribute{Type: attrType, Data: b[sizeofRtAttr:length]})
		b = b[nlmsgAlign(length):]
	}
	return attrs
}

func findAttr(attrs []attribute, attrType uint16) ([]byte, bool) {
	for _, a := range attrs {
		if a.Type == attrType {
			return a.Data, true
		}
	}
	return nil, false
}
