package rtnl

// RouteMsg is a decoded RTM_NEWROUTE/RTM_DELROUTE payload: the fixed rtmsg
// header fields plus every attribute the kernel sent, kept in order and
// verbatim so a clone can reproduce them byte-for-byte except for the one
// field being overridden.
type RouteMsg struct {
	Family   uint8
	DstLen   uint8
	SrcLen   uint8
	Tos      uint8
	Protocol uint8
	Scope    uint8
	Type     uint8
	Flags    uint32

	attrs []attribute

	// Table is the resolved table id: the RTA_TABLE attribute's 32-bit
	// value if present, else the legacy 8-bit rtmsg.Table field, per
	// spec.md §4.1's stated preference.
	Table uint32
	// OutIfIndex and HasOutIfIndex report RTA_OIF, if present.
	OutIfIndex    int32
	HasOutIfIndex bool
}

func parseRouteMsg(legacyTable uint8, body []byte) (RouteMsg, bool) {
	if len(body) < sizeofRtMsg {
		return RouteMsg{}, false
	}
	m := RouteMsg{
		Family:   body[0],
		DstLen:   body[1],
		SrcLen:   body[2],
		Tos:      body[3],
		Protocol: body[5],
		Scope:    body[6],
		Type:     body[7],
		Flags:    byteOrder.Uint32(body[8:12]),
		Table:    uint32(legacyTable),
	}
	m.attrs = walkAttrs(body[sizeofRtMsg:])
	if data, ok := findAttr(m.attrs, rtaTable); ok && len(data) == 4 {
		m.Table = byteOrder.Uint32(data)
	}
	if data, ok := findAttr(m.attrs, rtaOif); ok && len(data) == 4 {
		m.OutIfIndex = int32(byteOrder.Uint32(data))
		m.HasOutIfIndex = true
	}
	return m, true
}

// serialize re-encodes the rtmsg header and its attributes, unchanged from
// how they were parsed (or as modified by WithTable).
func (m RouteMsg) serialize() []byte {
	legacyTable := uint8(m.Table)
	if m.Table > 0xff {
		legacyTable = 0 // RT_TABLE_UNSPEC: real value only fits the attribute form
	}
	body := make([]byte, sizeofRtMsg)
	body[0] = m.Family
	body[1] = m.DstLen
	body[2] = m.SrcLen
	body[3] = m.Tos
	body[4] = legacyTable
	body[5] = m.Protocol
	body[6] = m.Scope
	body[7] = m.Type
	byteOrder.PutUint32(body[8:12], m.Flags)
	for _, a := range m.attrs {
		body = append(body, encodeAttr(a.Type, a.Data)...)
	}
	return body
}

// WithTable returns a copy of m with its table attribute set to table,
// replacing any existing RTA_TABLE attribute and clearing the legacy
// 8-bit field's authority over the real value. Every other attribute is
// carried over unmodified and in its original order, satisfying the
// "identical attributes except table" testable property (spec.md §8).
func (m RouteMsg) WithTable(table uint32) RouteMsg {
	out := m
	out.Table = table
	newAttrs := make([]attribute, 0, len(m.attrs)+1)
	tableData := make([]byte, 4)
	byteOrder.PutUint32(tableData, table)
	replaced := false
	for _, a := range m.attrs {
		if a.Type == rtaTable {
			newAttrs = append(newAttrs, attribute{Type: rtaTable, Data: tableData})
			replaced = true
			continue
		}
		newAttrs = append(newAttrs, a)
	}
	if !replaced {
		newAttrs = append(newAttrs, attribute{Type: rtaTable, Data: tableData})
	}
	out.attrs = newAttrs
	return out
}

// BuildRouteCreate serializes m as an RTM_NEWROUTE create request.
func BuildRouteCreate(m RouteMsg, seq uint32) []byte {
	return serializeMessage(header{Type: rtmNewRoute, Flags: createFlags, Seq: seq}, m.serialize())
}

// BuildRouteDelete serializes m as an RTM_DELROUTE delete request.
func BuildRouteDelete(m RouteMsg, seq uint32) []byte {
	return serializeMessage(header{Type: rtmDelRoute, Flags: deleteFlags, Seq: seq}, m.serialize())
}
