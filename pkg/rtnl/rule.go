package rtnl

// frActToTable is the fib_rule_hdr action requesting the target table be
// looked up (FR_ACT_TO_TBL in linux/fib_rules.h).
const frActToTable = 1

// RuleMsg is a decoded or freshly-built RTM_*RULE payload.
type RuleMsg struct {
	Family uint8
	DstLen uint8
	SrcLen uint8
	Tos    uint8
	Action uint8
	Flags  uint32

	attrs []attribute

	// Table and Priority mirror FRA_TABLE / FRA_PRIORITY, resolved the
	// same attribute-over-legacy-field way as RouteMsg.Table.
	Table    uint32
	Priority uint32
}

func parseRuleMsg(legacyTable uint8, body []byte) (RuleMsg, bool) {
	if len(body) < sizeofFibRuleHdr {
		return RuleMsg{}, false
	}
	m := RuleMsg{
		Family: body[0],
		DstLen: body[1],
		SrcLen: body[2],
		Tos:    body[3],
		Action: body[7],
		Flags:  byteOrder.Uint32(body[8:12]),
		Table:  uint32(legacyTable),
	}
	m.attrs = walkAttrs(body[sizeofFibRuleHdr:])
	if data, ok := findAttr(m.attrs, fraTable); ok && len(data) == 4 {
		m.Table = byteOrder.Uint32(data)
	}
	if data, ok := findAttr(m.attrs, fraPriority); ok && len(data) == 4 {
		m.Priority = byteOrder.Uint32(data)
	}
	return m, true
}

func (m RuleMsg) serialize() []byte {
	legacyTable := uint8(m.Table)
	if m.Table > 0xff {
		legacyTable = 0
	}
	body := make([]byte, sizeofFibRuleHdr)
	body[0] = m.Family
	body[1] = m.DstLen
	body[2] = m.SrcLen
	body[3] = m.Tos
	body[4] = legacyTable
	body[7] = m.Action
	byteOrder.PutUint32(body[8:12], m.Flags)
	for _, a := range m.attrs {
		body = append(body, encodeAttr(a.Type, a.Data)...)
	}
	if _, ok := findAttr(m.attrs, fraTable); !ok && m.Table > 0xff {
		body = append(body, encodeAttrUint32(fraTable, m.Table)...)
	}
	return body
}

// NewAddressRule builds the "from src/srcLen lookup table" rule the
// address handler installs for one managed source address, with priority
// set equal to table (spec.md §4.4's deterministic-ordering rationale).
func NewAddressRule(family uint8, src []byte, srcLen uint8, table, priority uint32) RuleMsg {
	m := RuleMsg{
		Family: family,
		SrcLen: srcLen,
		Action: frActToTable,
		Table:  table,
	}
	m.attrs = append(m.attrs, attribute{Type: fraSrc, Data: append([]byte(nil), src...)})
	tableData := make([]byte, 4)
	byteOrder.PutUint32(tableData, table)
	m.attrs = append(m.attrs, attribute{Type: fraTable, Data: tableData})
	prioData := make([]byte, 4)
	byteOrder.PutUint32(prioData, priority)
	m.attrs = append(m.attrs, attribute{Type: fraPriority, Data: prioData})
	m.Priority = priority
	return m
}

// BuildRuleCreate serializes m as an RTM_NEWRULE create request.
func BuildRuleCreate(m RuleMsg, seq uint32) []byte {
	return serializeMessage(header{Type: rtmNewRule, Flags: createFlags, Seq: seq}, m.serialize())
}

// BuildRuleDelete serializes m as an RTM_DELRULE delete request matching m's
// selectors (family, source prefix, table, priority).
func BuildRuleDelete(m RuleMsg, seq uint32) []byte {
	return serializeMessage(header{Type: rtmDelRule, Flags: deleteFlags, Seq: seq}, m.serialize())
}
