package rtnl

// ParseMessages decodes every complete netlink message in buf into an
// Event, in arrival order. Messages shorter than the header their type
// requires, or whose declared length overruns the buffer, are dropped
// silently, per spec.md §4.1.
func ParseMessages(buf []byte) []Event {
	var events []Event
	for len(buf) >= sizeofNlMsghdr {
		msgLen := int(byteOrder.Uint32(buf[0:4]))
		msgType := byteOrder.Uint16(buf[4:6])
		seq := byteOrder.Uint32(buf[8:12])

		if msgLen < sizeofNlMsghdr || msgLen > len(buf) {
			return events
		}
		body := buf[sizeofNlMsghdr:msgLen]
		buf = buf[nlmsgAlign(msgLen):]

		switch msgType {
		case nlmsgDone:
			events = append(events, Event{Kind: MultipartEnd, Seq: seq})
		case nlmsgError:
			if len(body) < 4 {
				continue
			}
			errCode := int32(byteOrder.Uint32(body[0:4]))
			events = append(events, Event{Kind: Acknowledgement, Seq: seq, AckID: seq, AckErr: errCode})
		case rtmNewLink:
			if ev, ok := parseLinkEvent(true, body); ok {
				ev.Seq = seq
				events = append(events, ev)
			}
		case rtmDelLink:
			if ev, ok := parseLinkEvent(false, body); ok {
				ev.Seq = seq
				events = append(events, ev)
			}
		case rtmNewAddr:
			if ev, ok := parseAddrEvent(true, body); ok {
				ev.Seq = seq
				events = append(events, ev)
			}
		case rtmDelAddr:
			if ev, ok := parseAddrEvent(false, body); ok {
				ev.Seq = seq
				events = append(events, ev)
			}
		case rtmNewRoute, rtmDelRoute:
			if len(body) < sizeofRtMsg {
				continue
			}
			m, ok := parseRouteMsg(body[4], body)
			if !ok {
				continue
			}
			kind := RouteRemoved
			if msgType == rtmNewRoute {
				kind = RouteAdded
			}
			events = append(events, Event{Kind: kind, Seq: seq, Route: m})
		case rtmNewRule, rtmDelRule:
			if len(body) < sizeofFibRuleHdr {
				continue
			}
			m, ok := parseRuleMsg(body[4], body)
			if !ok {
				continue
			}
			kind := RuleRemoved
			if msgType == rtmNewRule {
				kind = RuleAdded
			}
			events = append(events, Event{Kind: kind, Seq: seq, Rule: m})
		case nlmsgNoop, nlmsgOverrun:
			// nothing to report
		default:
			events = append(events, Event{Kind: UnexpectedError, Seq: seq, Err: "unknown netlink message type"})
		}
	}
	return events
}
