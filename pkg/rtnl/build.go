package rtnl

// header carries the fields of a decoded nlmsghdr that matter to callers;
// Len is recomputed on serialization and is not carried here.
type header struct {
	Type  uint16
	Flags uint16
	Seq   uint32
}

// serializeMessage assembles a complete netlink datagram: nlmsghdr followed
// by body, with the header's length field set to the total size.
func serializeMessage(h header, body []byte) []byte {
	total := sizeofNlMsghdr + len(body)
	buf := make([]byte, total)
	byteOrder.PutUint32(buf[0:4], uint32(total))
	byteOrder.PutUint16(buf[4:6], h.Type)
	byteOrder.PutUint16(buf[6:8], h.Flags)
	byteOrder.PutUint32(buf[8:12], h.Seq)
	byteOrder.PutUint32(buf[12:16], 0) // pid: left to the kernel to fill in
	copy(buf[sizeofNlMsghdr:], body)
	return buf
}

// dumpFlags / createFlags / deleteFlags implement the flag conventions from
// spec.md §4.1: every outbound message carries request+ack; dumps add the
// dump flag; creations add create+exclusive; deletions add nothing beyond
// request+ack.
const (
	dumpFlags   = nlmFRequest | nlmFAck | nlmFDump
	createFlags = nlmFRequest | nlmFAck | nlmFCreate | nlmFExcl
	deleteFlags = nlmFRequest | nlmFAck
)

// BuildDumpLinks, BuildDumpAddrs, BuildDumpRoutes and BuildDumpRules build a
// generic dump request for the given family. seq is the fresh request
// identifier from the sequencer.
func BuildDumpLinks(seq uint32) []byte  { return buildDump(rtmGetLink, afUnspec, seq) }
func BuildDumpAddrs(seq uint32) []byte  { return buildDump(rtmGetAddr, afUnspec, seq) }
func BuildDumpRoutes(seq uint32) []byte { return buildDump(rtmGetRoute, afUnspec, seq) }
func BuildDumpRules(seq uint32) []byte  { return buildDump(rtmGetRule, afUnspec, seq) }

func buildDump(msgType uint16, family uint8, seq uint32) []byte {
	body := make([]byte, sizeofRtGenmsg)
	body[0] = family
	return serializeMessage(header{Type: msgType, Flags: dumpFlags, Seq: seq}, body)
}
