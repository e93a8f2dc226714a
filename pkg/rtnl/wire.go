// Package rtnl implements the Linux routing-information (rtnetlink) wire
// codec: it builds the outbound messages the daemon emits and parses the
// inbound messages the kernel sends, exposing both as small, explicit Go
// types instead of raw byte buffers.
//
// The message layouts mirror include/uapi/linux/rtnetlink.h and
// include/uapi/linux/fib_rules.h exactly, the same headers the original
// C++ prototype (dynmhs.cc) built its request/response structs against.
package rtnl

import "encoding/binary"

// Message types (nlmsghdr.Type / RTM_* in linux/rtnetlink.h).
const (
	rtmNewLink = 16
	rtmDelLink = 17
	rtmGetLink = 18

	rtmNewAddr = 20
	rtmDelAddr = 21
	rtmGetAddr = 22

	rtmNewRoute = 24
	rtmDelRoute = 25
	rtmGetRoute = 26

	rtmNewRule = 32
	rtmDelRule = 33
	rtmGetRule = 34

	nlmsgNoop    = 1
	nlmsgError   = 2
	nlmsgDone    = 3
	nlmsgOverrun = 4
)

// Header flags (nlmsghdr.Flags / NLM_F_* in linux/netlink.h).
const (
	nlmFRequest = 0x01
	nlmFMulti   = 0x02
	nlmFAck     = 0x04
	nlmFRoot    = 0x100
	nlmFMatch   = 0x200
	nlmFDump    = nlmFRoot | nlmFMatch
	nlmFCreate  = 0x400
	nlmFExcl    = 0x200
)

// Address families.
const (
	afUnspec = 0
	afInet   = 2
	afInet6  = 10
)

// FamilyINet and FamilyINet6 are the exported forms of the address family
// wire values, for callers building rule/route messages from scratch.
const (
	FamilyINet  = afInet
	FamilyINet6 = afInet6
)

// Route/rule table attribute types shared by RTA_* and FRA_* namespaces.
const (
	rtaUnspec   = 0
	rtaDst      = 1
	rtaSrc      = 2
	rtaIif      = 3
	rtaOif      = 4
	rtaGateway  = 5
	rtaPriority = 6
	rtaTable    = 15
)

const (
	ifaAddress = 1
	ifaLocal   = 2
)

const (
	iflaIfname = 3
)

const (
	fraDst      = 1
	fraSrc      = 2
	fraPriority = 6
	fraTable    = 15
)

// RTMGRP_* legacy multicast group bits, as used by the original nl_groups
// bitmask on sockaddr_nl.
const (
	rtmgrpLink       = 0x1
	rtmgrpNotify     = 0x2
	rtmgrpIPv4Ifaddr = 0x10
	rtmgrpIPv4Route  = 0x40
	rtmgrpIPv6Ifaddr = 0x100
	rtmgrpIPv6Route  = 0x400
)

// subscribeGroups is the multicast group mask the control channel binds:
// link, address (v4+v6), route (v4+v6), and the generic notify group.
const subscribeGroups = rtmgrpLink | rtmgrpNotify | rtmgrpIPv4Ifaddr | rtmgrpIPv6Ifaddr | rtmgrpIPv4Route | rtmgrpIPv6Route

// MainTable is RT_TABLE_MAIN, the kernel's default routing table id.
const MainTable = 254

// byteOrder is the wire byte order used for every fixed-width field. The
// kernel always speaks host byte order over netlink sockets, which on every
// Linux platform Go targets is little-endian; encoding/binary's
// NativeEndian (added in Go 1.21 expressly for OS ABI/netlink-shaped code)
// is the exact right tool and needs no third-party codec.
var byteOrder binary.ByteOrder = binary.NativeEndian

const (
	sizeofNlMsghdr    = 16
	sizeofIfInfomsg   = 16
	sizeofIfAddrmsg   = 8
	sizeofRtMsg       = 12
	sizeofFibRuleHdr  = 12
	sizeofRtAttr      = 4
	sizeofRtGenmsg    = 4 // 1 byte family, padded to a 4-byte nlmsg boundary
)

// nlmsgAlign rounds n up to the next 4-byte boundary, matching NLMSG_ALIGN
// and RTA_ALIGN (both alignto=4 on every architecture Linux defines them
// for).
func nlmsgAlign(n int) int {
	return (n + 3) &^ 3
}
