package handlers

import (
	"github.com/dynmhs/dynmhs/pkg/mode"
	"github.com/dynmhs/dynmhs/pkg/queue"
	"github.com/dynmhs/dynmhs/pkg/rtnl"
)

// handleAddress implements spec.md §4.4's address-event policy: emit one
// rule change per address add/delete, iff mode is Operational, the address
// is not IPv6 link-local, and the owning interface is managed.
func (d *Dispatcher) handleAddress(ev rtnl.Event) {
	if *d.Mode != mode.Operational {
		return
	}
	if ev.AddrIsLinkLocal {
		return
	}
	if ev.Addr == nil {
		return
	}
	ifaceName, known := d.linkNames[ev.AddrIfIndex]
	if !known {
		return
	}
	table, managed := d.Mapping.Lookup(ifaceName)
	if !managed {
		return
	}

	srcLen := uint8(32)
	if ev.AddrFamily == rtnl.FamilyINet6 {
		srcLen = 128
	}
	rule := rtnl.NewAddressRule(ev.AddrFamily, []byte(ev.Addr), srcLen, table, table)

	var raw []byte
	id := d.Seq.Next()
	if ev.Kind == rtnl.AddressAdded {
		raw = rtnl.BuildRuleCreate(rule, id)
	} else {
		raw = rtnl.BuildRuleDelete(rule, id)
	}
	d.Queue.Push(queue.Request{ID: id, Bytes: raw})
	d.Log.V(1).Info("rule mutation queued for address event",
		"interface", ifaceName, "address", ev.Addr, "table", table, "added", ev.Kind == rtnl.AddressAdded)
}
