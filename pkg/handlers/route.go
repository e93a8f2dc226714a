package handlers

import (
	"github.com/dynmhs/dynmhs/pkg/mode"
	"github.com/dynmhs/dynmhs/pkg/queue"
	"github.com/dynmhs/dynmhs/pkg/rtnl"
)

// handleRoute implements spec.md §4.4's two mode-keyed route policies.
func (d *Dispatcher) handleRoute(ev rtnl.Event) {
	switch *d.Mode {
	case mode.Operational:
		d.cloneMainRouteIfManaged(ev)
	case mode.Reset:
		d.deleteCustomRoute(ev)
	default:
		// Undefined: no mutation is ever emitted.
	}
}

// cloneMainRouteIfManaged handles Operational-mode main-table route events:
// if the event's output interface is managed, clone the message into the
// interface's custom table.
func (d *Dispatcher) cloneMainRouteIfManaged(ev rtnl.Event) {
	if ev.Route.Table != rtnl.MainTable {
		return
	}
	if !ev.Route.HasOutIfIndex {
		return
	}
	ifaceName, known := d.linkNames[ev.Route.OutIfIndex]
	if !known {
		return
	}
	table, managed := d.Mapping.Lookup(ifaceName)
	if !managed {
		return
	}

	cloned := ev.Route.WithTable(table)
	id := d.Seq.Next()
	var raw []byte
	if ev.Kind == rtnl.RouteAdded {
		raw = rtnl.BuildRouteCreate(cloned, id)
	} else {
		raw = rtnl.BuildRouteDelete(cloned, id)
	}
	d.Queue.Push(queue.Request{ID: id, Bytes: raw})
	d.Log.V(1).Info("route clone queued",
		"interface", ifaceName, "table", table, "added", ev.Kind == rtnl.RouteAdded)
}

// deleteCustomRoute handles Reset-mode route events: any route whose table
// is one of the configured custom ids is deleted unconditionally,
// regardless of whether the event itself was an add or a delete.
func (d *Dispatcher) deleteCustomRoute(ev rtnl.Event) {
	if !d.Mapping.HasTable(ev.Route.Table) {
		return
	}
	id := d.Seq.Next()
	raw := rtnl.BuildRouteDelete(ev.Route, id)
	d.Queue.Push(queue.Request{ID: id, Bytes: raw})
	d.Log.V(1).Info("route deletion queued during reset", "table", ev.Route.Table)
}
