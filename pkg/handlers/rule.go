package handlers

import (
	"github.com/dynmhs/dynmhs/pkg/mode"
	"github.com/dynmhs/dynmhs/pkg/queue"
	"github.com/dynmhs/dynmhs/pkg/rtnl"
)

// handleRule implements spec.md §4.4's rule policy: Operational mode never
// reacts to rule events (the daemon is itself the only expected source of
// rule changes, via handleAddress); Reset mode sweeps any rule referencing
// a custom table.
func (d *Dispatcher) handleRule(ev rtnl.Event) {
	if *d.Mode != mode.Reset {
		return
	}
	if !d.Mapping.HasTable(ev.Rule.Table) {
		return
	}
	id := d.Seq.Next()
	raw := rtnl.BuildRuleDelete(ev.Rule, id)
	d.Queue.Push(queue.Request{ID: id, Bytes: raw})
	d.Log.V(1).Info("rule deletion queued during reset", "table", ev.Rule.Table)
}
