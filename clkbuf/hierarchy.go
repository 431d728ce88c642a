package clkbuf

import "github.com/netlistkit/clkbufsync/netlist"

// Order returns every regular (non-blackbox) module of d in post-order over
// the cell-instantiation graph: a module is emitted only after every regular
// module referenced by one of its cells (spec.md §4.C). Cycles are broken
// by visiting each module at most once. Modules are not filtered by the
// selection; the selection is applied per wire, in insertAndRewire.
func Order(d *netlist.Design) []*netlist.Module {
	var out []*netlist.Module
	visited := make(map[string]bool)
	visiting := make(map[string]bool)

	var visit func(m *netlist.Module)
	visit = func(m *netlist.Module) {
		if m == nil || m.Blackbox || visited[m.Name] || visiting[m.Name] {
			return
		}
		visiting[m.Name] = true
		for _, cell := range m.Cells {
			visit(d.Module(cell.Type))
		}
		visiting[m.Name] = false
		visited[m.Name] = true
		out = append(out, m)
	}

	for _, m := range d.Modules {
		visit(m)
	}
	return out
}
