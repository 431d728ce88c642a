package clkbuf

import "github.com/netlistkit/clkbufsync/netlist"

// rerouteDrivers is the driver re-routing step of spec.md §4.H: every cell
// output connection whose bit was buffered gets redirected to drive the
// buffer's (or pad's) input pin instead of the original net, so the
// original driver no longer fights the inserted cell for the same net
// (invariant P5). Must run against the frozen canonicaliser, before any
// port renaming.
//
// createdCells is every buffer/pad cell insertAndRewire added for this
// module: a buffered bit's chain can be two cells deep (pad feeding a
// buffer), and *none* of them are "the original driver" — excluding only
// BufferedEntry.cell (the topmost one) would still reroute, say, the
// buffer's own network-side output onto the pad's driver wire, starving
// the in-module sinks of their buffered clock.
func rerouteDrivers(m *netlist.Module, st *moduleState, buffered map[netlist.Bit]BufferedEntry, createdCells map[*netlist.Cell]bool) {
	for _, cell := range m.Cells {
		if createdCells[cell] {
			continue
		}
		for port, sig := range cell.Conns {
			if !cell.ConnectOutput(port) {
				continue
			}
			changed := false
			for i, bit := range sig {
				entry, ok := buffered[st.resolver.Canon(bit)]
				if !ok {
					continue
				}
				sig[i] = entry.iwire.Bit(0)
				changed = true
			}
			if changed {
				cell.Conns[port] = sig
			}
		}
	}
}

// reconnectCombinational is the corner-case sweep of spec.md §4.H: cells
// that are not clock sinks and not the buffer/pad cells themselves, reading
// a bit of a rewritten top-level input through its original (pre-swap)
// identity, get redirected to the replacement port wire for exactly the
// bit indices that were buffered — restoring the combinational path to the
// raw, unbuffered signal a top-level input carries under its original
// name, while sink cells keep reading the buffered net through the old
// wire's unchanged pointer identity.
func reconnectCombinational(m *netlist.Module, st *moduleState, cfg Config, rewrites []rewritePair) {
	if len(rewrites) == 0 {
		return
	}
	isBufferCellType := func(t string) bool {
		return t == cfg.Buf.CellType || t == CellFclkBuf || t == cfg.Inpad.CellType
	}

	for _, rw := range rewrites {
		for _, cell := range m.Cells {
			if st.cellsWithSinkPorts[cell.Type] || isBufferCellType(cell.Type) {
				continue
			}
			for port, sig := range cell.Conns {
				if cell.ConnectOutput(port) {
					continue
				}
				changed := false
				for i, bit := range sig {
					if bit.Wire != rw.old {
						continue
					}
					if _, wasBuffered := rw.bufferedBitIdx[bit.Index]; wasBuffered {
						sig[i] = rw.new.Bit(bit.Index)
						changed = true
					}
				}
				if changed {
					cell.Conns[port] = sig
				}
			}
		}
	}
}

// swapPortNames performs the name swap half of spec.md §4.H: new takes
// over the original identifier and port role, old keeps its (now purely
// internal) old identity.
func swapPortNames(m *netlist.Module, rewrites []rewritePair) {
	for _, rw := range rewrites {
		netlist.SwapWireNames(m, rw.old, rw.new)
	}
	m.ReindexPorts()
}
