package clkbuf

import "github.com/netlistkit/clkbufsync/netlist"

// invEdge is one inverter-through relationship discovered while classifying
// a module: outBit is the canonical bit on the inverter's output port,
// inBit is the canonical bit on its input port (same bit index, partner
// port named by clkbuf_inv).
type invEdge struct {
	outBit, inBit netlist.Bit
}

// moduleState is the per-module classifier state of spec.md §4.D/§3. It is
// created and destroyed within the processing of one module.
type moduleState struct {
	resolver *netlist.Resolver

	sinkWireBits map[netlist.Bit]bool
	bufWireBits  map[netlist.Bit]bool

	// drivenWireBits and ibufOut intentionally stay in the cell's raw
	// (non-canonical) connection space — see spec.md §9's open question:
	// this implementation canonicalises neither, so the "has a local
	// driver" check in the insertion engine (§4.F) and the generated-clock
	// detection (§4.D) both key on the exact bit a cell's port was wired
	// to, not its equivalence class. Wires merely connect-equivalent to a
	// driven bit, without being the same bit object, are not considered
	// locally driven by this implementation.
	drivenWireBits map[netlist.Bit]bool
	ibufOut        map[netlist.Bit]bool

	generatedClkBits map[netlist.Bit]bool // canonical

	cellsWithSinkPorts map[string]bool

	invEdges []invEdge
}

// classify scans every cell and port connection of m and produces the
// per-module classifier state, per spec.md §4.D.
func classify(m *netlist.Module, cat *Catalogue, r *netlist.Resolver) *moduleState {
	st := &moduleState{
		resolver:           r,
		sinkWireBits:       make(map[netlist.Bit]bool),
		bufWireBits:        make(map[netlist.Bit]bool),
		drivenWireBits:     make(map[netlist.Bit]bool),
		ibufOut:            make(map[netlist.Bit]bool),
		generatedClkBits:   make(map[netlist.Bit]bool),
		cellsWithSinkPorts: make(map[string]bool),
	}

	for _, cell := range m.Cells {
		for port, sig := range cell.Conns {
			isOutput := cell.ConnectOutput(port)
			for i, bit := range sig {
				if cat.isSinkPort(cell.Type, port, i) {
					st.sinkWireBits[r.Canon(bit)] = true
					st.cellsWithSinkPorts[cell.Type] = true
				}
				if cat.isBufPort(cell.Type, port, i) {
					st.bufWireBits[r.Canon(bit)] = true
				}
				if isOutput && cell.Type != CellPLL && cell.Type != CellBootClock {
					st.drivenWireBits[bit] = true
				}
				if isOutput && cell.Type == CellIBuf {
					st.ibufOut[bit] = true
				}
				if partner, ok := cat.invOutPartner(cell.Type, port, i); ok {
					if partnerSig, ok := cell.Conns[partner.Port]; ok && i < len(partnerSig) {
						st.invEdges = append(st.invEdges, invEdge{
							outBit: r.Canon(bit),
							inBit:  r.Canon(partnerSig[i]),
						})
					}
				}
			}
		}
	}

	// Generated-clock detection: DFFRE.C bits driven locally but not by an
	// I_BUF use the alternative FCLK_BUF buffer cell type (spec.md §4.D).
	for _, cell := range m.Cells {
		if cell.Type != CellDFFRE {
			continue
		}
		sig, ok := cell.Conns[dffreClockPort]
		if !ok || len(sig) == 0 {
			continue
		}
		bit := sig[0]
		if st.drivenWireBits[bit] && !st.ibufOut[bit] {
			st.generatedClkBits[r.Canon(bit)] = true
		}
	}

	return st
}
