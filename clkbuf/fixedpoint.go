package clkbuf

import "github.com/netlistkit/clkbufsync/netlist"

// propagateInverters runs the inverter-propagation fixed point of spec.md
// §4.E to completion: both sets only grow, and growth is bounded by the
// number of distinct canonical bits in the module, so this terminates.
//
// Implemented as a worklist over the module's inverter edges rather than
// repeated full sweeps, per spec.md §9's "fixed-point loop" design note —
// an edge is only re-examined when one of the two bits it touches just
// changed.
func propagateInverters(st *moduleState) {
	if len(st.invEdges) == 0 {
		return
	}

	// Index edges by the bits whose change could re-trigger them.
	byOut := make(map[netlist.Bit][]int)
	byIn := make(map[netlist.Bit][]int)
	for idx, e := range st.invEdges {
		byOut[e.outBit] = append(byOut[e.outBit], idx)
		byIn[e.inBit] = append(byIn[e.inBit], idx)
	}

	queue := make([]int, len(st.invEdges))
	queued := make([]bool, len(st.invEdges))
	for i := range st.invEdges {
		queue[i] = i
		queued[i] = true
	}

	markSink := func(b netlist.Bit) {
		if st.sinkWireBits[b] {
			return
		}
		st.sinkWireBits[b] = true
		for _, idx := range byOut[b] {
			if !queued[idx] {
				queue = append(queue, idx)
				queued[idx] = true
			}
		}
	}
	markBuf := func(b netlist.Bit) {
		if st.bufWireBits[b] {
			return
		}
		st.bufWireBits[b] = true
		for _, idx := range byIn[b] {
			if !queued[idx] {
				queue = append(queue, idx)
				queued[idx] = true
			}
		}
		for _, idx := range byOut[b] {
			if !queued[idx] {
				queue = append(queue, idx)
				queued[idx] = true
			}
		}
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		queued[idx] = false
		e := st.invEdges[idx]

		// Rule 1: a sink downstream of the inverter output, not yet
		// buffered, pulls the buffer requirement upstream across the
		// inverter.
		if st.sinkWireBits[e.outBit] && !st.bufWireBits[e.outBit] {
			markBuf(e.outBit)
			markSink(e.inBit)
		}
		// Rule 2: buffering on the inverter's input is transparent to its
		// output.
		if st.bufWireBits[e.inBit] && !st.bufWireBits[e.outBit] {
			markBuf(e.outBit)
		}
	}
}
