package clkbuf

import (
	"fmt"

	"github.com/netlistkit/clkbufsync/netlist"
)

// BufferedEntry records, for one canonical bit, the inserted cell at the
// driver end of its chain (the input pad when one was inserted, otherwise
// the buffer or FCLK_BUF) and which fresh net the original driver should
// now drive instead (spec.md §4.F "record
// buffered_bits[m] = (cell, final_iwire)").
type BufferedEntry struct {
	cell  *netlist.Cell
	iwire *netlist.Wire
}

// rewritePair is a queued input-port replacement: old keeps its Go identity
// but becomes a purely internal wire, new takes over the port role and
// (after swapPortNames) the original name.
type rewritePair struct {
	old, new       *netlist.Wire
	bufferedBitIdx map[int]*netlist.Wire
}

type nameGen struct {
	module  string
	wire    string
	bit     int
	counter int
}

func (g *nameGen) next(suffix string) string {
	g.counter++
	return fmt.Sprintf("$clkbuf$%s.%s[%d]$%s$%d", g.module, g.wire, g.bit, suffix, g.counter)
}

// insertAndRewire is the insertion & rewiring engine (spec.md §4.F),
// iterating a snapshot of m's wires taken before any insertion. It returns
// the canonical bits it buffered in this call (bits already in
// buf_wire_bits are skipped and not included), the
// queued input-port replacements for the combinational-reconnection and
// port-name-swap steps of §4.H, and every buffer/pad cell it created (a bit
// may go through both a buffer and a pad cell, so this is not simply the
// set of BufferedEntry.cell values — rerouteDrivers must treat the whole
// chain, not just its topmost cell, as exempt from driver re-routing).
func insertAndRewire(m *netlist.Module, cat *Catalogue, cfg Config, st *moduleState, sel netlist.Selection, warn func(string)) (map[netlist.Bit]BufferedEntry, []rewritePair, map[*netlist.Cell]bool) {
	wires := append([]*netlist.Wire(nil), m.Wires...)

	buffered := make(map[netlist.Bit]BufferedEntry)
	createdCells := make(map[*netlist.Cell]bool)
	var rewrites []rewritePair

	for _, w := range wires {
		skip := (w.IsInput && w.IsOutput) ||
			!sel.Matches(m.Name, w.Name) ||
			(w.Attrs.ClkbufInhibit && !sel.Explicit())

		if skip {
			if w.IsOutput {
				for i := 0; i < w.Width; i++ {
					cat.AddBufPort(m.Name, w.Name, i)
				}
			}
			continue
		}

		var bufferedIdx map[int]*netlist.Wire

		for i := 0; i < w.Width; i++ {
			bit := w.Bit(i)
			mcanon := st.resolver.Canon(bit)

			if st.bufWireBits[mcanon] {
				if w.IsOutput {
					cat.AddBufPort(m.Name, w.Name, i)
				}
				continue
			}
			if !st.sinkWireBits[mcanon] {
				continue
			}

			hasLocalDriver := st.drivenWireBits[bit] || (w.IsInput && m.Top)
			if !hasLocalDriver {
				// Submodule input: defer to the parent.
				cat.AddSinkPort(m.Name, w.Name, i)
				continue
			}
			if w.IsOutput {
				// An output-port wire that is simultaneously a local sink
				// with a local driver is treated like the already-buffered
				// case: buffering is left to whatever consumes this
				// output, not inserted here (see DESIGN.md open-question
				// resolution for spec.md §4.F).
				cat.AddBufPort(m.Name, w.Name, i)
				continue
			}

			gen := &nameGen{module: m.Name, wire: w.Name, bit: i}
			isInputPad := w.IsInput && cfg.Inpad.Configured() && m.Top
			createBuf := cfg.Buf.Configured() && (!isInputPad || cat.BufferInputs)

			var driverIwire *netlist.Wire
			var bufCell *netlist.Cell
			if createBuf {
				driverIwire = m.AddWire(&netlist.Wire{Name: gen.next("buf_drv"), Width: 1})
				bufType := cfg.Buf.CellType
				if st.generatedClkBits[mcanon] {
					bufType = CellFclkBuf
					warn(fmt.Sprintf("module %s: generated clock on %s[%d] buffered with %s instead of %s",
						m.Name, w.Name, i, CellFclkBuf, cfg.Buf.CellType))
				}
				bufCell = &netlist.Cell{
					Name: gen.next("bufcell"),
					Type: bufType,
					Conns: map[string]netlist.Signal{
						cfg.Buf.PortNet:    {mcanon},
						cfg.Buf.PortDriver: {driverIwire.Bit(0)},
					},
				}
				bufCell.SetOutputPorts(cfg.Buf.PortNet)
				m.AddCell(bufCell)
				createdCells[bufCell] = true
			}

			var finalIwire *netlist.Wire
			var topCell *netlist.Cell
			switch {
			case isInputPad:
				netSide := mcanon
				if createBuf {
					netSide = driverIwire.Bit(0)
				}
				finalIwire = m.AddWire(&netlist.Wire{Name: gen.next("pad_drv"), Width: 1})
				padCell := &netlist.Cell{
					Name: gen.next("padcell"),
					Type: cfg.Inpad.CellType,
					Conns: map[string]netlist.Signal{
						cfg.Inpad.PortNet:    {netSide},
						cfg.Inpad.PortDriver: {finalIwire.Bit(0)},
					},
				}
				padCell.SetOutputPorts(cfg.Inpad.PortNet)
				m.AddCell(padCell)
				createdCells[padCell] = true
				topCell = padCell
			case createBuf:
				finalIwire = driverIwire
				topCell = bufCell
			default:
				// Neither a buffer nor a pad applies to this bit (e.g.
				// only -inpad was given and this isn't a top-level input);
				// nothing local to insert, defer upward.
				cat.AddSinkPort(m.Name, w.Name, i)
				continue
			}

			buffered[mcanon] = BufferedEntry{cell: topCell, iwire: finalIwire}

			if w.IsInput {
				if bufferedIdx == nil {
					bufferedIdx = make(map[int]*netlist.Wire)
				}
				bufferedIdx[i] = finalIwire
			}
		}

		if w.IsInput && len(bufferedIdx) > 0 {
			newWire := &netlist.Wire{Name: (&nameGen{module: m.Name, wire: w.Name}).next("port"), Width: w.Width, IsInput: true, Attrs: w.Attrs}
			m.AddWire(newWire)
			m.RemoveWireFromPorts(w)

			for i := 0; i < w.Width; i++ {
				if fi, ok := bufferedIdx[i]; ok {
					m.Connect(fi.Bit(0), newWire.Bit(i))
				} else {
					m.Connect(w.Bit(i), newWire.Bit(i))
				}
			}
			rewrites = append(rewrites, rewritePair{old: w, new: newWire, bufferedBitIdx: bufferedIdx})
		}
	}

	return buffered, rewrites, createdCells
}

// promoteBoundary is the hierarchy-boundary promoter (spec.md §4.G): any
// output port bit that ended up buffered is exported into buf_ports so
// instantiating modules don't double-buffer it.
func promoteBoundary(m *netlist.Module, st *moduleState, buffered map[netlist.Bit]BufferedEntry, cat *Catalogue) {
	for _, w := range m.Ports {
		if !w.IsOutput {
			continue
		}
		for i := 0; i < w.Width; i++ {
			if _, ok := buffered[st.resolver.Canon(w.Bit(i))]; ok {
				cat.AddBufPort(m.Name, w.Name, i)
			}
		}
	}
}
