package clkbuf

import "github.com/netlistkit/clkbufsync/netlist"

// PortKey identifies one bit of one port of one cell type — the unit the
// attribute catalogue is keyed on (spec.md §3).
type PortKey struct {
	CellType string
	Port     string
	Bit      int
}

// Catalogue is the global, append-only attribute catalogue built once per
// design and mutated only during the leaves-first hierarchical traversal
// (spec.md §3, §5). Regular modules' own ports get folded in as they
// finish processing, so their instantiators see the requirement.
type Catalogue struct {
	sinkPorts map[PortKey]bool
	bufPorts  map[PortKey]bool
	invOut    map[PortKey]PortKey
	invIn     map[PortKey]PortKey

	// BufferInputs is false when the configured input-pad cell type already
	// emits a buffered clock on its network-side port (spec.md §4.B), so a
	// separate buffer must not be stacked on top of the pad.
	BufferInputs bool
}

// NewCatalogue builds the attribute catalogue from every blackbox module's
// port attributes, plus the input-pad special case (spec.md §4.B).
func NewCatalogue(d *netlist.Design, cfg Config) *Catalogue {
	c := &Catalogue{
		sinkPorts:    make(map[PortKey]bool),
		bufPorts:     make(map[PortKey]bool),
		invOut:       make(map[PortKey]PortKey),
		invIn:        make(map[PortKey]PortKey),
		BufferInputs: true,
	}

	for _, m := range d.Modules {
		if !m.Blackbox {
			continue
		}
		for _, w := range m.Ports {
			for i := 0; i < w.Width; i++ {
				key := PortKey{CellType: m.Name, Port: w.Name, Bit: i}
				if w.Attrs.ClkbufDriver {
					c.bufPorts[key] = true
				}
				if w.Attrs.ClkbufSink {
					c.sinkPorts[key] = true
				}
				if w.Attrs.ClkbufInv != "" {
					partner := PortKey{CellType: m.Name, Port: w.Attrs.ClkbufInv, Bit: i}
					c.invOut[key] = partner
					c.invIn[partner] = key
				}
			}
		}
	}

	if cfg.Inpad.Configured() {
		if pad := d.Module(cfg.Inpad.CellType); pad != nil {
			if w := pad.Wire(cfg.Inpad.PortNet); w != nil && w.Attrs.ClkbufDriver {
				c.BufferInputs = false
			}
		}
	}

	return c
}

// AddSinkPort elevates a regular module's input port bit into sink_ports,
// so parent modules instantiating it see it as a clock sink (spec.md §3
// "M's input ports may be added to sink_ports").
func (c *Catalogue) AddSinkPort(moduleName, port string, bit int) {
	c.sinkPorts[PortKey{CellType: moduleName, Port: port, Bit: bit}] = true
}

// AddBufPort elevates a regular module's output port bit into buf_ports, so
// parent modules know the requirement was already satisfied below.
func (c *Catalogue) AddBufPort(moduleName, port string, bit int) {
	c.bufPorts[PortKey{CellType: moduleName, Port: port, Bit: bit}] = true
}

func (c *Catalogue) isSinkPort(cellType, port string, bit int) bool {
	return c.sinkPorts[PortKey{CellType: cellType, Port: port, Bit: bit}]
}

func (c *Catalogue) isBufPort(cellType, port string, bit int) bool {
	return c.bufPorts[PortKey{CellType: cellType, Port: port, Bit: bit}]
}

// invOutPartner returns the input-side partner of an inverter-through
// output port bit, if any.
func (c *Catalogue) invOutPartner(cellType, port string, bit int) (PortKey, bool) {
	p, ok := c.invOut[PortKey{CellType: cellType, Port: port, Bit: bit}]
	return p, ok
}

// invInPartner returns the output-side partner of an inverter-through input
// port bit, if any.
func (c *Catalogue) invInPartner(cellType, port string, bit int) (PortKey, bool) {
	p, ok := c.invIn[PortKey{CellType: cellType, Port: port, Bit: bit}]
	return p, ok
}
