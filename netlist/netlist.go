// Package netlist implements the minimal in-memory hierarchical netlist
// model that the clkbuf pass operates on: modules, wires, cells, and the
// port-level connections between them.
//
// In the production flow this representation (and its persistence) is owned
// by the host synthesis framework; clkbufsync only consumes the surface
// described in spec.md §6. This package stands in for that collaborator so
// the pass can be exercised end to end.
package netlist

import "fmt"

// Bit is a single-bit signal reference: either a particular bit of a wire,
// or a constant 0/1.
type Bit struct {
	Wire  *Wire
	Index int

	Const bool
	Value int // 0 or 1, only meaningful when Const is true.
}

// ConstBit returns a constant bit carrying value (0 or 1).
func ConstBit(value int) Bit {
	return Bit{Const: true, Value: value}
}

func (b Bit) String() string {
	if b.Const {
		return fmt.Sprintf("%d'b%d", 1, b.Value)
	}
	if b.Wire == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s[%d]", b.Wire.Name, b.Index)
}

// Signal is an ordered vector of bits, least-significant first, as attached
// to a cell port.
type Signal []Bit

// Wire is a named signal-carrying net within a module. Wires used as module
// ports additionally carry a direction and a position in the port list.
type Wire struct {
	Name  string
	Width int

	IsInput  bool
	IsOutput bool

	Attrs Attrs

	portIndex int // -1 when not a port.
}

// Bit returns the signal bit for wire index i.
func (w *Wire) Bit(i int) Bit {
	return Bit{Wire: w, Index: i}
}

// IsPort reports whether this wire currently occupies a port slot.
func (w *Wire) IsPort() bool {
	return w.IsInput || w.IsOutput
}

// Attrs holds the clkbuf-relevant wire attributes from spec.md §3.
type Attrs struct {
	ClkbufInhibit bool
	ClkbufDriver  bool
	ClkbufSink    bool
	ClkbufInv     string // partner port name, empty if unset.
}

// Cell is an instance of a named cell type with a port-name -> signal map.
type Cell struct {
	Name string
	Type string

	Conns map[string]Signal

	// Output ports, as set by SetOutputPorts. Nothing derives them from the
	// cell type's module declaration.
	outputPorts map[string]bool
}

// ConnectOutput reports whether port is a declared output of this cell's
// type.
func (c *Cell) ConnectOutput(port string) bool {
	return c.outputPorts[port]
}

// SetOutputPorts records which of this cell's ports are outputs. Whoever
// builds the cell calls it (Decode from the JSON "outputs" list, the clkbuf
// pass for the cells it inserts); a cell it was never called on reports no
// output ports from Cell.ConnectOutput.
func (c *Cell) SetOutputPorts(ports ...string) {
	c.outputPorts = make(map[string]bool, len(ports))
	for _, p := range ports {
		c.outputPorts[p] = true
	}
}

// connection is one explicit bit-to-bit equivalence, as recorded by
// Module.Connect. Cell port connections do not add entries here: two ports
// wired to the same Bit already share that bit.
type connection struct {
	a, b Bit
}

// Module is a named container of wires and cells, with an ordered port
// list. A blackbox module has no cells or wires beyond its port
// declarations; a regular module has a full body.
type Module struct {
	Name     string
	Blackbox bool
	Top      bool

	Wires []*Wire
	Cells []*Cell
	Ports []*Wire

	wireByName map[string]*Wire
	conns      []connection
}

// NewModule creates an empty regular module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		wireByName: make(map[string]*Wire),
	}
}

// AddWire adds a wire to the module. If w is a port (IsInput or IsOutput) it
// is also appended to the module's port list.
func (m *Module) AddWire(w *Wire) *Wire {
	if w.portIndex == 0 && !w.IsPort() {
		w.portIndex = -1
	}
	m.Wires = append(m.Wires, w)
	m.wireByName[w.Name] = w
	if w.IsPort() {
		w.portIndex = len(m.Ports)
		m.Ports = append(m.Ports, w)
	}
	return w
}

// Wire looks up a wire by name.
func (m *Module) Wire(name string) *Wire {
	return m.wireByName[name]
}

// AddCell instantiates a cell in this module.
func (m *Module) AddCell(c *Cell) *Cell {
	m.Cells = append(m.Cells, c)
	return c
}

// Connect records that bits a and b are the same net. NewResolver freezes the
// equivalence classes recorded so far; connections added after a Resolver
// was built are not seen by it.
func (m *Module) Connect(a, b Bit) {
	m.conns = append(m.conns, connection{a, b})
}

// RemoveWireFromPorts strips port role from w (used when an input port is
// replaced during buffer insertion: the original wire becomes a purely
// internal net, per spec.md §4.H).
func (m *Module) RemoveWireFromPorts(w *Wire) {
	if !w.IsPort() {
		return
	}
	for i, p := range m.Ports {
		if p == w {
			m.Ports = append(m.Ports[:i], m.Ports[i+1:]...)
			break
		}
	}
	w.IsInput = false
	w.IsOutput = false
	w.Attrs = Attrs{}
	w.portIndex = -1
}

// ReindexPorts recomputes Ports[i].portIndex after ports have been
// added/removed, per spec.md §4.H "re-index port positions afterward".
func (m *Module) ReindexPorts() {
	for i, p := range m.Ports {
		p.portIndex = i
	}
}

// SwapWireNames exchanges the string identifiers of two wires belonging to
// m: new takes old's name (and becomes the port-facing identity), while old
// keeps its struct identity but answers to the name new used to have. This
// matches spec.md §4.H's "exchange identifiers" port-name swap. m's
// name-to-wire index is updated in step, so later m.Wire(name) lookups
// resolve to the wire that currently carries that name.
func SwapWireNames(m *Module, oldWire, newWire *Wire) {
	oldWire.Name, newWire.Name = newWire.Name, oldWire.Name
	m.wireByName[oldWire.Name] = oldWire
	m.wireByName[newWire.Name] = newWire
}

// Design is the whole hierarchical netlist: every module, keyed by name.
type Design struct {
	Modules    []*Module
	byName     map[string]*Module
}

// NewDesign creates an empty design.
func NewDesign() *Design {
	return &Design{byName: make(map[string]*Module)}
}

// AddModule registers a module in the design.
func (d *Design) AddModule(m *Module) *Module {
	d.Modules = append(d.Modules, m)
	d.byName[m.Name] = m
	return m
}

// Module looks up a module by name.
func (d *Design) Module(name string) *Module {
	return d.byName[name]
}
