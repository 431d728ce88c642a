package netlist

import (
	"encoding/json"
	"fmt"
	"io"
)

// Minimal JSON design format used by the cmd/clkbufsync CLI and by the
// encode/decode round-trip test. Stands in for the real flow's netlist persistence layer,
// which spec.md places out of scope as an external collaborator; no
// retrieval-pack example carries an EDA wire format, so this is a plain
// encoding/json DTO rather than a borrowed library (see DESIGN.md).
type jsonDesign struct {
	Modules []jsonModule `json:"modules"`
}

type jsonModule struct {
	Name     string     `json:"name"`
	Blackbox bool       `json:"blackbox,omitempty"`
	Top      bool       `json:"top,omitempty"`
	Wires    []jsonWire `json:"wires"`
	Cells    []jsonCell `json:"cells,omitempty"`
	Conns    [][2]jsonBit `json:"conns,omitempty"`
}

type jsonWire struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	IsInput  bool   `json:"input,omitempty"`
	IsOutput bool   `json:"output,omitempty"`
	Attrs    Attrs  `json:"attrs,omitempty"`
}

type jsonCell struct {
	Name    string              `json:"name"`
	Type    string              `json:"type"`
	Outputs []string            `json:"outputs,omitempty"`
	Conns   map[string][]jsonBit `json:"conns"`
}

type jsonBit struct {
	Wire  string `json:"wire,omitempty"`
	Index int    `json:"index,omitempty"`
	Const bool   `json:"const,omitempty"`
	Value int    `json:"value,omitempty"`
}

// Decode reads a Design from its JSON form.
func Decode(r io.Reader) (*Design, error) {
	var jd jsonDesign
	if err := json.NewDecoder(r).Decode(&jd); err != nil {
		return nil, fmt.Errorf("netlist: decode design: %w", err)
	}

	d := NewDesign()
	for _, jm := range jd.Modules {
		m := NewModule(jm.Name)
		m.Blackbox = jm.Blackbox
		m.Top = jm.Top

		for _, jw := range jm.Wires {
			m.AddWire(&Wire{
				Name:     jw.Name,
				Width:    jw.Width,
				IsInput:  jw.IsInput,
				IsOutput: jw.IsOutput,
				Attrs:    jw.Attrs,
			})
		}

		resolveBit := func(jb jsonBit) (Bit, error) {
			if jb.Const {
				return ConstBit(jb.Value), nil
			}
			w := m.Wire(jb.Wire)
			if w == nil {
				return Bit{}, fmt.Errorf("netlist: module %s: unknown wire %q", jm.Name, jb.Wire)
			}
			return w.Bit(jb.Index), nil
		}

		for _, jc := range jm.Cells {
			cell := &Cell{Name: jc.Name, Type: jc.Type, Conns: make(map[string]Signal, len(jc.Conns))}
			cell.SetOutputPorts(jc.Outputs...)
			for port, bits := range jc.Conns {
				sig := make(Signal, len(bits))
				for i, jb := range bits {
					b, err := resolveBit(jb)
					if err != nil {
						return nil, err
					}
					sig[i] = b
				}
				cell.Conns[port] = sig
			}
			m.AddCell(cell)
		}

		for _, pair := range jm.Conns {
			a, err := resolveBit(pair[0])
			if err != nil {
				return nil, err
			}
			b, err := resolveBit(pair[1])
			if err != nil {
				return nil, err
			}
			m.Connect(a, b)
		}

		d.AddModule(m)
	}
	return d, nil
}

// Encode writes a Design to its JSON form.
func Encode(w io.Writer, d *Design) error {
	jd := jsonDesign{}
	for _, m := range d.Modules {
		jm := jsonModule{Name: m.Name, Blackbox: m.Blackbox, Top: m.Top}
		for _, w := range m.Wires {
			jm.Wires = append(jm.Wires, jsonWire{
				Name: w.Name, Width: w.Width,
				IsInput: w.IsInput, IsOutput: w.IsOutput, Attrs: w.Attrs,
			})
		}
		for _, c := range m.Cells {
			jc := jsonCell{Name: c.Name, Type: c.Type, Conns: make(map[string][]jsonBit, len(c.Conns))}
			for port := range c.outputPorts {
				jc.Outputs = append(jc.Outputs, port)
			}
			for port, sig := range c.Conns {
				bits := make([]jsonBit, len(sig))
				for i, b := range sig {
					bits[i] = bitToJSON(b)
				}
				jc.Conns[port] = bits
			}
			jm.Cells = append(jm.Cells, jc)
		}
		for _, c := range m.conns {
			jm.Conns = append(jm.Conns, [2]jsonBit{bitToJSON(c.a), bitToJSON(c.b)})
		}
		jd.Modules = append(jd.Modules, jm)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jd); err != nil {
		return fmt.Errorf("netlist: encode design: %w", err)
	}
	return nil
}

func bitToJSON(b Bit) jsonBit {
	if b.Const {
		return jsonBit{Const: true, Value: b.Value}
	}
	return jsonBit{Wire: b.Wire.Name, Index: b.Index}
}
