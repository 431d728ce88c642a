package netlist

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := NewDesign()

	ff := NewModule("FF")
	ff.Blackbox = true
	ff.AddWire(&Wire{Name: "C", Width: 1, IsInput: true, Attrs: Attrs{ClkbufSink: true}})
	d.AddModule(ff)

	top := NewModule("top")
	top.Top = true
	drv := top.AddWire(&Wire{Name: "drv", Width: 1})
	clk := top.AddWire(&Wire{Name: "clk", Width: 1, IsInput: true})
	bufCell := &Cell{Name: "buf0", Type: "CLK_BUF", Conns: map[string]Signal{"O": {clk.Bit(0)}, "I": {drv.Bit(0)}}}
	bufCell.SetOutputPorts("O")
	top.AddCell(bufCell)
	cell := &Cell{Name: "ff0", Type: "FF", Conns: map[string]Signal{"C": {clk.Bit(0)}}}
	top.AddCell(cell)
	top.Connect(clk.Bit(0), clk.Bit(0))
	d.AddModule(top)

	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got.Modules) != len(d.Modules) {
		t.Fatalf("got %d modules, want %d", len(got.Modules), len(d.Modules))
	}
	gotTop := got.Module("top")
	if gotTop == nil {
		t.Fatal("decoded design missing module \"top\"")
	}
	if !gotTop.Top {
		t.Errorf("decoded top module lost its Top flag")
	}
	if len(gotTop.Cells) != 2 {
		t.Fatalf("decoded top module cells = %+v, want two cells", gotTop.Cells)
	}
	gotClk := gotTop.Wire("clk")
	if gotClk == nil || !gotClk.IsInput {
		t.Fatalf("decoded \"clk\" wire = %+v, want an input wire", gotClk)
	}

	var gotBuf, gotFF *Cell
	for _, c := range gotTop.Cells {
		switch c.Type {
		case "CLK_BUF":
			gotBuf = c
		case "FF":
			gotFF = c
		}
	}
	if gotFF == nil {
		t.Fatal("decoded top module missing FF cell")
	}
	if gotFF.Conns["C"][0].Wire != gotClk {
		t.Errorf("decoded cell connection does not point at the decoded clk wire")
	}
	if gotBuf == nil {
		t.Fatal("decoded top module missing CLK_BUF cell")
	}
	if !gotBuf.ConnectOutput("O") {
		t.Errorf("decoded CLK_BUF cell lost its O output-port designation across the round trip")
	}
	if gotBuf.ConnectOutput("I") {
		t.Errorf("decoded CLK_BUF cell should not report I as an output port")
	}
}

func TestDecodeUnknownWireFails(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`{"modules":[{"name":"top","wires":[],"cells":[{"name":"c0","type":"X","conns":{"A":[{"wire":"missing"}]}}]}]}`)

	if _, err := Decode(&buf); err == nil {
		t.Fatal("Decode with an unknown wire reference should fail")
	}
}
