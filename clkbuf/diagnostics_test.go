package clkbuf

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/netlistkit/clkbufsync/netlist"
)

func TestRenderModuleProducesDecodablePNG(t *testing.T) {
	m := netlist.NewModule("top")
	clk := m.AddWire(&netlist.Wire{Name: "clk", Width: 1, IsInput: true})
	bufWire := m.AddWire(&netlist.Wire{Name: "clk_buf_drv", Width: 1})
	bufCell := &netlist.Cell{Name: "bufcell0", Type: "CLK_BUF", Conns: map[string]netlist.Signal{
		"O": {clk.Bit(0)},
		"I": {bufWire.Bit(0)},
	}}
	bufCell.SetOutputPorts("O")
	m.AddCell(bufCell)

	buffered := map[netlist.Bit]BufferedEntry{
		clk.Bit(0): {cell: bufCell, iwire: bufWire},
	}

	var buf bytes.Buffer
	if err := RenderModule(&buf, m, buffered); err != nil {
		t.Fatalf("RenderModule: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode rendered PNG: %v", err)
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		t.Fatalf("rendered image has empty bounds %v", img.Bounds())
	}
}

func TestRenderModuleEmptyBufferedStillRenders(t *testing.T) {
	m := netlist.NewModule("leaf")

	var buf bytes.Buffer
	if err := RenderModule(&buf, m, map[netlist.Bit]BufferedEntry{}); err != nil {
		t.Fatalf("RenderModule with no buffered bits: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode rendered PNG: %v", err)
	}
}
