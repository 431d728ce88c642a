package clkbuf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sort"

	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/netlistkit/clkbufsync/netlist"
)

// Diagnostics renders one clock-tree snapshot of a module per the teacher's
// debug-panel precedent (nes/display.go's image.RGBA pixel buffer plus
// basicfont text atlas, nes/ppu.go's pattern-table rasterization). Where
// the teacher draws to a live OpenGL window, a headless batch synthesis
// pass has no such surface, so this renders straight to a PNG instead —
// the one part of the teacher's graphics stack (golang.org/x/image) that
// still has an honest job to do here; see DESIGN.md for why
// faiface/pixel/glfw/go-gl could not be carried over.
const (
	rowHeight  = 28
	rowPadding = 6
	colWidth   = 170
	diagCols   = 3
)

// RenderModule draws a simple box-and-row diagram of m's buffered nets:
// one row per buffered canonical bit, showing the module and bit, the type
// of the recorded buffer/pad cell with its driver-side wire, and the cell
// types reading that bit on an input port.
// Intended to be called once per processed module, after the pass has run,
// with the same buffered-bit map Pass produced for that module.
func RenderModule(w io.Writer, m *netlist.Module, buffered map[netlist.Bit]BufferedEntry) error {
	rows := buildDiagnosticRows(m, buffered)

	width := diagCols*colWidth + 2*rowPadding
	height := rowPadding + len(rows)*rowHeight + rowPadding
	if height < rowHeight+2*rowPadding {
		height = rowHeight + 2*rowPadding
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{colornames.White}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{colornames.Black},
		Face: face,
	}

	for i, row := range rows {
		y := rowPadding + i*rowHeight + rowHeight/2
		cellColor := colornames.Steelblue
		if row.buffered {
			cellColor = colornames.Seagreen
		}
		boxRect := image.Rect(rowPadding, rowPadding+i*rowHeight+4, rowPadding+colWidth-10, rowPadding+(i+1)*rowHeight-4)
		draw.Draw(img, boxRect, &image.Uniform{boxColor(cellColor)}, image.Point{}, draw.Src)

		drawer.Dot = fixed.P(rowPadding+2, y)
		drawer.DrawString(row.net)

		drawer.Dot = fixed.P(rowPadding+colWidth, y)
		drawer.DrawString(row.via)

		drawer.Dot = fixed.P(rowPadding+2*colWidth, y)
		drawer.DrawString(row.sinks)
	}

	return png.Encode(w, img)
}

func boxColor(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 64}
}

type diagnosticRow struct {
	net      string
	via      string
	sinks    string
	buffered bool
}

func buildDiagnosticRows(m *netlist.Module, buffered map[netlist.Bit]BufferedEntry) []diagnosticRow {
	var rows []diagnosticRow
	for bit, entry := range buffered {
		rows = append(rows, diagnosticRow{
			net:      fmt.Sprintf("%s  (%s)", m.Name, bit),
			via:      fmt.Sprintf("%s -> %s", entry.cell.Type, entry.iwire.Name),
			sinks:    sinkCellNames(m, bit),
			buffered: true,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].net < rows[j].net })
	if len(rows) == 0 {
		rows = append(rows, diagnosticRow{net: m.Name, via: "(no buffering this run)", sinks: ""})
	}
	return rows
}

func sinkCellNames(m *netlist.Module, net netlist.Bit) string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range m.Cells {
		for port, sig := range c.Conns {
			if c.ConnectOutput(port) {
				continue
			}
			for _, b := range sig {
				if b == net && !seen[c.Type] {
					seen[c.Type] = true
					names = append(names, c.Type)
				}
			}
		}
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
