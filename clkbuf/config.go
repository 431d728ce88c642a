// Package clkbuf implements the clock-buffer insertion pass: it propagates
// clock-buffer requirements across module hierarchy and through clock-path
// inverters, then inserts buffer (and optionally input-pad) cells exactly
// once per net, rewiring drivers and preserving port identities.
package clkbuf

import (
	"fmt"
	"strings"
)

// Recognised cell-type magic strings (spec.md §6), kept as a small
// configuration record rather than hard-coded into the control flow, per
// spec.md §9 "Dispatch by cell type" — mirrors the teacher's InstLookup
// table keeping opcode dispatch out of the CPU's main Clock loop.
const (
	CellPLL        = "PLL"
	CellBootClock  = "BOOT_CLOCK"
	CellIBuf       = "I_BUF"
	CellDFFRE      = "DFFRE"
	CellFclkBuf    = "FCLK_BUF"
	dffreClockPort = "C"
)

// CellPorts names the two ports of a two-port cell configured on the
// command line: PortNet is the network (sink-facing) side, PortDriver is
// the driver side. cmd/clkbufsync fills it from a "-buf" / "-inpad" flag
// value written as "celltype:out:in".
type CellPorts struct {
	CellType    string
	PortNet     string
	PortDriver  string
}

// Configured reports whether this cell has been set up by the user.
func (c CellPorts) Configured() bool {
	return c.CellType != ""
}

// ParseCellPorts parses a "celltype" argument together with its
// "out:in" port-name pair argument; cmd/clkbufsync splits a -buf / -inpad
// value into these two parts before calling it.
func ParseCellPorts(cellType, ports string) (CellPorts, error) {
	parts := strings.SplitN(ports, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CellPorts{}, fmt.Errorf("clkbuf: malformed port pair %q, want out:in", ports)
	}
	return CellPorts{CellType: cellType, PortNet: parts[0], PortDriver: parts[1]}, nil
}

// Config holds the pass's whole command-line configuration.
type Config struct {
	Buf   CellPorts // -buf, optional iff Inpad is configured.
	Inpad CellPorts // -inpad, optional iff Buf is configured.
}

// ErrNoBufferConfigured is the at-entry fatal configuration error of
// spec.md §4/§7: neither -buf nor -inpad supplied.
var ErrNoBufferConfigured = fmt.Errorf("clkbuf: neither -buf nor -inpad configured")

// Validate enforces the one configuration-error invariant from spec.md §7.
func (c Config) Validate() error {
	if !c.Buf.Configured() && !c.Inpad.Configured() {
		return ErrNoBufferConfigured
	}
	return nil
}
