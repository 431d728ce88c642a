// Command clkbufsync runs the clock-buffer insertion pass over a JSON
// netlist design and writes the rewritten design back out.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/netlistkit/clkbufsync/clkbuf"
	"github.com/netlistkit/clkbufsync/netlist"
)

// Command line flags
var (
	flagBuf        string
	flagInpad      string
	flagSelect     string
	flagOut        string
	flagDumpImages string
	flagVerbose    bool
)

func main() {
	parseFlags()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: clkbufsync [flags] design.json")
		os.Exit(2)
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("clkbufsync: %v", err)
	}

	sel := netlist.ParseSelection(flagSelect)

	pass, err := clkbuf.NewPass(cfg, sel)
	if err != nil {
		log.Fatalf("clkbufsync: %v", err)
	}
	if !flagVerbose {
		pass.SetOutput(io.Discard)
	}

	if flagDumpImages != "" {
		if err := os.MkdirAll(flagDumpImages, 0o755); err != nil {
			log.Fatalf("clkbufsync: %v", err)
		}
		pass.OnModuleDone = func(m *netlist.Module, buffered map[netlist.Bit]clkbuf.BufferedEntry) {
			dumpModuleImage(flagDumpImages, m, buffered)
		}
	}

	design, err := loadDesign(flag.Arg(0))
	if err != nil {
		log.Fatalf("clkbufsync: %v", err)
	}

	pass.Run(design)

	out := flagOut
	if out == "" {
		out = flag.Arg(0)
	}
	if err := saveDesign(out, design); err != nil {
		log.Fatalf("clkbufsync: %v", err)
	}
}

func parseFlags() {
	flag.StringVar(&flagBuf, "buf", "", "buffer cell, as celltype:out:in")
	flag.StringVar(&flagInpad, "inpad", "", "input pad cell, as celltype:out:in")
	flag.StringVar(&flagSelect, "select", "", "comma-separated module/wire glob selection")
	flag.StringVar(&flagOut, "o", "", "output design path (default: overwrite input)")
	flag.StringVar(&flagDumpImages, "dump-images", "", "directory to write one diagnostic PNG per module")
	flag.BoolVar(&flagVerbose, "v", false, "verbose logging")

	flag.Parse()
}

func buildConfig() (clkbuf.Config, error) {
	var cfg clkbuf.Config
	var err error

	if flagBuf != "" {
		cfg.Buf, err = parseCellFlag(flagBuf)
		if err != nil {
			return cfg, fmt.Errorf("-buf: %w", err)
		}
	}
	if flagInpad != "" {
		cfg.Inpad, err = parseCellFlag(flagInpad)
		if err != nil {
			return cfg, fmt.Errorf("-inpad: %w", err)
		}
	}
	return cfg, nil
}

// parseCellFlag splits the "celltype:out:in" single-flag form into the
// celltype and "out:in" arguments clkbuf.ParseCellPorts expects.
func parseCellFlag(v string) (clkbuf.CellPorts, error) {
	first := -1
	for i, c := range v {
		if c == ':' {
			first = i
			break
		}
	}
	if first < 0 {
		return clkbuf.CellPorts{}, fmt.Errorf("malformed %q, want celltype:out:in", v)
	}
	return clkbuf.ParseCellPorts(v[:first], v[first+1:])
}

func loadDesign(path string) (*netlist.Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := netlist.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

func saveDesign(out string, d *netlist.Design) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := netlist.Encode(f, d); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	return nil
}

func dumpModuleImage(dir string, m *netlist.Module, buffered map[netlist.Bit]clkbuf.BufferedEntry) {
	path := filepath.Join(dir, m.Name+".png")
	f, err := os.Create(path)
	if err != nil {
		log.Printf("clkbufsync: dump-images: %v", err)
		return
	}
	defer f.Close()

	if err := clkbuf.RenderModule(f, m, buffered); err != nil {
		log.Printf("clkbufsync: dump-images: %v", err)
	}
}
