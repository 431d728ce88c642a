package netlist

import "path"

// Selection restricts which wires a pass is allowed to treat as buffer
// insertion candidates. Parsed once up front (mirrors spec.md §9's
// "dispatch by cell type" discipline of a small config record rather than
// re-parsing strings mid-algorithm).
//
// The grammar kept here is deliberately minimal: spec.md places the
// selection sub-language's full grammar out of scope as a collaborator;
// this is the smallest useful subset a standalone tool needs — a
// comma-separated list of glob patterns, matched against "module/wire".
type Selection struct {
	patterns []string
	explicit bool
}

// ParseSelection parses a selection expression. An empty expression selects
// every wire (matching still governed by clkbuf_inhibit).
func ParseSelection(expr string) Selection {
	if expr == "" {
		return Selection{}
	}
	var patterns []string
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i == len(expr) || expr[i] == ',' {
			if i > start {
				patterns = append(patterns, expr[start:i])
			}
			start = i + 1
		}
	}
	return Selection{patterns: patterns, explicit: true}
}

// Explicit reports whether the user supplied a non-empty selection
// expression, per spec.md §4.F's "not selected or carrying clkbuf_inhibit
// (unless selection was explicit)".
func (s Selection) Explicit() bool {
	return s.explicit
}

// Matches reports whether the given module/wire pair is a candidate.
func (s Selection) Matches(moduleName, wireName string) bool {
	if !s.explicit {
		return true
	}
	full := moduleName + "/" + wireName
	for _, p := range s.patterns {
		if ok, err := path.Match(p, full); ok && err == nil {
			return true
		}
	}
	return false
}
