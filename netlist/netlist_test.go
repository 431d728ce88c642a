package netlist

import "testing"

func TestResolverCanonMergesConnectedBits(t *testing.T) {
	m := NewModule("top")
	clk := m.AddWire(&Wire{Name: "clk", Width: 1, IsInput: true})
	a := m.AddWire(&Wire{Name: "a", Width: 1})
	b := m.AddWire(&Wire{Name: "b", Width: 1})

	m.Connect(clk.Bit(0), a.Bit(0))
	m.Connect(a.Bit(0), b.Bit(0))

	r := NewResolver(m)

	tests := []struct {
		got  Bit
		want Bit
	}{
		{r.Canon(clk.Bit(0)), r.Canon(b.Bit(0))},
		{r.Canon(a.Bit(0)), r.Canon(b.Bit(0))},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("got %v, want %v", test.got, test.want)
		}
	}
}

func TestResolverFrozenAfterNewWire(t *testing.T) {
	m := NewModule("top")
	a := m.AddWire(&Wire{Name: "a", Width: 1})
	b := m.AddWire(&Wire{Name: "b", Width: 1})
	m.Connect(a.Bit(0), b.Bit(0))

	r := NewResolver(m)

	// A wire added after the resolver is built must canon-map to itself,
	// not be swept into any pre-existing class.
	c := m.AddWire(&Wire{Name: "c", Width: 1})
	if got, want := r.Canon(c.Bit(0)), c.Bit(0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := r.Canon(a.Bit(0)); got != r.Canon(b.Bit(0)) {
		t.Errorf("a and b should remain canonically equal, got %v vs %v", got, r.Canon(b.Bit(0)))
	}
}

func TestSelectionDefaultMatchesEverything(t *testing.T) {
	s := ParseSelection("")
	if !s.Matches("top", "clk") {
		t.Errorf("empty selection should match everything")
	}
	if s.Explicit() {
		t.Errorf("empty selection should not be explicit")
	}
}

func TestSelectionGlob(t *testing.T) {
	s := ParseSelection("top/clk,sub*/rst")
	tests := []struct {
		module, wire string
		want         bool
	}{
		{"top", "clk", true},
		{"top", "other", false},
		{"subA", "rst", true},
		{"subB", "rst", true},
		{"subB", "other", false},
	}
	for _, test := range tests {
		if got := s.Matches(test.module, test.wire); got != test.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", test.module, test.wire, got, test.want)
		}
	}
	if !s.Explicit() {
		t.Errorf("non-empty selection should be explicit")
	}
}
