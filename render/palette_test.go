package render

import "testing"

func TestPaletteAssignmentIsDeterministic(t *testing.T) {
	keys := []string{"gtfs_m_M1", "gtfs_m_M2", "gtfs_q_Q1", "gtfs_m_M1"}

	first := map[string]string{}
	p := NewPalette(nil)
	for _, key := range keys {
		first[key] = p.ColorFor(key)
	}

	p = NewPalette(nil)
	for _, key := range keys {
		if got := p.ColorFor(key); got != first[key] {
			t.Errorf("second run assigned %s to %q, first run assigned %s", got, key, first[key])
		}
	}

	if first["gtfs_m_M1"] == first["gtfs_m_M2"] {
		t.Errorf("distinct keys got the same color %s", first["gtfs_m_M1"])
	}
}

func TestPaletteIsStablePerKey(t *testing.T) {
	p := NewPalette([]string{"#111111", "#222222"})
	a := p.ColorFor("a")
	p.ColorFor("b")
	p.ColorFor("c")
	if got := p.ColorFor("a"); got != a {
		t.Errorf("color for key changed from %s to %s", a, got)
	}
}

func TestPaletteWrapsAround(t *testing.T) {
	p := NewPalette([]string{"#111111", "#222222"})
	if got := p.ColorFor("a"); got != "#111111" {
		t.Errorf(`ColorFor("a") = %s, want #111111`, got)
	}
	if got := p.ColorFor("b"); got != "#222222" {
		t.Errorf(`ColorFor("b") = %s, want #222222`, got)
	}
	if got := p.ColorFor("c"); got != "#111111" {
		t.Errorf(`ColorFor("c") = %s, want #111111 after wrapping`, got)
	}
}
