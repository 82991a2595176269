package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	busmap "github.com/jonathanzari/ACE-Analysts"
	"github.com/paulmach/orb"
)

func TestWriteHTML(t *testing.T) {
	m := NewMap(Options{}, nil)
	m.AddStop(busmap.Stop{Feed: "gtfs_m", Id: "101", Name: "Main St", Latitude: 40.1, Longitude: -73.9})
	m.AddStop(busmap.Stop{Feed: "gtfs_m", Id: "102", Name: "Second Av", Latitude: 40.2, Longitude: -73.8})
	m.AddRouteLine(busmap.RouteLine{
		UID:     "gtfs_m_42",
		Feed:    "gtfs_m",
		ShapeId: "42",
		RouteId: "M1",
		Label:   "M1",
		Color:   "#0039A6",
		Line:    orb.LineString{{-73.9, 40.1}, {-73.8, 40.2}},
	})
	m.AddRouteLine(busmap.RouteLine{
		UID:     "gtfs_q_42",
		Feed:    "gtfs_q",
		ShapeId: "42",
		RouteId: "Q1",
		Label:   "Q1",
		Line:    orb.LineString{{-73.8, 40.7}, {-73.7, 40.8}},
	})

	path := filepath.Join(t.TempDir(), "map.html")
	if err := m.WriteHTML(path); err != nil {
		t.Fatalf("error writing map: %s", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading map back: %s", err)
	}
	html := string(content)

	for _, want := range []string{
		// One feature per stop and per route line, keyed distinctly.
		`"id":"101"`,
		`"id":"102"`,
		`"uid":"gtfs_m_42"`,
		`"uid":"gtfs_q_42"`,
		// Feed color kept, palette color allocated for the colorless line.
		`"color":"#0039A6"`,
		`"color":"` + DefaultPalette[0] + `"`,
		// Panes give stops a higher z-order than routes.
		`createPane('routes').style.zIndex = 640`,
		`createPane('stops').style.zIndex = 650`,
		// The stops overlay is a named toggleable layer.
		`'Stops (dots)'`,
		"fitBounds",
		"leaflet",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestWriteHTMLStopsOnly(t *testing.T) {
	m := NewMap(Options{Title: "MTA bus stops"}, nil)
	for i, stop := range []busmap.Stop{
		{Feed: "gtfs_m", Id: "101", Name: "Main St", Latitude: 40.1, Longitude: -73.9},
		{Feed: "gtfs_m", Id: "102", Name: "Second Av", Latitude: 40.2, Longitude: -73.8},
		{Feed: "gtfs_m", Id: "103", Name: "Third Av", Latitude: 40.3, Longitude: -73.7},
	} {
		m.AddStop(stop)
		if m.NumStops() != i+1 {
			t.Errorf("NumStops() = %d, want %d", m.NumStops(), i+1)
		}
	}

	path := filepath.Join(t.TempDir(), "map.html")
	if err := m.WriteHTML(path); err != nil {
		t.Fatalf("error writing map: %s", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("error reading map back: %s", err)
	}
	html := string(content)
	if !strings.Contains(html, "<title>MTA bus stops</title>") {
		t.Error("output does not contain the configured title")
	}
	if strings.Count(html, `"type":"Point"`) != 3 {
		t.Errorf("expected 3 point features in the output")
	}
}

func TestWriteHTMLEmptyMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")
	if err := NewMap(Options{}, nil).WriteHTML(path); err == nil {
		t.Error("expected an error when writing a map with no features")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("no output file should be produced for an empty map")
	}
}
