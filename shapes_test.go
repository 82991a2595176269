package busmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathanzari/ACE-Analysts/warnings"
	"github.com/paulmach/orb"
)

func TestBuildRouteLines(t *testing.T) {
	dataset := &Dataset{
		ShapePoints: []ShapePoint{
			// Out of sequence on purpose.
			{Feed: "gtfs_m", ShapeId: "1", Latitude: 40.2, Longitude: -73.8, Sequence: 2},
			{Feed: "gtfs_m", ShapeId: "1", Latitude: 40.1, Longitude: -73.9, Sequence: 1},
			{Feed: "gtfs_m", ShapeId: "1", Latitude: 40.3, Longitude: -73.7, Sequence: 3},
		},
		Routes: []Route{
			{Feed: "gtfs_m", Id: "M1", ShortName: "M1", Color: "0039A6"},
		},
		Trips: []Trip{
			{Feed: "gtfs_m", Id: "t1", RouteId: "M1", ShapeId: "1"},
		},
	}

	lines, warns := BuildRouteLines(dataset)
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}
	expected := []RouteLine{
		{
			UID:     "gtfs_m_1",
			Feed:    "gtfs_m",
			ShapeId: "1",
			RouteId: "M1",
			Label:   "M1",
			Color:   "#0039A6",
			Line: orb.LineString{
				{-73.9, 40.1},
				{-73.8, 40.2},
				{-73.7, 40.3},
			},
		},
	}
	if diff := cmp.Diff(lines, expected); diff != "" {
		t.Errorf("unexpected lines, diff:%s", diff)
	}
}

// Two feeds defining the same shape_id must yield two distinct geometries,
// not one merged or overwritten one.
func TestBuildRouteLinesShapeIdCollision(t *testing.T) {
	dataset := &Dataset{
		ShapePoints: []ShapePoint{
			{Feed: "gtfs_m", ShapeId: "42", Latitude: 40.1, Longitude: -73.9, Sequence: 1},
			{Feed: "gtfs_m", ShapeId: "42", Latitude: 40.2, Longitude: -73.8, Sequence: 2},
			{Feed: "gtfs_q", ShapeId: "42", Latitude: 40.7, Longitude: -73.8, Sequence: 1},
			{Feed: "gtfs_q", ShapeId: "42", Latitude: 40.8, Longitude: -73.7, Sequence: 2},
		},
	}

	lines, warns := BuildRouteLines(dataset)
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].UID == lines[1].UID {
		t.Errorf("both lines have UID %q", lines[0].UID)
	}
	if diff := cmp.Diff(lines[0].Line, orb.LineString{{-73.9, 40.1}, {-73.8, 40.2}}); diff != "" {
		t.Errorf("unexpected gtfs_m geometry, diff:%s", diff)
	}
	if diff := cmp.Diff(lines[1].Line, orb.LineString{{-73.8, 40.7}, {-73.7, 40.8}}); diff != "" {
		t.Errorf("unexpected gtfs_q geometry, diff:%s", diff)
	}
}

// When several trips reference one shape, the trip with the smallest
// (feed, trip_id) wins regardless of trips.txt row order.
func TestBuildRouteLinesTripJoinIsDeterministic(t *testing.T) {
	points := []ShapePoint{
		{Feed: "gtfs_m", ShapeId: "1", Latitude: 40.1, Longitude: -73.9, Sequence: 1},
		{Feed: "gtfs_m", ShapeId: "1", Latitude: 40.2, Longitude: -73.8, Sequence: 2},
	}
	routes := []Route{
		{Feed: "gtfs_m", Id: "M1", ShortName: "M1"},
		{Feed: "gtfs_m", Id: "M2", ShortName: "M2"},
	}
	trips := []Trip{
		{Feed: "gtfs_m", Id: "t2", RouteId: "M2", ShapeId: "1"},
		{Feed: "gtfs_m", Id: "t1", RouteId: "M1", ShapeId: "1"},
	}
	reversed := []Trip{trips[1], trips[0]}

	for _, order := range [][]Trip{trips, reversed} {
		lines, _ := BuildRouteLines(&Dataset{ShapePoints: points, Routes: routes, Trips: order})
		if len(lines) != 1 {
			t.Fatalf("got %d lines, want 1", len(lines))
		}
		if lines[0].RouteId != "M1" {
			t.Errorf("got route %q, want M1", lines[0].RouteId)
		}
	}
}

func TestBuildRouteLinesLabelFallbacks(t *testing.T) {
	points := func(feed, shapeId string) []ShapePoint {
		return []ShapePoint{
			{Feed: feed, ShapeId: shapeId, Latitude: 40.1, Longitude: -73.9, Sequence: 1},
			{Feed: feed, ShapeId: shapeId, Latitude: 40.2, Longitude: -73.8, Sequence: 2},
		}
	}
	t.Run("no trip references the shape", func(t *testing.T) {
		lines, _ := BuildRouteLines(&Dataset{ShapePoints: points("gtfs_m", "1")})
		if len(lines) != 1 {
			t.Fatalf("got %d lines, want 1", len(lines))
		}
		if lines[0].Label != "gtfs_m_1" {
			t.Errorf("got label %q, want the shape UID", lines[0].Label)
		}
	})
	t.Run("trip references an unknown route", func(t *testing.T) {
		dataset := &Dataset{
			ShapePoints: points("gtfs_m", "1"),
			Trips:       []Trip{{Feed: "gtfs_m", Id: "t1", RouteId: "M9", ShapeId: "1"}},
		}
		lines, _ := BuildRouteLines(dataset)
		if lines[0].Label != "M9" {
			t.Errorf("got label %q, want the route id", lines[0].Label)
		}
		if lines[0].Color != "" {
			t.Errorf("got color %q, want none", lines[0].Color)
		}
	})
}

func TestBuildRouteLinesTooShortShape(t *testing.T) {
	dataset := &Dataset{
		ShapePoints: []ShapePoint{
			{Feed: "gtfs_m", ShapeId: "1", Latitude: 40.1, Longitude: -73.9, Sequence: 1},
			{Feed: "gtfs_m", ShapeId: "2", Latitude: 40.1, Longitude: -73.9, Sequence: 1},
			{Feed: "gtfs_m", ShapeId: "2", Latitude: 40.2, Longitude: -73.8, Sequence: 2},
		},
	}

	lines, warns := BuildRouteLines(dataset)
	if len(lines) != 1 || lines[0].UID != "gtfs_m_2" {
		t.Errorf("expected only the two-point shape to survive, got %+v", lines)
	}
	expected := []warnings.FeedWarning{
		warnings.ShapeTooShort{FeedName: "gtfs_m", ShapeID: "1", NumPoints: 1},
	}
	if diff := cmp.Diff(warns, expected); diff != "" {
		t.Errorf("unexpected warnings, diff:%s", diff)
	}
}
