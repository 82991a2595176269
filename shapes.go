package busmap

import (
	"sort"

	"github.com/jonathanzari/ACE-Analysts/warnings"
	"github.com/paulmach/orb"
)

// RouteLine is a renderable route geometry: one connected line per
// feed-qualified shape, carrying the display attributes of the route whose
// trips reference the shape.
type RouteLine struct {
	// UID is feed + "_" + shape_id, unique across the union of all feeds.
	UID     string
	Feed    string
	ShapeId string
	// RouteId is empty when no trip references the shape.
	RouteId string
	// Label is the route's display name, falling back to the shape UID when
	// no trip references the shape.
	Label string
	// Color is the route's color as "#RRGGBB", or empty when the feed does
	// not declare one.
	Color string
	Line  orb.LineString
}

// BuildRouteLines assembles one connected line per feed-qualified shape and
// attaches route labels and colors by joining trips to routes within each
// feed. Lines are returned sorted by UID. Shapes with fewer than two points
// cannot form a line and are reported as warnings instead.
//
// When several trips reference the same shape the route of the first trip in
// (feed, trip_id) order wins; trips are sorted before the join so the
// assignment does not depend on trips.txt row order.
func BuildRouteLines(dataset *Dataset) ([]RouteLine, []warnings.FeedWarning) {
	points := append([]ShapePoint(nil), dataset.ShapePoints...)
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].UID() != points[j].UID() {
			return points[i].UID() < points[j].UID()
		}
		return points[i].Sequence < points[j].Sequence
	})

	trips := append([]Trip(nil), dataset.Trips...)
	sort.SliceStable(trips, func(i, j int) bool {
		if trips[i].Feed != trips[j].Feed {
			return trips[i].Feed < trips[j].Feed
		}
		return trips[i].Id < trips[j].Id
	})
	type feedKey struct {
		feed string
		id   string
	}
	shapeToTrip := map[feedKey]Trip{}
	for _, trip := range trips {
		if trip.ShapeId == "" {
			continue
		}
		k := feedKey{trip.Feed, trip.ShapeId}
		if _, ok := shapeToTrip[k]; !ok {
			shapeToTrip[k] = trip
		}
	}
	routes := map[feedKey]Route{}
	for _, route := range dataset.Routes {
		routes[feedKey{route.Feed, route.Id}] = route
	}

	var lines []RouteLine
	var warns []warnings.FeedWarning
	for start := 0; start < len(points); {
		end := start + 1
		for end < len(points) && points[end].UID() == points[start].UID() {
			end++
		}
		group := points[start:end]
		start = end
		first := group[0]
		if len(group) < 2 {
			warns = append(warns, warnings.ShapeTooShort{
				FeedName:  first.Feed,
				ShapeID:   first.ShapeId,
				NumPoints: len(group),
			})
			continue
		}
		line := RouteLine{
			UID:     first.UID(),
			Feed:    first.Feed,
			ShapeId: first.ShapeId,
			Label:   first.UID(),
			Line:    make(orb.LineString, 0, len(group)),
		}
		for _, point := range group {
			line.Line = append(line.Line, orb.Point{point.Longitude, point.Latitude})
		}
		if trip, ok := shapeToTrip[feedKey{first.Feed, first.ShapeId}]; ok {
			line.RouteId = trip.RouteId
			line.Label = trip.RouteId
			if route, ok := routes[feedKey{trip.Feed, trip.RouteId}]; ok {
				line.Label = route.Label()
				if route.Color != "" {
					line.Color = "#" + route.Color
				}
			}
		}
		lines = append(lines, line)
	}
	return lines, warns
}
