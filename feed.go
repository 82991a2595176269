// Package busmap merges the stop and route-shape tables of multiple GTFS
// static feeds so they can be rendered on a single map.
package busmap

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log"
	"strconv"

	"github.com/jonathanzari/ACE-Analysts/constants"
	"github.com/jonathanzari/ACE-Analysts/csv"
	"github.com/jonathanzari/ACE-Analysts/warnings"
)

// Feed contains the parsed tables of a single GTFS static archive. Every row
// is tagged with the feed name so that ids which repeat across feeds stay
// distinguishable.
type Feed struct {
	Name        string
	Stops       []Stop
	ShapePoints []ShapePoint
	Routes      []Route
	Trips       []Trip

	TableResults map[constants.TableFile]TableResult
	Warnings     []warnings.FeedWarning
}

// Stop corresponds to a single row in the stops.txt file.
type Stop struct {
	Feed      string
	Id        string
	Name      string
	Latitude  float64
	Longitude float64
}

// ShapePoint corresponds to a single row in the shapes.txt file.
type ShapePoint struct {
	Feed      string
	ShapeId   string
	Latitude  float64
	Longitude float64
	Sequence  int
}

// UID returns the feed-qualified shape identifier. shape_id is only unique
// within a feed, so every key that crosses feed boundaries uses this form.
func (p ShapePoint) UID() string {
	return p.Feed + "_" + p.ShapeId
}

// Route corresponds to a single row in the routes.txt file.
type Route struct {
	Feed      string
	Id        string
	ShortName string
	LongName  string
	Color     string
}

// Label returns the best human-readable name for the route.
func (r Route) Label() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	if r.LongName != "" {
		return r.LongName
	}
	return r.Id
}

// Trip corresponds to a single row in the trips.txt file. Trips are used
// only to propagate route labels onto shapes.
type Trip struct {
	Feed    string
	Id      string
	RouteId string
	ShapeId string
}

type TableState int32

const (
	// TableLoaded means the table was present and parsed; individual rows
	// may still have been dropped.
	TableLoaded TableState = 0
	// TableAbsent means the archive does not contain the table.
	TableAbsent TableState = 1
	// TableMalformed means the table was present but could not be parsed,
	// for example because a required column is missing.
	TableMalformed TableState = 2
)

func (s TableState) String() string {
	switch s {
	case TableLoaded:
		return "LOADED"
	case TableAbsent:
		return "ABSENT"
	case TableMalformed:
		return "MALFORMED"
	}
	return "UNKNOWN"
}

// TableResult describes the outcome of extracting one table from one feed.
type TableResult struct {
	Feed        string
	File        constants.TableFile
	State       TableState
	RowsRead    int
	RowsDropped int
	Err         error
}

// ParseFeed parses the requested tables out of the content of a single GTFS
// static archive. A table that is absent or malformed contributes no rows and
// is reported through the feed's table results rather than through the error
// return; the error return is reserved for content that is not a zip archive
// at all.
func ParseFeed(name string, content []byte, tables []constants.TableFile) (*Feed, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open feed %q as a zip archive: %w", name, err)
	}
	feed := &Feed{
		Name:         name,
		TableResults: map[constants.TableFile]TableResult{},
	}
	fileNameToFile := map[string]*zip.File{}
	for _, file := range reader.File {
		fileNameToFile[file.Name] = file
	}
	for _, table := range tables {
		zipFile := fileNameToFile[string(table)]
		if zipFile == nil {
			w := warnings.TableAbsent{FeedName: name, Table: table}
			log.Print(w.Error())
			feed.Warnings = append(feed.Warnings, w)
			feed.TableResults[table] = TableResult{Feed: name, File: table, State: TableAbsent}
			continue
		}
		tableContent, err := zipFile.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in feed %q: %w", table, name, err)
		}
		file, err := csv.New(table, tableContent)
		if err != nil {
			feed.TableResults[table] = TableResult{
				Feed:  name,
				File:  table,
				State: TableMalformed,
				Err:   fmt.Errorf("failed to parse %s in feed %q: %w", table, name, err),
			}
			continue
		}
		var commit func()
		var read, dropped int
		var warns []warnings.FeedWarning
		switch table {
		case constants.StopsFile:
			var stops []Stop
			stops, read, dropped, warns = parseStops(name, file)
			commit = func() { feed.Stops = stops }
		case constants.ShapesFile:
			var points []ShapePoint
			points, read, dropped, warns = parseShapePoints(name, file)
			commit = func() { feed.ShapePoints = points }
		case constants.RoutesFile:
			var routes []Route
			routes, read, dropped, warns = parseRoutes(name, file)
			commit = func() { feed.Routes = routes }
		case constants.TripsFile:
			var trips []Trip
			trips, read, dropped, warns = parseTrips(name, file)
			commit = func() { feed.Trips = trips }
		default:
			file.Close()
			return nil, fmt.Errorf("no parser for table %q", table)
		}
		closeErr := file.Close()
		if cols := file.MissingRequiredColumns(); cols != nil {
			w := warnings.TableMissingColumns{FeedName: name, Table: table, Columns: cols}
			log.Print(w.Error())
			feed.Warnings = append(feed.Warnings, w)
			feed.TableResults[table] = TableResult{Feed: name, File: table, State: TableMalformed, Err: w}
			continue
		}
		if closeErr != nil {
			feed.TableResults[table] = TableResult{
				Feed:  name,
				File:  table,
				State: TableMalformed,
				Err:   fmt.Errorf("failed to read %s in feed %q: %w", table, name, closeErr),
			}
			continue
		}
		for _, w := range warns {
			log.Print(w.Error())
		}
		feed.Warnings = append(feed.Warnings, warns...)
		commit()
		feed.TableResults[table] = TableResult{
			Feed:        name,
			File:        table,
			State:       TableLoaded,
			RowsRead:    read,
			RowsDropped: dropped,
		}
	}
	return feed, nil
}

func parseStops(feedName string, file *csv.File) ([]Stop, int, int, []warnings.FeedWarning) {
	stopId := file.RequiredColumn("stop_id")
	stopLat := file.RequiredColumn("stop_lat")
	stopLon := file.RequiredColumn("stop_lon")
	stopName := file.OptionalColumn("stop_name")
	if file.MissingRequiredColumns() != nil {
		return nil, 0, 0, nil
	}
	var stops []Stop
	var read, dropped int
	var warns []warnings.FeedWarning
	for file.NextRow() {
		read++
		stop := Stop{
			Feed: feedName,
			Id:   stopId.Read(),
			Name: stopName.Read(),
		}
		rawLat := stopLat.Read()
		rawLon := stopLon.Read()
		badKeys := append([]string(nil), file.MissingRowKeys()...)
		var ok bool
		if stop.Latitude, ok = parseCoordinate(rawLat); rawLat != "" && !ok {
			badKeys = append(badKeys, "stop_lat")
		}
		if stop.Longitude, ok = parseCoordinate(rawLon); rawLon != "" && !ok {
			badKeys = append(badKeys, "stop_lon")
		}
		if len(badKeys) > 0 {
			dropped++
			warns = append(warns, warnings.RowDropped{
				FeedName:    feedName,
				Table:       file.Name(),
				RowNumber:   file.RowNumber(),
				MissingKeys: badKeys,
			})
			continue
		}
		stops = append(stops, stop)
	}
	return stops, read, dropped, warns
}

func parseShapePoints(feedName string, file *csv.File) ([]ShapePoint, int, int, []warnings.FeedWarning) {
	shapeId := file.RequiredColumn("shape_id")
	ptLat := file.RequiredColumn("shape_pt_lat")
	ptLon := file.RequiredColumn("shape_pt_lon")
	ptSequence := file.RequiredColumn("shape_pt_sequence")
	if file.MissingRequiredColumns() != nil {
		return nil, 0, 0, nil
	}
	var points []ShapePoint
	var read, dropped int
	var warns []warnings.FeedWarning
	for file.NextRow() {
		read++
		point := ShapePoint{
			Feed:    feedName,
			ShapeId: shapeId.Read(),
		}
		rawLat := ptLat.Read()
		rawLon := ptLon.Read()
		rawSequence := ptSequence.Read()
		badKeys := append([]string(nil), file.MissingRowKeys()...)
		var ok bool
		if point.Latitude, ok = parseCoordinate(rawLat); rawLat != "" && !ok {
			badKeys = append(badKeys, "shape_pt_lat")
		}
		if point.Longitude, ok = parseCoordinate(rawLon); rawLon != "" && !ok {
			badKeys = append(badKeys, "shape_pt_lon")
		}
		if point.Sequence, ok = parseSequence(rawSequence); rawSequence != "" && !ok {
			badKeys = append(badKeys, "shape_pt_sequence")
		}
		if len(badKeys) > 0 {
			dropped++
			warns = append(warns, warnings.RowDropped{
				FeedName:    feedName,
				Table:       file.Name(),
				RowNumber:   file.RowNumber(),
				MissingKeys: badKeys,
			})
			continue
		}
		points = append(points, point)
	}
	return points, read, dropped, warns
}

func parseRoutes(feedName string, file *csv.File) ([]Route, int, int, []warnings.FeedWarning) {
	routeId := file.RequiredColumn("route_id")
	shortName := file.OptionalColumn("route_short_name")
	longName := file.OptionalColumn("route_long_name")
	color := file.OptionalColumn("route_color")
	if file.MissingRequiredColumns() != nil {
		return nil, 0, 0, nil
	}
	var routes []Route
	var read, dropped int
	var warns []warnings.FeedWarning
	for file.NextRow() {
		read++
		route := Route{
			Feed:      feedName,
			Id:        routeId.Read(),
			ShortName: shortName.Read(),
			LongName:  longName.Read(),
			Color:     color.Read(),
		}
		if missingKeys := file.MissingRowKeys(); len(missingKeys) > 0 {
			dropped++
			warns = append(warns, warnings.RowDropped{
				FeedName:    feedName,
				Table:       file.Name(),
				RowNumber:   file.RowNumber(),
				MissingKeys: append([]string(nil), missingKeys...),
			})
			continue
		}
		routes = append(routes, route)
	}
	return routes, read, dropped, warns
}

func parseTrips(feedName string, file *csv.File) ([]Trip, int, int, []warnings.FeedWarning) {
	tripId := file.RequiredColumn("trip_id")
	routeId := file.RequiredColumn("route_id")
	shapeId := file.OptionalColumn("shape_id")
	if file.MissingRequiredColumns() != nil {
		return nil, 0, 0, nil
	}
	var trips []Trip
	var read, dropped int
	var warns []warnings.FeedWarning
	for file.NextRow() {
		read++
		trip := Trip{
			Feed:    feedName,
			Id:      tripId.Read(),
			RouteId: routeId.Read(),
			ShapeId: shapeId.Read(),
		}
		if missingKeys := file.MissingRowKeys(); len(missingKeys) > 0 {
			dropped++
			warns = append(warns, warnings.RowDropped{
				FeedName:    feedName,
				Table:       file.Name(),
				RowNumber:   file.RowNumber(),
				MissingKeys: append([]string(nil), missingKeys...),
			})
			continue
		}
		trips = append(trips, trip)
	}
	return trips, read, dropped, warns
}

func parseCoordinate(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseSequence(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return i, true
}
