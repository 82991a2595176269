package constants

// TableFile names a tabular text file inside a GTFS static archive.
type TableFile string

const (
	StopsFile  TableFile = "stops.txt"
	ShapesFile TableFile = "shapes.txt"
	RoutesFile TableFile = "routes.txt"
	TripsFile  TableFile = "trips.txt"
)

// StopsTables is the table set needed by the stops-only map.
func StopsTables() []TableFile {
	return []TableFile{StopsFile}
}

// RouteTables is the table set needed by the route map.
func RouteTables() []TableFile {
	return []TableFile{StopsFile, ShapesFile, RoutesFile, TripsFile}
}
