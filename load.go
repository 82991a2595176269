package busmap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathanzari/ACE-Analysts/constants"
)

// Dataset is the union of every loaded feed, with stops deduplicated.
type Dataset struct {
	Feeds       []*Feed
	Stops       []Stop
	ShapePoints []ShapePoint
	Routes      []Route
	Trips       []Trip
}

// DiscoverArchives returns the archives in dir whose base name matches the
// glob pattern, sorted by path. It is an error for the directory to not
// exist or for no archive to match.
func DiscoverArchives(dir, pattern string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("feed directory %q does not exist: %w", dir, err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid archive pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no GTFS archives found in %s/%s", dir, pattern)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFeeds parses the requested tables out of every archive and
// concatenates them. A table that is absent from one archive only costs that
// archive's contribution; a table that is loaded from no archive at all is
// an error. Stops are deduplicated on (stop_id, lat, lon); the per-feed
// tables inside Feeds are left untouched.
func LoadFeeds(paths []string, tables []constants.TableFile) (*Dataset, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no GTFS archives to load")
	}
	dataset := &Dataset{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read archive %s: %w", path, err)
		}
		feed, err := ParseFeed(FeedName(path), content, tables)
		if err != nil {
			return nil, err
		}
		dataset.Feeds = append(dataset.Feeds, feed)
		dataset.Stops = append(dataset.Stops, feed.Stops...)
		dataset.ShapePoints = append(dataset.ShapePoints, feed.ShapePoints...)
		dataset.Routes = append(dataset.Routes, feed.Routes...)
		dataset.Trips = append(dataset.Trips, feed.Trips...)
	}
	for _, table := range tables {
		if !dataset.tableLoaded(table) {
			return nil, fmt.Errorf("no archive contains a usable %s table", table)
		}
	}
	dataset.Stops = DedupeStops(dataset.Stops)
	return dataset, nil
}

func (d *Dataset) tableLoaded(table constants.TableFile) bool {
	for _, feed := range d.Feeds {
		if r := feed.TableResults[table]; r.State == TableLoaded {
			return true
		}
	}
	return false
}

// FeedName returns the identifier of the feed stored at path: the archive
// file name without its extension.
func FeedName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DedupeStops collapses rows that agree on (stop_id, lat, lon), keeping the
// first occurrence. The same stop_id at different coordinates is left as
// separate entities; reconciling near-duplicates across feeds is out of
// scope. The operation is idempotent.
func DedupeStops(stops []Stop) []Stop {
	type key struct {
		id  string
		lat float64
		lon float64
	}
	seen := map[key]bool{}
	deduped := make([]Stop, 0, len(stops))
	for _, stop := range stops {
		k := key{stop.Id, stop.Latitude, stop.Longitude}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, stop)
	}
	return deduped
}
