// Package render draws merged GTFS stops and route shapes as a
// self-contained interactive HTML map.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	busmap "github.com/jonathanzari/ACE-Analysts"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Options controls the appearance of the rendered map. The zero value is
// usable; empty or zero fields fall back to the defaults below.
type Options struct {
	Title         string
	TileURL       string
	Attribution   string
	MarkerRadius  float64
	StrokeWeight  float64
	StrokeOpacity float64
}

const (
	defaultTitle         = "Bus map"
	defaultTileURL       = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	defaultAttribution   = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`
	defaultMarkerRadius  = 1.8
	defaultStrokeWeight  = 3
	defaultStrokeOpacity = 0.8
)

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = defaultTitle
	}
	if o.TileURL == "" {
		o.TileURL = defaultTileURL
	}
	if o.Attribution == "" {
		o.Attribution = defaultAttribution
	}
	if o.MarkerRadius == 0 {
		o.MarkerRadius = defaultMarkerRadius
	}
	if o.StrokeWeight == 0 {
		o.StrokeWeight = defaultStrokeWeight
	}
	if o.StrokeOpacity == 0 {
		o.StrokeOpacity = defaultStrokeOpacity
	}
	return o
}

// Map accumulates features and writes them out as one HTML document. Stops
// and routes live on separate panes with explicit z-order so that stop
// markers always draw above route lines.
type Map struct {
	opts     Options
	palette  *Palette
	stops    *geojson.FeatureCollection
	routes   *geojson.FeatureCollection
	bound    orb.Bound
	hasBound bool
}

// NewMap returns an empty map. The palette supplies colors for route lines
// whose feed does not declare one; a nil palette means the default palette.
func NewMap(opts Options, palette *Palette) *Map {
	if palette == nil {
		palette = NewPalette(nil)
	}
	return &Map{
		opts:    opts.withDefaults(),
		palette: palette,
		stops:   geojson.NewFeatureCollection(),
		routes:  geojson.NewFeatureCollection(),
	}
}

// AddStop adds a circular point marker with a "name (ID: id)" tooltip.
func (m *Map) AddStop(stop busmap.Stop) {
	feature := geojson.NewFeature(orb.Point{stop.Longitude, stop.Latitude})
	feature.Properties["id"] = stop.Id
	feature.Properties["name"] = stop.Name
	m.stops.Append(feature)
	m.grow(feature.Geometry.Bound())
}

// AddRouteLine adds a colored polyline with a route tooltip. Lines without a
// feed-declared color get one from the palette, keyed by the route so every
// shape of a route shares a color.
func (m *Map) AddRouteLine(line busmap.RouteLine) {
	color := line.Color
	if color == "" {
		key := line.UID
		if line.RouteId != "" {
			key = line.Feed + "_" + line.RouteId
		}
		color = m.palette.ColorFor(key)
	}
	feature := geojson.NewFeature(line.Line)
	feature.Properties["uid"] = line.UID
	feature.Properties["label"] = line.Label
	feature.Properties["color"] = color
	m.routes.Append(feature)
	m.grow(feature.Geometry.Bound())
}

func (m *Map) grow(b orb.Bound) {
	if !m.hasBound {
		m.bound = b
		m.hasBound = true
		return
	}
	m.bound = m.bound.Union(b)
}

// NumStops returns the number of stop markers added so far.
func (m *Map) NumStops() int {
	return len(m.stops.Features)
}

// NumRouteLines returns the number of route polylines added so far.
func (m *Map) NumRouteLines() int {
	return len(m.routes.Features)
}

type mapConfig struct {
	Title         string        `json:"title"`
	TileURL       string        `json:"tileURL"`
	Attribution   string        `json:"attribution"`
	MarkerRadius  float64       `json:"markerRadius"`
	StrokeWeight  float64       `json:"strokeWeight"`
	StrokeOpacity float64       `json:"strokeOpacity"`
	Bounds        [2][2]float64 `json:"bounds"`
}

type templateData struct {
	Title  string
	Config template.JS
	Stops  template.JS
	Routes template.JS
}

// WriteHTML writes the map as a single self-contained HTML document at path.
// It is an error to write a map with no features since there is no viewport
// to fit.
func (m *Map) WriteHTML(path string) error {
	if !m.hasBound {
		return fmt.Errorf("refusing to write an empty map: no features were added")
	}
	config, err := json.Marshal(mapConfig{
		Title:         m.opts.Title,
		TileURL:       m.opts.TileURL,
		Attribution:   m.opts.Attribution,
		MarkerRadius:  m.opts.MarkerRadius,
		StrokeWeight:  m.opts.StrokeWeight,
		StrokeOpacity: m.opts.StrokeOpacity,
		Bounds: [2][2]float64{
			{m.bound.Min.Lat(), m.bound.Min.Lon()},
			{m.bound.Max.Lat(), m.bound.Max.Lon()},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode map config: %w", err)
	}
	stops, err := m.stops.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode stops: %w", err)
	}
	routes, err := m.routes.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode routes: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	err = pageTemplate.Execute(out, templateData{
		Title:  m.opts.Title,
		Config: template.JS(config),
		Stops:  template.JS(stops),
		Routes: template.JS(routes),
	})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write map to %s: %w", path, err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var config = {{.Config}};
var stops = {{.Stops}};
var routes = {{.Routes}};

var map = L.map('map', {preferCanvas: true});
L.tileLayer(config.tileURL, {attribution: config.attribution}).addTo(map);
map.fitBounds(config.bounds);

map.createPane('routes').style.zIndex = 640;
map.createPane('stops').style.zIndex = 650;

var routeLayer = null;
if (routes.features.length > 0) {
    routeLayer = L.geoJSON(routes, {
        pane: 'routes',
        style: function (feature) {
            return {
                color: feature.properties.color,
                weight: config.strokeWeight,
                opacity: config.strokeOpacity
            };
        },
        onEachFeature: function (feature, layer) {
            layer.bindTooltip(feature.properties.label + ' (' + feature.properties.uid + ')', {sticky: true});
        }
    }).addTo(map);
}

var stopLayer = L.geoJSON(stops, {
    pane: 'stops',
    pointToLayer: function (feature, latlng) {
        return L.circleMarker(latlng, {
            radius: config.markerRadius,
            fill: true,
            fillOpacity: 0.8,
            opacity: 0.8
        });
    },
    onEachFeature: function (feature, layer) {
        layer.bindTooltip(feature.properties.name + ' (ID: ' + feature.properties.id + ')');
    }
}).addTo(map);

var overlays = {'Stops (dots)': stopLayer};
if (routeLayer) {
    overlays['Routes'] = routeLayer;
}
L.control.layers(null, overlays, {collapsed: false}).addTo(map);
</script>
</body>
</html>
`))
