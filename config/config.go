// Package config loads the optional busmap.yml configuration file. Every
// field has a default that reproduces the fixed paths and styling of the
// original MTA bus map workflow, so running without a config file works.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked for when none is given explicitly.
const DefaultPath = "busmap.yml"

// Config is the root configuration structure.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Map    MapConfig    `yaml:"map"`
}

// InputConfig says where to find the GTFS archives.
type InputConfig struct {
	Dir  string `yaml:"dir" validate:"required"`
	Glob string `yaml:"glob" validate:"required"`
}

// OutputConfig says where to write the HTML artifact.
type OutputConfig struct {
	Path string `yaml:"path" validate:"required"`
	// Open controls whether the artifact is opened in the default browser
	// after it is written.
	Open bool `yaml:"open"`
}

// MapConfig controls the appearance of the rendered map.
type MapConfig struct {
	Title   string `yaml:"title"`
	// TileURL may contain Leaflet placeholders like {s}/{z}/{x}/{y}, so it
	// is not validated as a URL.
	TileURL       string   `yaml:"tileURL"`
	Attribution   string   `yaml:"attribution"`
	MarkerRadius  float64  `yaml:"markerRadius" validate:"gte=0"`
	StrokeWeight  float64  `yaml:"strokeWeight" validate:"gte=0"`
	StrokeOpacity float64  `yaml:"strokeOpacity" validate:"gte=0,lte=1"`
	Palette       []string `yaml:"palette" validate:"omitempty,dive,hexcolor"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Input: InputConfig{
			Dir:  "./bus_gtfs",
			Glob: "gtfs_*.zip",
		},
		Output: OutputConfig{
			Path: "mta_bus_map.html",
			Open: true,
		},
		Map: MapConfig{
			MarkerRadius:  1.8,
			StrokeWeight:  3,
			StrokeOpacity: 0.8,
		},
	}
}

// Load reads and validates the configuration at path. An empty path means
// DefaultPath, and a missing DefaultPath is not an error: the defaults are
// returned. An explicitly given path that does not exist is an error, as is
// any config that fails validation.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}
