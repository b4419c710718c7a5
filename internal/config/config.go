// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EngineAccessToken authorizes the map rendering engine. An empty token
	// is the documented trigger for the static fallback view.
	EngineAccessToken string `koanf:"engine_access_token"`

	// EngineStyleURL points the engine at its style/tile definition.
	EngineStyleURL string `koanf:"engine_style_url"`

	// DatasetPath locates the marker snapshot JSON consumed by the harness.
	DatasetPath string `koanf:"dataset_path"`

	// ClusterRadiusPx is the screen-space grouping threshold in pixels.
	ClusterRadiusPx float64 `koanf:"cluster_radius_px"`

	// ClusterMaxZoom is the zoom at and beyond which markers never merge.
	ClusterMaxZoom float64 `koanf:"cluster_max_zoom"`

	// DetailZoom is the zoom used when flying to a selected marker.
	DetailZoom float64 `koanf:"detail_zoom"`

	// GeolocateZoom is the zoom used after a successful position request.
	GeolocateZoom float64 `koanf:"geolocate_zoom"`

	// GeolocateLat and GeolocateLng pin the position source answered by
	// the locate control. Both zero leaves geolocation unavailable.
	GeolocateLat float64 `koanf:"geolocate_lat"`
	GeolocateLng float64 `koanf:"geolocate_lng"`

	// DefaultCenterLat and DefaultCenterLng seed the camera when the
	// dataset is empty and no explicit center is supplied.
	DefaultCenterLat float64 `koanf:"default_center_lat"`
	DefaultCenterLng float64 `koanf:"default_center_lng"`

	// DefaultZoom seeds the camera zoom.
	DefaultZoom float64 `koanf:"default_zoom"`

	// Locale and CountrySlug feed the marker detail link builder.
	Locale      string `koanf:"locale"`
	CountrySlug string `koanf:"country_slug"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		EngineAccessToken: "",
		EngineStyleURL:    "",
		DatasetPath:       "data/markers.json",
		ClusterRadiusPx:   50,
		ClusterMaxZoom:    14,
		DetailZoom:        14,
		GeolocateZoom:     12,
		GeolocateLat:      0,
		GeolocateLng:      0,
		DefaultCenterLat:  52.3676,
		DefaultCenterLng:  4.9041,
		DefaultZoom:       7,
		Locale:            "en",
		CountrySlug:       "netherlands",
	}
}
