package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Zoom bounds accepted by validation. Web-mercator engines top out around 22.
const (
	minZoom = 0
	maxZoom = 22
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if GEOVIEW_CONFIG is set
//  3. env (prefix GEOVIEW_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GEOVIEW_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GEOVIEW_ADDR, GEOVIEW_CLUSTER_RADIUS_PX, ...
	// Map env keys like GEOVIEW_CLUSTER_RADIUS_PX -> cluster_radius_px.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GEOVIEW_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "geoview_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ClusterRadiusPx <= 0:
		return fmt.Errorf("%w: cluster_radius_px must be positive", ErrInvalidConfig)
	case !zoomInRange(c.ClusterMaxZoom),
		!zoomInRange(c.DetailZoom),
		!zoomInRange(c.GeolocateZoom),
		!zoomInRange(c.DefaultZoom):
		return fmt.Errorf("%w: zoom levels must be within [%d,%d]", ErrInvalidConfig, minZoom, maxZoom)
	case c.DefaultCenterLat < -90 || c.DefaultCenterLat > 90:
		return fmt.Errorf("%w: default_center_lat out of range", ErrInvalidConfig)
	case c.DefaultCenterLng < -180 || c.DefaultCenterLng > 180:
		return fmt.Errorf("%w: default_center_lng out of range", ErrInvalidConfig)
	case c.GeolocateLat < -90 || c.GeolocateLat > 90:
		return fmt.Errorf("%w: geolocate_lat out of range", ErrInvalidConfig)
	case c.GeolocateLng < -180 || c.GeolocateLng > 180:
		return fmt.Errorf("%w: geolocate_lng out of range", ErrInvalidConfig)
	}
	return nil
}

func zoomInRange(z float64) bool {
	return z >= minZoom && z <= maxZoom
}
