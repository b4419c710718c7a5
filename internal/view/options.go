package view

import (
	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/adapters/geoloc"
	"github.com/placora/geoview/internal/domain/cluster"
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/pkg/logger"
)

// Option configures a View before Mount.
type Option func(*View)

// WithLogger overrides the default named logger.
func WithLogger(log logger.Logger) Option {
	return func(v *View) {
		v.log = log
	}
}

// WithEngineConfig supplies the engine access token and style.
func WithEngineConfig(cfg engine.Config) Option {
	return func(v *View) {
		v.engineCfg = cfg
	}
}

// WithDataset sets the marker snapshot the view renders.
func WithDataset(d *model.Dataset) Option {
	return func(v *View) {
		v.dataset = d
	}
}

// WithCategories sets the category chips shown in the filter bar.
func WithCategories(cats []model.Category) Option {
	return func(v *View) {
		v.categories = cats
	}
}

// WithClusterIndex overrides the default clustering parameters.
func WithClusterIndex(ix *cluster.Index) Option {
	return func(v *View) {
		v.clusterIdx = ix
	}
}

// WithPositionProvider sets the geolocation source.
func WithPositionProvider(p geoloc.PositionProvider) Option {
	return func(v *View) {
		v.provider = p
	}
}

// WithTranslations replaces the built-in English strings.
func WithTranslations(tr Translations) Option {
	return func(v *View) {
		v.translations = tr
	}
}

// WithLocale sets the locale segment used in detail links.
func WithLocale(locale string) Option {
	return func(v *View) {
		v.locale = locale
	}
}

// WithCountrySlug sets the country segment used in detail links.
func WithCountrySlug(slug string) Option {
	return func(v *View) {
		v.countrySlug = slug
	}
}

// WithDetailZoom sets the zoom used when flying to a selected marker.
func WithDetailZoom(zoom float64) Option {
	return func(v *View) {
		v.detailZoom = zoom
	}
}

// WithGeolocateZoom sets the zoom used after a successful position fix.
func WithGeolocateZoom(zoom float64) Option {
	return func(v *View) {
		v.geolocateZoom = zoom
	}
}

// WithInitialCamera pins the starting camera instead of deriving it from
// the dataset.
func WithInitialCamera(center model.Coordinate, zoom float64) Option {
	return func(v *View) {
		v.initialCenter = &center
		v.initialZoom = &zoom
	}
}

// WithInitialQuery seeds the free-text filter, e.g. from the URL.
func WithInitialQuery(text string) Option {
	return func(v *View) {
		v.seedQuery = text
	}
}

// WithInitialCategory seeds the category filter, e.g. from the URL.
func WithInitialCategory(slug string) Option {
	return func(v *View) {
		v.seedCategory = slug
	}
}

// WithOnCategoryChange registers the host callback fired after the
// category filter changes, outside the view lock.
func WithOnCategoryChange(fn func(slug string)) Option {
	return func(v *View) {
		v.onCategoryChange = fn
	}
}
