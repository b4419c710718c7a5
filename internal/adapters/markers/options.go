package markers

import (
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/pkg/logger"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithCategories seeds the category icon table from the host's chips.
func WithCategories(categories []model.Category) Option {
	return func(m *Manager) {
		for _, c := range categories {
			if c.Icon != "" {
				m.icons[c.Slug] = c.Icon
			}
		}
	}
}

// WithFallbackIcon overrides the icon used for unknown category slugs.
func WithFallbackIcon(icon string) Option {
	return func(m *Manager) {
		if icon != "" {
			m.fallbackIcon = icon
		}
	}
}

// WithLocale sets the locale segment of popup detail links.
func WithLocale(locale string) Option {
	return func(m *Manager) {
		if locale != "" {
			m.locale = locale
		}
	}
}

// WithCountrySlug sets the country segment of popup detail links.
func WithCountrySlug(slug string) Option {
	return func(m *Manager) {
		m.countrySlug = slug
	}
}

// WithLabels overrides the translated popup strings.
func WithLabels(labels Labels) Option {
	return func(m *Manager) {
		if labels.Reviews != "" {
			m.labels.Reviews = labels.Reviews
		}
		if labels.PremiumBadge != "" {
			m.labels.PremiumBadge = labels.PremiumBadge
		}
		if labels.ViewDetails != "" {
			m.labels.ViewDetails = labels.ViewDetails
		}
	}
}

// WithOnSelect wires marker element clicks to the selection controller.
func WithOnSelect(fn func(markerID string)) Option {
	return func(m *Manager) {
		m.onSelect = fn
	}
}

// WithOnExpand wires cluster element clicks to the zoom-resolution path.
func WithOnExpand(fn func(nodeID string)) Option {
	return func(m *Manager) {
		m.onExpand = fn
	}
}
