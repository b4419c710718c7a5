package markers

import (
	"fmt"
	"strconv"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/domain/cluster"
	"github.com/placora/geoview/internal/domain/model"
)

// appearanceFor maps a node to its visual contract: cluster badges carry
// the member count, leaves carry the category icon and premium styling.
func (m *Manager) appearanceFor(node cluster.Node) engine.MarkerAppearance {
	if node.IsCluster() {
		return engine.MarkerAppearance{Count: node.Count}
	}
	leaf := node.Leaf
	return engine.MarkerAppearance{
		Icon:    m.iconFor(leaf.CategorySlug),
		Premium: leaf.Premium,
		Count:   1,
	}
}

// iconFor resolves a category slug to its icon, with a fixed fallback for
// unknown slugs.
func (m *Manager) iconFor(slug string) string {
	if icon, ok := m.icons[slug]; ok && icon != "" {
		return icon
	}
	return m.fallbackIcon
}

// popupFor composes the popup content for a pass-through node.
func (m *Manager) popupFor(node cluster.Node) engine.Popup {
	leaf := node.Leaf

	var lines []string
	if leaf.Premium {
		lines = append(lines, m.labels.PremiumBadge)
	}
	if leaf.Address != "" {
		lines = append(lines, leaf.Address)
	}
	if leaf.Rating > 0 {
		lines = append(lines, fmt.Sprintf("%s ★ (%d %s)",
			strconv.FormatFloat(leaf.Rating, 'f', 1, 64),
			leaf.ReviewCount,
			m.labels.Reviews))
	}

	return engine.Popup{
		Title:     leaf.Name,
		Lines:     lines,
		LinkHref:  model.DetailPath(m.locale, m.countrySlug, *leaf),
		LinkLabel: m.labels.ViewDetails,
	}
}
