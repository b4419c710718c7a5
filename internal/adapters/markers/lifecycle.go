// Package markers reconciles on-screen marker elements against cluster
// nodes.
//
// The reconciler keeps one element per node ID and applies an explicit
// created/updated/removed diff on every pass, so the no-leak invariant
// (every created element removed exactly once) is testable against a fake
// engine without rendering anything.
package markers

import (
	"context"
	"fmt"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/domain/cluster"
	"github.com/placora/geoview/pkg/logger"
	"github.com/placora/geoview/pkg/metrics"
)

// Manager owns the marker elements attached to one engine instance.
type Manager struct {
	eng      engine.Engine
	log      logger.Logger
	elements map[string]*element

	icons        map[string]string
	fallbackIcon string
	locale       string
	countrySlug  string
	labels       Labels

	onSelect func(markerID string)
	onExpand func(nodeID string)
}

// element pairs an engine handle with the node it currently renders.
type element struct {
	handle engine.MarkerHandle
	node   cluster.Node
}

// Labels are the translated strings interpolated into popup content.
type Labels struct {
	Reviews      string // e.g. "reviews"
	PremiumBadge string // e.g. "Premium"
	ViewDetails  string // popup link label
}

// Diff is the explicit outcome of one reconciliation pass.
type Diff struct {
	Created []string
	Updated []string
	Removed []string
}

// New creates a Manager bound to a ready engine.
func New(eng engine.Engine, opts ...Option) *Manager {
	m := &Manager{
		eng:          eng,
		log:          logger.Get().Named("markers"),
		elements:     make(map[string]*element),
		icons:        make(map[string]string),
		fallbackIcon: "📍",
		locale:       "en",
		labels: Labels{
			Reviews:      "reviews",
			PremiumBadge: "Premium",
			ViewDetails:  "View details",
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reconcile brings the element set in line with the node list. Elements for
// vanished nodes are removed, new nodes get fresh elements, and surviving
// nodes are updated in place when their centroid or count changed.
func (m *Manager) Reconcile(ctx context.Context, nodes []cluster.Node) (Diff, error) {
	var diff Diff
	seen := make(map[string]bool, len(nodes))

	for _, node := range nodes {
		seen[node.ID] = true

		if el, ok := m.elements[node.ID]; ok {
			if nodeChanged(el.node, node) {
				el.handle.SetPosition(node.Centroid)
				el.handle.SetAppearance(m.appearanceFor(node))
				if node.Leaf != nil {
					el.handle.BindPopup(m.popupFor(node))
				}
				diff.Updated = append(diff.Updated, node.ID)
			}
			el.node = node
			continue
		}

		handle, err := m.eng.AddMarker(node.Centroid, m.appearanceFor(node))
		if err != nil {
			return diff, fmt.Errorf("create marker element: %w", err)
		}
		if node.Leaf != nil {
			handle.BindPopup(m.popupFor(node))
		}
		m.bindClick(handle, node)
		m.elements[node.ID] = &element{handle: handle, node: node}
		diff.Created = append(diff.Created, node.ID)
	}

	for id, el := range m.elements {
		if seen[id] {
			continue
		}
		el.handle.Remove()
		delete(m.elements, id)
		diff.Removed = append(diff.Removed, id)
	}

	metrics.RecordReconcilePass(len(diff.Created), len(diff.Updated), len(diff.Removed), len(m.elements))
	m.log.Debug(ctx, "reconciled marker elements",
		logger.Int("created", len(diff.Created)),
		logger.Int("updated", len(diff.Updated)),
		logger.Int("removed", len(diff.Removed)),
		logger.Int("live", len(m.elements)))
	return diff, nil
}

// bindClick wires the element's click to selection or cluster expansion.
func (m *Manager) bindClick(handle engine.MarkerHandle, node cluster.Node) {
	id := node.ID
	if node.IsCluster() {
		handle.OnClick(func() {
			if m.onExpand != nil {
				m.onExpand(id)
			}
		})
		return
	}
	handle.OnClick(func() {
		if m.onSelect != nil {
			m.onSelect(id)
		}
	})
}

// OpenPopup opens the popup of the element rendering the given marker. A
// marker currently absorbed into a cluster has no element of its own; that
// is a no-op.
func (m *Manager) OpenPopup(markerID string) {
	if el, ok := m.elements[markerID]; ok && el.node.Leaf != nil {
		el.handle.OpenPopup()
	}
}

// CloseOtherPopups closes every popup except the given marker's. Pass "" to
// close all.
func (m *Manager) CloseOtherPopups(exceptID string) {
	for id, el := range m.elements {
		if id != exceptID {
			el.handle.ClosePopup()
		}
	}
}

// Live reports the number of elements currently attached.
func (m *Manager) Live() int {
	return len(m.elements)
}

// Teardown removes every remaining element. It returns how many were
// removed and is safe to call repeatedly.
func (m *Manager) Teardown() int {
	n := 0
	for id, el := range m.elements {
		el.handle.Remove()
		delete(m.elements, id)
		n++
	}
	if n > 0 {
		metrics.RecordReconcilePass(0, 0, n, 0)
	}
	return n
}

// nodeChanged reports whether the element needs a visual update.
func nodeChanged(prev, curr cluster.Node) bool {
	if prev.Centroid != curr.Centroid || prev.Count != curr.Count {
		return true
	}
	// Same ID and count but a replaced dataset may carry new leaf content.
	if prev.Leaf != nil && curr.Leaf != nil && *prev.Leaf != *curr.Leaf {
		return true
	}
	return false
}
