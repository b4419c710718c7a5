// Package cluster aggregates markers into screen-space clusters.
//
// Recomputation is pure: the index holds tuning options only, never results.
// Callers recompute on every working-set or viewport change and discard the
// node list afterwards.
package cluster

import (
	"sort"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"

	"github.com/placora/geoview/internal/domain/model"
)

// Default clustering configuration constants.
const (
	defaultRadiusPx = 50 // screen-space grouping threshold
	defaultMaxZoom  = 14 // at and beyond this zoom every marker stands alone
)

// Viewport is the camera state a recomputation projects against.
type Viewport struct {
	Center model.Coordinate `json:"center"`
	Zoom   float64          `json:"zoom"`
}

// Node is either a single marker (pass-through) or an aggregate. Nodes are
// ephemeral: identity is only meaningful until the next recomputation,
// though identical membership yields the same ID across passes.
type Node struct {
	ID        string           `json:"id"`
	Centroid  model.Coordinate `json:"centroid"`
	Count     int              `json:"count"`
	MemberIDs []string         `json:"member_ids"`
	Leaf      *model.Marker    `json:"leaf,omitempty"` // set for pass-through nodes
}

// IsCluster reports whether the node aggregates more than one marker.
func (n Node) IsCluster() bool {
	return n.Count > 1
}

// Index computes cluster nodes for a working set at a viewport.
type Index struct {
	radiusPx float64
	maxZoom  float64
}

// New creates an Index with the given options.
func New(opts ...Option) *Index {
	ix := &Index{
		radiusPx: defaultRadiusPx,
		maxZoom:  defaultMaxZoom,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// MaxZoom returns the zoom at and beyond which no clustering occurs.
func (ix *Index) MaxZoom() float64 {
	return ix.maxZoom
}

// Recompute produces the node list for the working set at the viewport's
// zoom. Grouping is greedy in input order, so a fixed input order yields a
// fixed grouping. The member counts of the returned nodes always sum to
// len(workingSet).
func (ix *Index) Recompute(workingSet []model.Marker, vp Viewport) []Node {
	if vp.Zoom >= ix.maxZoom {
		nodes := make([]Node, 0, len(workingSet))
		for i := range workingSet {
			nodes = append(nodes, leafNode(&workingSet[i]))
		}
		return nodes
	}

	projected := make([]point, len(workingSet))
	for i, m := range workingSet {
		projected[i] = project(m.Coordinate, vp.Zoom)
	}

	nodes := make([]Node, 0, len(workingSet))
	assigned := make([]bool, len(workingSet))
	r2 := ix.radiusPx * ix.radiusPx

	for i := range workingSet {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		members := []int{i}

		for j := i + 1; j < len(workingSet); j++ {
			if assigned[j] {
				continue
			}
			dx := projected[j].x - projected[i].x
			dy := projected[j].y - projected[i].y
			if dx*dx+dy*dy <= r2 {
				assigned[j] = true
				members = append(members, j)
			}
		}

		if len(members) == 1 {
			nodes = append(nodes, leafNode(&workingSet[i]))
			continue
		}
		nodes = append(nodes, aggregateNode(workingSet, members))
	}

	return nodes
}

// ExpansionZoom returns the minimum zoom at which the node's members would
// no longer merge into one cluster, capped at the index max zoom (where
// clustering is off regardless).
func (ix *Index) ExpansionZoom(n Node, workingSet []model.Marker) float64 {
	if !n.IsCluster() {
		return ix.maxZoom
	}

	members := make([]model.Marker, 0, len(n.MemberIDs))
	want := make(map[string]bool, len(n.MemberIDs))
	for _, id := range n.MemberIDs {
		want[id] = true
	}
	for _, m := range workingSet {
		if want[m.ID] {
			members = append(members, m)
		}
	}
	if len(members) < 2 {
		return ix.maxZoom
	}

	r2 := ix.radiusPx * ix.radiusPx
	for z := 0.0; z < ix.maxZoom; z++ {
		if !anyPairWithin(members, z, r2) {
			return z
		}
	}
	return ix.maxZoom
}

// Within filters nodes to those whose centroid falls inside the rectangle.
func Within(nodes []Node, rect s2.Rect) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if rect.ContainsLatLng(n.Centroid.LatLng()) {
			out = append(out, n)
		}
	}
	return out
}

func anyPairWithin(members []model.Marker, zoom, r2 float64) bool {
	pts := make([]point, len(members))
	for i, m := range members {
		pts[i] = project(m.Coordinate, zoom)
	}
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			dx := pts[j].x - pts[i].x
			dy := pts[j].y - pts[i].y
			if dx*dx+dy*dy <= r2 {
				return true
			}
		}
	}
	return false
}

func leafNode(m *model.Marker) Node {
	return Node{
		ID:        m.ID,
		Centroid:  m.Coordinate,
		Count:     1,
		MemberIDs: []string{m.ID},
		Leaf:      m,
	}
}

func aggregateNode(workingSet []model.Marker, members []int) Node {
	ids := make([]string, 0, len(members))
	var sumLat, sumLng float64
	for _, idx := range members {
		m := workingSet[idx]
		ids = append(ids, m.ID)
		sumLat += m.Coordinate.Lat
		sumLng += m.Coordinate.Lng
	}
	n := float64(len(members))

	return Node{
		ID:        clusterID(ids),
		Centroid:  model.Coordinate{Lat: sumLat / n, Lng: sumLng / n},
		Count:     len(members),
		MemberIDs: ids,
	}
}

// clusterID derives a synthetic identifier from the sorted member IDs, so a
// cluster with unchanged membership keeps its identity across passes and the
// element reconciler can update it in place instead of rebuilding.
func clusterID(memberIDs []string) string {
	sorted := make([]string, len(memberIDs))
	copy(sorted, memberIDs)
	sort.Strings(sorted)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("cluster:"+strings.Join(sorted, ","))).String()
}
