// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s2"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LatLng converts the coordinate to an s2 point for geometry operations.
func (c Coordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lng)
}

// City identifies the city a marker belongs to.
type City struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Marker is one point-of-interest record. Instances are owned by the
// external data producer and treated as read-only snapshots by the core.
type Marker struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Coordinate   Coordinate `json:"coordinate"`
	Address      string     `json:"address,omitempty"`
	Premium      bool       `json:"premium"`
	Rating       float64    `json:"rating,omitempty"` // 0 means unrated
	ReviewCount  int        `json:"review_count"`
	CategorySlug string     `json:"category_slug,omitempty"`
	City         City       `json:"city"`
}

// Category describes one filter chip.
type Category struct {
	Slug  string `json:"slug"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DefaultCenter seeds the camera when the dataset is empty and the host
// supplied no explicit center.
var DefaultCenter = Coordinate{Lat: 52.3676, Lng: 4.9041}

// Dataset is an immutable snapshot of the full marker set for one data load.
type Dataset struct {
	markers   []Marker
	placeable []Marker
	byID      map[string]Marker
}

// NewDataset builds a snapshot. Markers with invalid coordinates are kept in
// the full set (they still count toward totals) but excluded from placement.
func NewDataset(markers []Marker) *Dataset {
	d := &Dataset{
		markers: markers,
		byID:    make(map[string]Marker, len(markers)),
	}
	for _, m := range markers {
		d.byID[m.ID] = m
		if m.Coordinate.Valid() {
			d.placeable = append(d.placeable, m)
		}
	}
	return d
}

// Markers returns the full snapshot, invalid coordinates included.
func (d *Dataset) Markers() []Marker {
	return d.markers
}

// Placeable returns the markers eligible for clustering and placement.
func (d *Dataset) Placeable() []Marker {
	return d.placeable
}

// Len reports the size of the full snapshot.
func (d *Dataset) Len() int {
	return len(d.markers)
}

// ByID looks a marker up by its stable identifier.
func (d *Dataset) ByID(id string) (Marker, bool) {
	m, ok := d.byID[id]
	return m, ok
}

// Center is the arithmetic mean of placeable coordinates, or DefaultCenter
// for an empty dataset.
func (d *Dataset) Center() Coordinate {
	if len(d.placeable) == 0 {
		return DefaultCenter
	}
	var sumLat, sumLng float64
	for _, m := range d.placeable {
		sumLat += m.Coordinate.Lat
		sumLng += m.Coordinate.Lng
	}
	n := float64(len(d.placeable))
	return Coordinate{Lat: sumLat / n, Lng: sumLng / n}
}

// Bounds returns the lat/lng rectangle covering the placeable markers.
func (d *Dataset) Bounds() s2.Rect {
	rect := s2.EmptyRect()
	for _, m := range d.placeable {
		rect = rect.AddPoint(m.Coordinate.LatLng())
	}
	return rect
}

// BoundsOf returns the lat/lng rectangle covering the given markers.
func BoundsOf(markers []Marker) s2.Rect {
	rect := s2.EmptyRect()
	for _, m := range markers {
		if m.Coordinate.Valid() {
			rect = rect.AddPoint(m.Coordinate.LatLng())
		}
	}
	return rect
}

// uncategorizedSegment fills the category slot of detail paths for markers
// without a category reference.
const uncategorizedSegment = "uncategorized"

// DetailPath builds the navigation target for a marker's popup link:
// /{locale}/{countrySlug}/{citySlug}/{categorySlug}/{slug}.
func DetailPath(locale, countrySlug string, m Marker) string {
	category := m.CategorySlug
	if strings.TrimSpace(category) == "" {
		category = uncategorizedSegment
	}
	return fmt.Sprintf("/%s/%s/%s/%s/%s", locale, countrySlug, m.City.Slug, category, m.Slug)
}
