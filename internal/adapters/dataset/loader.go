// Package dataset loads marker snapshots from JSON files produced by the
// seeding pipeline.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/pkg/logger"
)

// Camera is an optional starting camera carried by a snapshot.
type Camera struct {
	Center model.Coordinate `json:"center"`
	Zoom   float64          `json:"zoom"`
}

// Snapshot is one decoded dataset file.
type Snapshot struct {
	Markers    []model.Marker   `json:"markers"`
	Categories []model.Category `json:"categories"`
	Camera     *Camera          `json:"camera,omitempty"`
}

// Load reads and decodes a snapshot file. Category counts absent from the
// file are derived from the markers, and duplicate marker ids are dropped
// keeping the first occurrence.
func Load(ctx context.Context, path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSnapshot, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeSnapshot, err)
	}

	log := logger.Get().Named("dataset")
	seen := make(map[string]struct{}, len(snap.Markers))
	deduped := snap.Markers[:0]
	dropped := 0
	for _, m := range snap.Markers {
		if m.ID == "" {
			dropped++
			continue
		}
		if _, dup := seen[m.ID]; dup {
			dropped++
			continue
		}
		seen[m.ID] = struct{}{}
		deduped = append(deduped, m)
	}
	snap.Markers = deduped
	if dropped > 0 {
		log.Warn(ctx, "dropped snapshot markers",
			logger.String("path", path),
			logger.Int("dropped", dropped))
	}

	fillCategoryCounts(&snap)

	log.Info(ctx, "snapshot loaded",
		logger.String("path", path),
		logger.Int("markers", len(snap.Markers)),
		logger.Int("categories", len(snap.Categories)))
	return &snap, nil
}

// fillCategoryCounts derives chip counts from the markers for categories
// the file left at zero.
func fillCategoryCounts(snap *Snapshot) {
	counts := make(map[string]int, len(snap.Categories))
	for _, m := range snap.Markers {
		if m.CategorySlug != "" {
			counts[m.CategorySlug]++
		}
	}
	for i := range snap.Categories {
		if snap.Categories[i].Count == 0 {
			snap.Categories[i].Count = counts[snap.Categories[i].Slug]
		}
	}
}
