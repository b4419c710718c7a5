// Package view orchestrates the interactive map directory: filtering,
// clustering, marker lifecycle, selection, geolocation, and the fallback
// state, over one exclusively-owned engine instance.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/adapters/geoloc"
	"github.com/placora/geoview/internal/adapters/markers"
	"github.com/placora/geoview/internal/domain/cluster"
	"github.com/placora/geoview/internal/domain/filter"
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/internal/domain/selection"
	"github.com/placora/geoview/pkg/logger"
	"github.com/placora/geoview/pkg/metrics"
)

// Default camera and interaction constants.
const (
	defaultInitialZoom   = 7
	defaultDetailZoom    = 14
	defaultGeolocateZoom = 12
	fitBoundsPaddingPx   = 40
)

// View is one mounted map directory instance. All mutable state is guarded
// by mu; the host drives it from its event loop (or, in the harness, from
// serialized HTTP handlers).
type View struct {
	mu sync.Mutex

	log        logger.Logger
	factory    engine.Factory
	engineCfg  engine.Config
	dataset    *model.Dataset
	categories []model.Category

	filters    *filter.State
	clusterIdx *cluster.Index
	sel        *selection.Controller
	vp         *engine.Viewport
	mgr        *markers.Manager
	geo        *geoloc.Adapter
	provider   geoloc.PositionProvider

	translations  Translations
	locale        string
	countrySlug   string
	detailZoom    float64
	geolocateZoom float64

	initialCenter    *model.Coordinate
	initialZoom      *float64
	onCategoryChange func(slug string)
	seedQuery        string
	seedCategory     string

	mounted     bool
	unmounted   bool
	fallback    bool
	highlighted string

	lastWS    []model.Marker
	wsIndex   map[string]model.Marker
	lastNodes []cluster.Node
}

// Snapshot is the host-visible state of the view.
type Snapshot struct {
	Mounted        bool              `json:"mounted"`
	Fallback       bool              `json:"fallback"`
	FallbackText   string            `json:"fallback_text,omitempty"`
	EngineState    string            `json:"engine_state"`
	DatasetSize    int               `json:"dataset_size"`
	WorkingSetSize int               `json:"working_set_size"`
	Query          string            `json:"query"`
	Category       string            `json:"category"`
	SelectedID     string            `json:"selected_id,omitempty"`
	HighlightedID  string            `json:"highlighted_id,omitempty"`
	Camera         *cluster.Viewport `json:"camera,omitempty"`
	Nodes          []cluster.Node    `json:"nodes"`
	Categories     []model.Category  `json:"categories"`
}

// New assembles an unmounted view. The engine is not touched until Mount.
func New(factory engine.Factory, opts ...Option) *View {
	v := &View{
		log:           logger.Get().Named("view"),
		factory:       factory,
		dataset:       model.NewDataset(nil),
		translations:  DefaultTranslations(),
		locale:        "en",
		detailZoom:    defaultDetailZoom,
		geolocateZoom: defaultGeolocateZoom,
		clusterIdx:    cluster.New(),
		provider:      geoloc.StaticProvider{Err: geoloc.ErrUnavailable},
	}
	for _, opt := range opts {
		opt(v)
	}

	v.filters = filter.New(v.dataset,
		filter.WithQuery(v.seedQuery),
		filter.WithCategory(v.seedCategory),
	)
	v.sel = selection.New(v.detailZoom, &viewEffects{v: v}, func(id string) (model.Marker, bool) {
		m, ok := v.wsIndex[id]
		return m, ok
	})
	v.rebuildWorkingSetLocked()
	return v
}

// Mount binds the view to a screen region: it validates the engine
// configuration, starts the asynchronous bootstrap, and returns
// immediately. A missing access token flips the view to fallback without
// error; the page stays up.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.unmounted {
		v.mu.Unlock()
		return ErrUnmounted
	}
	if v.mounted {
		v.mu.Unlock()
		return ErrAlreadyMounted
	}
	v.mounted = true
	metrics.UpdateDatasetSize(v.dataset.Len())

	if v.engineCfg.AccessToken == "" {
		v.fallback = true
		v.mu.Unlock()
		metrics.RecordFallbackShown()
		v.log.Warn(ctx, "engine configuration missing, showing fallback",
			logger.Int("markers", v.dataset.Len()))
		return nil
	}

	center, zoom := v.initialCameraLocked()
	v.vp = engine.NewViewport(v.factory, v.engineCfg,
		engine.WithLogger(v.log.Named("viewport")),
		engine.WithOnReady(func(engine.Engine) { v.engineReady(ctx) }),
		engine.WithOnError(func(err error) { v.engineFailed(ctx, err) }),
	)
	v.geo = geoloc.New(v.provider, v.vp,
		geoloc.WithZoom(v.geolocateZoom),
		geoloc.WithLogger(v.log.Named("geoloc")),
	)
	v.mu.Unlock()

	if err := v.vp.Initialize(ctx, center, zoom); err != nil {
		// The error hook has already flipped the fallback flag.
		return nil
	}
	return nil
}

// Unmount tears the view down: every marker element is removed and the
// engine destroyed exactly once. Idempotent.
func (v *View) Unmount() {
	v.mu.Lock()
	if !v.mounted || v.unmounted {
		v.mu.Unlock()
		return
	}
	v.unmounted = true
	if v.mgr != nil {
		v.mgr.Teardown()
		v.mgr = nil
	}
	vp := v.vp
	v.mu.Unlock()

	if vp != nil {
		vp.Destroy()
	}
}

// engineReady runs once the bootstrap attaches an engine: it builds the
// marker manager and runs the first reconciliation pass.
func (v *View) engineReady(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || v.unmounted {
		return
	}
	eng, ok := v.vp.Engine()
	if !ok {
		return
	}
	v.mgr = markers.New(eng,
		markers.WithLogger(v.log.Named("markers")),
		markers.WithCategories(v.categories),
		markers.WithLocale(v.locale),
		markers.WithCountrySlug(v.countrySlug),
		markers.WithLabels(markers.Labels{
			Reviews:      v.translations.Get(KeyReviews),
			PremiumBadge: v.translations.Get(KeyPremiumBadge),
			ViewDetails:  v.translations.Get(KeyViewDetails),
		}),
		markers.WithOnSelect(func(id string) { v.SelectFromMap(ctx, id) }),
		markers.WithOnExpand(func(id string) { _ = v.ClusterClick(ctx, id) }),
	)
	v.refreshLocked(ctx)
}

// engineFailed converts any bootstrap failure into the fallback state; the
// error never propagates to the host page.
func (v *View) engineFailed(ctx context.Context, err error) {
	v.mu.Lock()
	if v.fallback {
		v.mu.Unlock()
		return
	}
	v.fallback = true
	v.mu.Unlock()

	metrics.RecordFallbackShown()
	v.log.Warn(ctx, "engine failed, showing fallback", logger.Error(err))
}

// SetQuery updates the free-text filter and reconciles.
func (v *View) SetQuery(ctx context.Context, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters.SetQuery(text)
	v.refreshLocked(ctx)
}

// SetCategory updates the category filter, reconciles, and notifies the
// host's URL owner.
func (v *View) SetCategory(ctx context.Context, slug string) {
	v.mu.Lock()
	v.filters.SetCategory(slug)
	v.refreshLocked(ctx)
	cb := v.onCategoryChange
	v.mu.Unlock()

	if cb != nil {
		cb(slug)
	}
}

// SelectFromList activates a marker picked in the list pane. The fly-to
// changes the camera, so the cluster pass reruns before the popup opens:
// a marker absorbed into a cluster only gets its own element at detail
// zoom.
func (v *View) SelectFromList(ctx context.Context, id string) bool {
	v.mu.Lock()
	ok := v.sel.SelectFromList(id)
	if ok {
		v.refreshLocked(ctx)
		if v.mgr != nil {
			v.mgr.OpenPopup(id)
		}
	}
	v.mu.Unlock()

	if ok {
		metrics.RecordSelection(selection.OriginList)
		v.log.Debug(ctx, "selected from list", logger.String("marker", id))
	} else {
		metrics.RecordStaleSelect()
	}
	return ok
}

// SelectFromMap activates a marker clicked on the map.
func (v *View) SelectFromMap(ctx context.Context, id string) bool {
	v.mu.Lock()
	ok := v.sel.SelectFromMap(id)
	v.mu.Unlock()

	if ok {
		metrics.RecordSelection(selection.OriginMap)
		v.log.Debug(ctx, "selected from map", logger.String("marker", id))
	} else {
		metrics.RecordStaleSelect()
	}
	return ok
}

// ClearSelection returns the selection to Idle.
func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel.Clear()
	v.highlighted = ""
}

// ClusterClick resolves the minimum zoom at which the cluster splits and
// eases the camera there.
func (v *View) ClusterClick(ctx context.Context, nodeID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted || v.unmounted {
		return ErrNotMounted
	}

	var node *cluster.Node
	for i := range v.lastNodes {
		if v.lastNodes[i].ID == nodeID {
			node = &v.lastNodes[i]
			break
		}
	}
	if node == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	if !node.IsCluster() {
		return nil
	}

	zoom := v.clusterIdx.ExpansionZoom(*node, v.lastWS)
	v.vp.EaseTo(node.Centroid, zoom)
	v.refreshLocked(ctx)
	return nil
}

// Locate requests the user's position and recenters. Failures are logged
// and swallowed; the map stays exactly as it was.
func (v *View) Locate(ctx context.Context) {
	v.mu.Lock()
	adapter := v.geo
	v.mu.Unlock()
	if adapter == nil {
		return
	}

	if err := adapter.Locate(ctx); err != nil {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted && !v.unmounted {
		v.refreshLocked(ctx)
	}
}

// SetViewport applies a host-driven pan/zoom and reconciles.
func (v *View) SetViewport(ctx context.Context, center model.Coordinate, zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vp != nil {
		v.vp.SetCamera(center, zoom)
	}
	v.refreshLocked(ctx)
}

// ZoomIn bumps the zoom one step and reconciles.
func (v *View) ZoomIn(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vp != nil {
		v.vp.ZoomIn()
	}
	v.refreshLocked(ctx)
}

// ZoomOut drops the zoom one step and reconciles.
func (v *View) ZoomOut(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vp != nil {
		v.vp.ZoomOut()
	}
	v.refreshLocked(ctx)
}

// FitToResults frames the current working set.
func (v *View) FitToResults(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vp != nil {
		v.vp.FitBounds(model.BoundsOf(v.lastWS), fitBoundsPaddingPx, v.clusterIdx.MaxZoom())
	}
	v.refreshLocked(ctx)
}

// ReplaceDataset swaps in a fresh snapshot wholesale, keeping the active
// filters where they still apply.
func (v *View) ReplaceDataset(ctx context.Context, dataset *model.Dataset) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dataset = dataset
	v.filters.Replace(dataset)
	metrics.UpdateDatasetSize(dataset.Len())
	v.refreshLocked(ctx)
}

// Results returns the current working set in dataset order, for the list
// pane.
func (v *View) Results() []model.Marker {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Marker, len(v.lastWS))
	copy(out, v.lastWS)
	return out
}

// Snapshot returns the host-visible state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		Mounted:        v.mounted && !v.unmounted,
		Fallback:       v.fallback,
		DatasetSize:    v.dataset.Len(),
		WorkingSetSize: len(v.lastWS),
		Query:          v.filters.Query(),
		Category:       v.filters.Category(),
		SelectedID:     v.sel.ActiveID(),
		HighlightedID:  v.highlighted,
		Nodes:          v.lastNodes,
		Categories:     v.categories,
		EngineState:    engine.StateUninitialized.String(),
	}
	if v.fallback {
		snap.FallbackText = RenderFallback(v.dataset.Len(), v.translations)
		snap.EngineState = engine.StateFailed.String()
	}
	if v.vp != nil {
		snap.EngineState = v.vp.State().String()
		if center, zoom, ok := v.vp.Camera(); ok {
			snap.Camera = &cluster.Viewport{Center: center, Zoom: zoom}
		}
	}
	return snap
}

// refreshLocked runs one full pass: working set, selection revalidation,
// cluster recomputation, element reconciliation. Callers hold mu.
func (v *View) refreshLocked(ctx context.Context) {
	v.rebuildWorkingSetLocked()
	metrics.UpdateWorkingSetSize(len(v.lastWS))

	if v.sel.Revalidate() {
		v.highlighted = ""
		v.log.Debug(ctx, "selection cleared by filter change")
	}

	camera := cluster.Viewport{Center: v.dataset.Center(), Zoom: v.initialZoomOrDefault()}
	if v.vp != nil {
		if center, zoom, ok := v.vp.Camera(); ok {
			camera = cluster.Viewport{Center: center, Zoom: zoom}
		}
	}

	start := time.Now()
	v.lastNodes = v.clusterIdx.Recompute(v.lastWS, camera)
	metrics.RecordClusterRecompute(float64(time.Since(start).Nanoseconds())/1e6, len(v.lastNodes))

	if v.mgr != nil {
		if _, err := v.mgr.Reconcile(ctx, v.lastNodes); err != nil {
			v.log.Error(ctx, "marker reconciliation failed", logger.Error(err))
		}
	}
}

func (v *View) rebuildWorkingSetLocked() {
	v.lastWS = v.filters.WorkingSet()
	v.wsIndex = make(map[string]model.Marker, len(v.lastWS))
	for _, m := range v.lastWS {
		v.wsIndex[m.ID] = m
	}
}

// initialCameraLocked resolves the starting camera: explicit host values,
// else the dataset mean, else the fixed default.
func (v *View) initialCameraLocked() (model.Coordinate, float64) {
	center := v.dataset.Center()
	if v.initialCenter != nil {
		center = *v.initialCenter
	}
	return center, v.initialZoomOrDefault()
}

func (v *View) initialZoomOrDefault() float64 {
	if v.initialZoom != nil {
		return *v.initialZoom
	}
	return defaultInitialZoom
}

// viewEffects adapts the selection controller's effects to the panes. The
// controller runs under the view lock, so these touch locked state freely.
type viewEffects struct {
	v *View
}

func (e *viewEffects) FlyTo(c model.Coordinate, zoom float64) {
	if e.v.vp != nil {
		e.v.vp.FlyTo(c, zoom)
	}
}

func (e *viewEffects) OpenPopup(id string) {
	if e.v.mgr != nil {
		e.v.mgr.OpenPopup(id)
	}
}

func (e *viewEffects) CloseOtherPopups(id string) {
	if e.v.mgr != nil {
		e.v.mgr.CloseOtherPopups(id)
	}
}

func (e *viewEffects) HighlightRow(id string) {
	e.v.highlighted = id
}
