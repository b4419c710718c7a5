package cluster

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithRadius sets the screen-space grouping threshold in pixels.
func WithRadius(px float64) Option {
	return func(ix *Index) {
		if px > 0 {
			ix.radiusPx = px
		}
	}
}

// WithMaxZoom sets the zoom at and beyond which markers never merge.
func WithMaxZoom(zoom float64) Option {
	return func(ix *Index) {
		if zoom > 0 {
			ix.maxZoom = zoom
		}
	}
}
