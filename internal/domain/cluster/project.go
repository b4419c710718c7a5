package cluster

import (
	"math"

	"github.com/placora/geoview/internal/domain/model"
)

// tileExtent is the pixel size of one world tile at zoom 0.
const tileExtent = 256

// point is a position in world pixel space at some zoom.
type point struct {
	x, y float64
}

// project converts a coordinate to web-mercator world pixels at a zoom
// level, so a pixel radius can be compared directly against screen distance.
func project(c model.Coordinate, zoom float64) point {
	sin := math.Sin(c.Lat * math.Pi / 180)
	x := (c.Lng + 180) / 360
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi

	scale := tileExtent * math.Pow(2, zoom)
	return point{x: x * scale, y: y * scale}
}
