package terrain

import (
	"math"

	"github.com/ctessum/geom"
	clipper "github.com/ctessum/go.clipper"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// arcTolerance is the largest gap between a round join or cap and the true
// arc, as a fraction of the half width.
const arcTolerance = 1e-3

// bufferPaths strokes every path to the given width with round joins and
// round ends. Paths are snapped with the same scale as the other clipping
// inputs; a single point becomes a disc.
func bufferPaths(paths [][]geometry.Point, width, scale float64) (res geom.Polygon) {
	delta := width / 2 * scale
	if delta <= 0 {
		return nil
	}

	co := clipper.NewClipperOffset()
	co.ArcTolerance = delta * arcTolerance
	added := 0
	for _, path := range paths {
		cp := make(clipper.Path, 0, len(path))
		for _, p := range path {
			ip := &clipper.IntPoint{
				X: clipper.CInt(math.Round(p.X * scale)),
				Y: clipper.CInt(math.Round(p.Y * scale)),
			}
			if len(cp) > 0 && *cp[len(cp)-1] == *ip {
				continue
			}
			cp = append(cp, ip)
		}
		if len(cp) == 0 {
			continue
		}
		co.AddPath(cp, clipper.JtRound, clipper.EtOpenRound)
		added++
	}
	if added == 0 {
		return nil
	}

	defer recoverOp("offset", nil, &res)
	for _, sp := range co.Execute(delta) {
		path := make(geom.Path, 0, len(sp))
		for _, p := range sp {
			path = append(path, geom.Point{X: float64(p.X), Y: float64(p.Y)})
		}
		if len(path) >= 3 {
			res = append(res, path)
		}
	}
	return res
}
