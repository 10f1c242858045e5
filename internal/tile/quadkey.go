// Package tile addresses map tiles by quadtree key.
package tile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"

	"github.com/Faultbox/terramesh/pkg/geometry"
)

// MaxLevelOfDetail is the deepest supported quadtree level.
const MaxLevelOfDetail = 30

// ErrInvalidQuadKey is returned for malformed quadkey strings or coordinates.
var ErrInvalidQuadKey = errors.New("invalid quadkey")

// QuadKey identifies a tile by level of detail and tile column/row.
type QuadKey struct {
	LevelOfDetail int
	TileX         int
	TileY         int
}

// ParseQuadKey parses a Bing-style quadkey string ("120210...") where each
// digit selects one quadrant per level. The digits are the base-4 form of
// maptile's packed quadkey.
func ParseQuadKey(s string) (QuadKey, error) {
	lod := len(s)
	if lod == 0 || lod > MaxLevelOfDetail {
		return QuadKey{}, fmt.Errorf("%w: %q has %d levels", ErrInvalidQuadKey, s, lod)
	}
	k, err := strconv.ParseUint(s, 4, 64)
	if err != nil {
		return QuadKey{}, fmt.Errorf("%w: %q is not base 4", ErrInvalidQuadKey, s)
	}
	return FromTile(maptile.FromQuadkey(k, maptile.Zoom(lod))), nil
}

// FromTile converts a maptile to a QuadKey.
func FromTile(t maptile.Tile) QuadKey {
	return QuadKey{LevelOfDetail: int(t.Z), TileX: int(t.X), TileY: int(t.Y)}
}

// String returns the Bing-style quadkey.
func (q QuadKey) String() string {
	if q.LevelOfDetail <= 0 {
		return ""
	}
	s := strconv.FormatUint(q.Tile().Quadkey(), 4)
	if pad := q.LevelOfDetail - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}

// Validate checks that the tile coordinates fit the level of detail.
func (q QuadKey) Validate() error {
	if q.LevelOfDetail < 1 || q.LevelOfDetail > MaxLevelOfDetail {
		return fmt.Errorf("%w: level of detail %d", ErrInvalidQuadKey, q.LevelOfDetail)
	}
	if q.TileX < 0 || q.TileY < 0 || !q.Tile().Valid() {
		return fmt.Errorf("%w: tile %d/%d outside level %d", ErrInvalidQuadKey, q.TileX, q.TileY, q.LevelOfDetail)
	}
	return nil
}

// Tile returns the equivalent maptile.
func (q QuadKey) Tile() maptile.Tile {
	return maptile.New(uint32(q.TileX), uint32(q.TileY), maptile.Zoom(q.LevelOfDetail))
}

// Bounds returns the tile rectangle in the (longitude, latitude) plane.
func (q QuadKey) Bounds() geometry.Rectangle {
	b := q.Tile().Bound()
	return geometry.NewRectangle(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}
