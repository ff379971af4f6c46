package engine

import (
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// Viewport computes what part of the world is on screen. It is used to
// cull snap-candidate scans, not for render culling.
type Viewport struct {
	state ViewportState
	tr    *Transformer
	geo   *Geometry
}

// NewViewport returns a viewport manager over the given state.
func NewViewport(vp ViewportState, geo *Geometry) *Viewport {
	return &Viewport{state: vp, tr: NewTransformer(vp), geo: geo}
}

// VisibleWorldBounds inverse-transforms the canvas corners into world
// space and returns their envelope.
func (v *Viewport) VisibleWorldBounds() geom.Rect {
	r := v.state.CanvasRect()
	corners := []geom.Point{
		v.tr.CanvasToWorld(geom.Pt(0, 0)),
		v.tr.CanvasToWorld(geom.Pt(r.Width, 0)),
		v.tr.CanvasToWorld(geom.Pt(r.Width, r.Height)),
		v.tr.CanvasToWorld(geom.Pt(0, r.Height)),
	}
	return geom.BoundsOf(corners)
}

// IsElementVisible reports whether the element's world bounds intersect
// the visible world bounds.
func (v *Viewport) IsElementVisible(el Element) bool {
	return v.geo.ElementBoundsWorld(el).Intersects(v.VisibleWorldBounds())
}
