package engine

import (
	"math"

	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// ViewportState is the viewport capability consumed by the transformer:
// zoom level, the world offset shown at the canvas top-left, the canvas
// element's rect in screen coordinates, and the world rect of the board
// content area.
type ViewportState interface {
	Zoom() float64
	Offset() geom.Point
	CanvasRect() geom.Rect
	ContentBounds() geom.Rect
}

// Transformer converts points between screen, canvas, and world space for
// one viewport, and between world and element-local space for any element.
type Transformer struct {
	viewport ViewportState
}

// NewTransformer returns a transformer bound to the given viewport state.
func NewTransformer(vp ViewportState) *Transformer {
	return &Transformer{viewport: vp}
}

// ScreenToCanvas shifts a screen point into canvas-relative pixels.
func (t *Transformer) ScreenToCanvas(p geom.Point) geom.Point {
	r := t.viewport.CanvasRect()
	return geom.Pt(p.X-r.X, p.Y-r.Y)
}

// CanvasToWorld unzooms a canvas point and adds the viewport offset.
func (t *Transformer) CanvasToWorld(p geom.Point) geom.Point {
	zoom := t.viewport.Zoom()
	if zoom <= 0 {
		zoom = 1
	}
	off := t.viewport.Offset()
	return geom.Pt(p.X/zoom+off.X, p.Y/zoom+off.Y)
}

// WorldToCanvas is the inverse of CanvasToWorld.
func (t *Transformer) WorldToCanvas(p geom.Point) geom.Point {
	off := t.viewport.Offset()
	zoom := t.viewport.Zoom()
	return geom.Pt((p.X-off.X)*zoom, (p.Y-off.Y)*zoom)
}

// ScreenToWorld composes ScreenToCanvas and CanvasToWorld.
func (t *Transformer) ScreenToWorld(p geom.Point) geom.Point {
	return t.CanvasToWorld(t.ScreenToCanvas(p))
}

// pivotWorld returns the element's pivot point in world coordinates.
func pivotWorld(el Element) geom.Point {
	pos := el.Position()
	w, h := el.Size()
	px, py := el.Pivot()
	return geom.Pt(pos.X+px*w, pos.Y+py*h)
}

// LocalToWorld maps a point in the element's local frame (origin at its
// unrotated top-left) into world space: translate to the pivot, scale,
// rotate, translate back.
func LocalToWorld(el Element, local geom.Point) geom.Point {
	pos := el.Position()
	pivot := pivotWorld(el)
	sx, sy := el.Scale()
	rad := el.Rotation() * math.Pi / 180

	v := geom.Pt(pos.X+local.X-pivot.X, pos.Y+local.Y-pivot.Y)
	v = geom.Pt(v.X*sx, v.Y*sy)
	sin, cos := math.Sincos(rad)
	v = geom.Pt(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos)
	return geom.Pt(pivot.X+v.X, pivot.Y+v.Y)
}

// WorldToLocal is the inverse of LocalToWorld. Zero or near-zero scale is
// undefined for the inverse direction; callers must guard with
// HasInvertibleScale before relying on the result.
func WorldToLocal(el Element, world geom.Point) geom.Point {
	pos := el.Position()
	pivot := pivotWorld(el)
	sx, sy := el.Scale()
	rad := -el.Rotation() * math.Pi / 180

	v := geom.Pt(world.X-pivot.X, world.Y-pivot.Y)
	sin, cos := math.Sincos(rad)
	v = geom.Pt(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos)
	if sx != 0 {
		v.X /= sx
	}
	if sy != 0 {
		v.Y /= sy
	}
	return geom.Pt(pivot.X+v.X-pos.X, pivot.Y+v.Y-pos.Y)
}

// HasInvertibleScale reports whether the element's scale is far enough from
// zero for WorldToLocal to be meaningful.
func HasInvertibleScale(el Element) bool {
	sx, sy := el.Scale()
	const eps = 1e-9
	return math.Abs(sx) > eps && math.Abs(sy) > eps
}
