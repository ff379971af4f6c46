// Package engine implements the geometric services of the editor core:
// coordinate transforms between screen, canvas, world, and element-local
// space, bounds and hit testing, visibility culling, and group maintenance.
package engine

import (
	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// Element is the read-only geometric view of one shape. The geometry and
// interaction services depend on this capability set instead of the storage
// representation.
type Element interface {
	ID() string
	Kind() document.ShapeType
	Position() geom.Point
	Size() (w, h float64)
	Rotation() float64
	Scale() (sx, sy float64)
	Pivot() (px, py float64)
	// LocalPoints returns an explicit local-space vertex outline, or nil
	// when the shape's kind implies its outline.
	LocalPoints() []geom.Point
	Visible() bool
}

// shapeElement adapts an immutable Shape snapshot, e.g. the per-gesture
// geometry captured at pointer-down.
type shapeElement struct {
	s document.Shape
}

// ElementOf wraps a shape value as an Element snapshot.
func ElementOf(s document.Shape) Element {
	return shapeElement{s: s}
}

func (e shapeElement) ID() string                 { return e.s.ID }
func (e shapeElement) Kind() document.ShapeType   { return e.s.Type }
func (e shapeElement) Position() geom.Point       { return geom.Pt(e.s.Geometry.X, e.s.Geometry.Y) }
func (e shapeElement) Size() (float64, float64)   { return e.s.Geometry.Width, e.s.Geometry.Height }
func (e shapeElement) Rotation() float64          { return e.s.Geometry.Rotation }
func (e shapeElement) Scale() (float64, float64)  { return e.s.Geometry.ScaleX, e.s.Geometry.ScaleY }
func (e shapeElement) Pivot() (float64, float64)  { return e.s.Geometry.PivotX, e.s.Geometry.PivotY }
func (e shapeElement) LocalPoints() []geom.Point  { return e.s.LocalPoints }
func (e shapeElement) Visible() bool              { return e.s.Visible }

// storeElement reads through to the live store on every call, so it always
// reflects the current document state.
type storeElement struct {
	store document.Reader
	id    string
}

// LiveElement returns a store-backed Element, or false when the id is
// unknown.
func LiveElement(store document.Reader, id string) (Element, bool) {
	if _, ok := store.Get(id); !ok {
		return nil, false
	}
	return storeElement{store: store, id: id}, true
}

func (e storeElement) snapshot() document.Shape {
	s, _ := e.store.Get(e.id)
	return s
}

func (e storeElement) ID() string               { return e.id }
func (e storeElement) Kind() document.ShapeType { return e.snapshot().Type }
func (e storeElement) Position() geom.Point {
	g := e.snapshot().Geometry
	return geom.Pt(g.X, g.Y)
}
func (e storeElement) Size() (float64, float64) {
	g := e.snapshot().Geometry
	return g.Width, g.Height
}
func (e storeElement) Rotation() float64 { return e.snapshot().Geometry.Rotation }
func (e storeElement) Scale() (float64, float64) {
	g := e.snapshot().Geometry
	return g.ScaleX, g.ScaleY
}
func (e storeElement) Pivot() (float64, float64) {
	g := e.snapshot().Geometry
	return g.PivotX, g.PivotY
}
func (e storeElement) LocalPoints() []geom.Point { return e.snapshot().LocalPoints }
func (e storeElement) Visible() bool             { return e.snapshot().Visible }
