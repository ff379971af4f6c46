package engine

import (
	"math"
	"testing"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

const eps = 1e-6

type stubViewport struct {
	zoom    float64
	offset  geom.Point
	canvas  geom.Rect
	content geom.Rect
}

func (v stubViewport) Zoom() float64            { return v.zoom }
func (v stubViewport) Offset() geom.Point       { return v.offset }
func (v stubViewport) CanvasRect() geom.Rect    { return v.canvas }
func (v stubViewport) ContentBounds() geom.Rect { return v.content }

func approxPt(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func TestScreenWorldRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		vp   stubViewport
	}{
		{"unit", stubViewport{zoom: 1, canvas: geom.Rect{Width: 800, Height: 600}}},
		{"zoomed", stubViewport{zoom: 2.5, offset: geom.Pt(13.7, -4.2), canvas: geom.Rect{X: 100, Y: 50, Width: 800, Height: 600}}},
		{"zoomed out", stubViewport{zoom: 0.25, offset: geom.Pt(-300, 1200), canvas: geom.Rect{X: 10, Y: 10, Width: 1920, Height: 1080}}},
	}
	points := []geom.Point{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: -17.5, Y: 903.25}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransformer(tt.vp)
			for _, p := range points {
				world := tr.ScreenToWorld(p)
				canvas := tr.WorldToCanvas(world)
				screen := geom.Pt(canvas.X+tt.vp.canvas.X, canvas.Y+tt.vp.canvas.Y)
				if !approxPt(p, screen) {
					t.Errorf("round trip %v: got %v", p, screen)
				}
			}
		})
	}
}

func TestLocalWorldRoundTrip(t *testing.T) {
	shapes := []struct {
		name string
		g    document.Geometry
	}{
		{"plain", document.Geometry{X: 10, Y: 20, Width: 100, Height: 50, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}},
		{"rotated", document.Geometry{X: 10, Y: 20, Width: 100, Height: 50, Rotation: 37, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}},
		{"scaled rotated", document.Geometry{X: -40, Y: 200, Width: 80, Height: 120, Rotation: 203, ScaleX: 2.5, ScaleY: 0.5, PivotX: 0.5, PivotY: 0.5}},
		{"corner pivot", document.Geometry{X: 0, Y: 0, Width: 60, Height: 60, Rotation: 90, ScaleX: 1, ScaleY: 1, PivotX: 0, PivotY: 0}},
	}
	locals := []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 25}, {X: 100, Y: 50}, {X: -10, Y: 70}}

	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			el := ElementOf(document.Shape{ID: "s", Type: document.ShapeRectangle, Geometry: tt.g, Visible: true})
			for _, local := range locals {
				world := LocalToWorld(el, local)
				back := WorldToLocal(el, world)
				if !approxPt(local, back) {
					t.Errorf("round trip %v: got %v (world %v)", local, back, world)
				}
			}
		})
	}
}

func TestLocalToWorldUnrotatedIsTranslation(t *testing.T) {
	g := document.Geometry{X: 100, Y: 200, Width: 40, Height: 40, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}
	el := ElementOf(document.Shape{ID: "s", Geometry: g})
	got := LocalToWorld(el, geom.Pt(10, 5))
	if !approxPt(got, geom.Pt(110, 205)) {
		t.Errorf("LocalToWorld = %v, want (110, 205)", got)
	}
}

func TestLocalToWorldRotation(t *testing.T) {
	// 90 degrees about the center of a square: top-left lands at top-right.
	g := document.Geometry{X: 0, Y: 0, Width: 100, Height: 100, Rotation: 90, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}
	el := ElementOf(document.Shape{ID: "s", Geometry: g})
	got := LocalToWorld(el, geom.Pt(0, 0))
	if !approxPt(got, geom.Pt(100, 0)) {
		t.Errorf("rotated corner = %v, want (100, 0)", got)
	}
}

func TestHasInvertibleScale(t *testing.T) {
	ok := document.Geometry{Width: 10, Height: 10, ScaleX: 1, ScaleY: 1}
	zero := document.Geometry{Width: 10, Height: 10, ScaleX: 0, ScaleY: 1}
	if !HasInvertibleScale(ElementOf(document.Shape{Geometry: ok})) {
		t.Error("unit scale reported non-invertible")
	}
	if HasInvertibleScale(ElementOf(document.Shape{Geometry: zero})) {
		t.Error("zero scale reported invertible")
	}
}

func TestLiveElementTracksStore(t *testing.T) {
	store := document.NewMemStore()
	store.Insert(document.NewShape("shape_a", document.ShapeRectangle, 0, 0, 10, 10))

	el, ok := LiveElement(store, "shape_a")
	if !ok {
		t.Fatal("LiveElement not found")
	}

	store.Update("shape_a", document.Geometry{X: 50, Y: 60, Width: 10, Height: 10, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5})
	if pos := el.Position(); !approxPt(pos, geom.Pt(50, 60)) {
		t.Errorf("live element position = %v, want (50, 60)", pos)
	}

	if _, ok := LiveElement(store, "missing"); ok {
		t.Error("LiveElement returned ok for unknown id")
	}
}
