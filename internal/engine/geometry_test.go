package engine

import (
	"math"
	"testing"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

func approxRect(a, b geom.Rect) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Width-b.Width) <= eps && math.Abs(a.Height-b.Height) <= eps
}

func rectShape(id string, x, y, w, h, rotation float64) document.Shape {
	s := document.NewShape(id, document.ShapeRectangle, x, y, w, h)
	s.Geometry.Rotation = rotation
	return s
}

func TestElementBoundsWorld(t *testing.T) {
	geo := NewGeometry(document.NewMemStore())

	t.Run("unrotated scaled", func(t *testing.T) {
		s := document.NewShape("s", document.ShapeRectangle, 10, 20, 100, 50)
		s.Geometry.ScaleX = 2
		s.Geometry.ScaleY = 3
		got := geo.ElementBoundsWorld(ElementOf(s))
		want := geom.Rect{X: 10, Y: 20, Width: 200, Height: 150}
		if !approxRect(got, want) {
			t.Errorf("bounds = %+v, want %+v", got, want)
		}
	})

	t.Run("rotated 90 swaps extents", func(t *testing.T) {
		got := geo.ElementBoundsWorld(ElementOf(rectShape("s", 0, 0, 100, 50, 90)))
		want := geom.Rect{X: 25, Y: -25, Width: 50, Height: 100}
		if !approxRect(got, want) {
			t.Errorf("bounds = %+v, want %+v", got, want)
		}
	})

	t.Run("rotated 45 grows envelope", func(t *testing.T) {
		got := geo.ElementBoundsWorld(ElementOf(rectShape("s", 0, 0, 100, 100, 45)))
		side := 100 * math.Sqrt2
		if math.Abs(got.Width-side) > eps || math.Abs(got.Height-side) > eps {
			t.Errorf("envelope = %vx%v, want %vx%v", got.Width, got.Height, side, side)
		}
		if c := got.Center(); !approxPt(c, geom.Pt(50, 50)) {
			t.Errorf("envelope center = %v, want (50, 50)", c)
		}
	})
}

func TestIsPointInElement(t *testing.T) {
	geo := NewGeometry(document.NewMemStore())

	rect := rectShape("r", 0, 0, 100, 100, 0)
	rotated := rectShape("rr", 0, 0, 100, 30, 90)
	ellipse := document.NewShape("e", document.ShapeEllipse, 0, 0, 100, 50)
	tri := document.NewShape("t", document.ShapeTriangle, 0, 0, 100, 100)
	degenerate := document.NewShape("d", document.ShapeRectangle, 0, 0, 0, 50)

	tests := []struct {
		name  string
		shape document.Shape
		p     geom.Point
		want  bool
	}{
		{"rect interior", rect, geom.Pt(50, 50), true},
		{"rect outside", rect, geom.Pt(150, 50), false},
		{"rect boundary inclusive", rect, geom.Pt(100, 100), true},
		{"rotated rect above original box", rotated, geom.Pt(50, -15), true},
		{"rotated rect original corner misses", rotated, geom.Pt(1, 1), false},
		{"ellipse center", ellipse, geom.Pt(50, 25), true},
		{"ellipse corner of box", ellipse, geom.Pt(2, 2), false},
		{"ellipse axis endpoint", ellipse, geom.Pt(100, 25), true},
		{"triangle apex side", tri, geom.Pt(50, 10), true},
		{"triangle box corner", tri, geom.Pt(2, 2), false},
		{"degenerate never hits", degenerate, geom.Pt(0, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geo.IsPointInElement(ElementOf(tt.shape), tt.p); got != tt.want {
				t.Errorf("IsPointInElement(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSelectionBounds(t *testing.T) {
	store := document.NewMemStore()
	store.Insert(document.NewShape("a", document.ShapeRectangle, 10, 20, 60, 30))
	store.Insert(document.NewShape("b", document.ShapeRectangle, 100, 40, 60, 50))
	geo := NewGeometry(store)

	t.Run("union", func(t *testing.T) {
		got := geo.SelectionBounds([]string{"a", "b"})
		want := geom.Rect{X: 10, Y: 20, Width: 150, Height: 70}
		if !approxRect(got, want) {
			t.Errorf("bounds = %+v, want %+v", got, want)
		}
	})

	t.Run("missing ids skipped", func(t *testing.T) {
		got := geo.SelectionBounds([]string{"a", "ghost"})
		want := geom.Rect{X: 10, Y: 20, Width: 60, Height: 30}
		if !approxRect(got, want) {
			t.Errorf("bounds = %+v, want %+v", got, want)
		}
	})

	t.Run("empty selection is zero rect", func(t *testing.T) {
		if got := geo.SelectionBounds(nil); !got.IsEmpty() {
			t.Errorf("bounds = %+v, want empty", got)
		}
	})
}

func TestSelectionOrientedBox(t *testing.T) {
	store := document.NewMemStore()
	store.Insert(rectShape("r", 0, 0, 100, 60, 30))
	geo := NewGeometry(store)

	box := geo.SelectionOrientedBox([]string{"r"})
	area := box.Width * box.Height
	aabb := geo.ElementBoundsWorld(ElementOf(rectShape("r", 0, 0, 100, 60, 30)))
	if area > aabb.Width*aabb.Height+eps {
		t.Errorf("oriented box area %v exceeds AABB area %v", area, aabb.Width*aabb.Height)
	}
	// The rotated rect's own area is the lower bound.
	if area < 100*60-1 {
		t.Errorf("oriented box area %v below shape area", area)
	}
}

func TestElementDistance(t *testing.T) {
	geo := NewGeometry(document.NewMemStore())

	a := document.NewShape("a", document.ShapeRectangle, 0, 0, 50, 50)
	b := document.NewShape("b", document.ShapeRectangle, 100, 0, 50, 50)
	overlap := document.NewShape("c", document.ShapeRectangle, 25, 25, 50, 50)
	c1 := document.NewShape("c1", document.ShapeEllipse, 0, 0, 40, 40)
	c2 := document.NewShape("c2", document.ShapeEllipse, 100, 0, 40, 40)
	degenerate := document.NewShape("d", document.ShapeRectangle, 0, 0, 0, 0)

	tests := []struct {
		name string
		a, b document.Shape
		want float64
	}{
		{"separated rects", a, b, 50},
		{"overlapping rects", a, overlap, 0},
		{"circle circle", c1, c2, 100 - 20 - 20},
		{"circle rect", c1, b, 100 - 20 - 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.ElementDistance(ElementOf(tt.a), ElementOf(tt.b))
			if math.Abs(got-tt.want) > eps {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
			// Symmetric in its arguments.
			rev := geo.ElementDistance(ElementOf(tt.b), ElementOf(tt.a))
			if math.Abs(got-rev) > eps {
				t.Errorf("asymmetric: %v vs %v", got, rev)
			}
		})
	}

	t.Run("degenerate is infinite", func(t *testing.T) {
		if got := geo.ElementDistance(ElementOf(degenerate), ElementOf(a)); !math.IsInf(got, 1) {
			t.Errorf("distance = %v, want +Inf", got)
		}
	})
}
