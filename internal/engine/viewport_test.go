package engine

import (
	"testing"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

func TestVisibleWorldBounds(t *testing.T) {
	tests := []struct {
		name string
		vp   stubViewport
		want geom.Rect
	}{
		{
			"unit zoom at origin",
			stubViewport{zoom: 1, canvas: geom.Rect{Width: 800, Height: 600}},
			geom.Rect{X: 0, Y: 0, Width: 800, Height: 600},
		},
		{
			"zoomed in halves the window",
			stubViewport{zoom: 2, canvas: geom.Rect{Width: 800, Height: 600}},
			geom.Rect{X: 0, Y: 0, Width: 400, Height: 300},
		},
		{
			"offset shifts the window",
			stubViewport{zoom: 2, offset: geom.Pt(100, -50), canvas: geom.Rect{Width: 800, Height: 600}},
			geom.Rect{X: 100, Y: -50, Width: 400, Height: 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(tt.vp, NewGeometry(document.NewMemStore()))
			if got := v.VisibleWorldBounds(); !approxRect(got, tt.want) {
				t.Errorf("VisibleWorldBounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsElementVisible(t *testing.T) {
	vp := stubViewport{zoom: 1, canvas: geom.Rect{Width: 800, Height: 600}}
	v := NewViewport(vp, NewGeometry(document.NewMemStore()))

	tests := []struct {
		name  string
		shape document.Shape
		want  bool
	}{
		{"inside", document.NewShape("a", document.ShapeRectangle, 100, 100, 50, 50), true},
		{"straddling the edge", document.NewShape("b", document.ShapeRectangle, 780, 580, 50, 50), true},
		{"outside", document.NewShape("c", document.ShapeRectangle, 900, 700, 50, 50), false},
		{"touching counts", document.NewShape("d", document.ShapeRectangle, 800, 0, 50, 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsElementVisible(ElementOf(tt.shape)); got != tt.want {
				t.Errorf("IsElementVisible = %v, want %v", got, tt.want)
			}
		})
	}
}
