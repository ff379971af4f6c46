package document

import (
	"github.com/arcboard/arcboard/backend-go/internal/typeid"
)

// NewSampleBoard seeds a store with a small board used by the WASM
// playground: a rectangle, an ellipse, a triangle, and a grouped pair.
func NewSampleBoard() *MemStore {
	store := NewMemStore()

	rect := NewShape(typeid.NewShapeID(), ShapeRectangle, 200, 200, 200, 150)
	rect.ZIndex = 1
	store.Insert(rect)

	ellipse := NewShape(typeid.NewShapeID(), ShapeEllipse, 520, 280, 240, 160)
	ellipse.ZIndex = 2
	store.Insert(ellipse)

	tri := NewShape(typeid.NewShapeID(), ShapeTriangle, 900, 200, 200, 150)
	tri.ZIndex = 3
	store.Insert(tri)

	groupID := typeid.NewShapeID()

	label := NewShape(typeid.NewShapeID(), ShapeText, 470, 480, 60, 100)
	label.Text = "Arcboard"
	label.ZIndex = 4
	label.ParentID = groupID
	store.Insert(label)

	badge := NewShape(typeid.NewShapeID(), ShapeEllipse, 500, 380, 40, 40)
	badge.ZIndex = 5
	badge.ParentID = groupID
	store.Insert(badge)

	group := NewShape(groupID, ShapeGroup, 470, 380, 70, 200)
	group.Children = []string{label.ID, badge.ID}
	group.ZIndex = 6
	store.Insert(group)

	return store
}
