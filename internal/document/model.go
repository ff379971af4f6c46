// Package document defines the board data model: shapes, groups, and the
// mutable shape store that every editor component reads from and writes to.
package document

import (
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// ShapeType identifies the geometric kind of a shape.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeTriangle  ShapeType = "triangle"
	ShapeText      ShapeType = "text"
	ShapeImage     ShapeType = "image"
	ShapeGroup     ShapeType = "group"
)

// Geometry is the mutable geometric state of a shape. It is replaced as a
// whole on every write; components never edit individual fields of a stored
// shape in place.
type Geometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"sx"`
	ScaleY   float64 `json:"sy"`
	PivotX   float64 `json:"px"`
	PivotY   float64 `json:"py"`
}

// Bounds returns the unrotated axis-aligned rect of the geometry, before
// scale and rotation are applied.
func (g Geometry) Bounds() geom.Rect {
	return geom.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// Shape is one element on the board. Position is the top-left corner in
// world space; the pivot is a fraction of the size in [0,1] used as the
// rotation and scale center. Higher ZIndex draws and hit-tests first.
type Shape struct {
	ID       string    `json:"id"`
	Type     ShapeType `json:"type"`
	Geometry Geometry  `json:"geometry"`
	ZIndex   int       `json:"zIndex"`
	Visible  bool      `json:"visible"`
	ParentID string    `json:"parentId,omitempty"`

	// Children is set only for groups. Order is not geometrically
	// significant.
	Children []string `json:"children,omitempty"`

	// LocalPoints optionally carries a vertex outline in local space
	// (triangles and custom polygons). Nil means the shape's type implies
	// its outline.
	LocalPoints []geom.Point `json:"localPoints,omitempty"`

	// Content payloads for non-geometric shape kinds.
	Text    string `json:"text,omitempty"`
	AssetID string `json:"assetId,omitempty"`
}

// IsGroup reports whether the shape is a composite.
func (s Shape) IsGroup() bool {
	return s.Type == ShapeGroup
}

// NewShape returns a shape with neutral transform defaults (unit scale,
// centered pivot) at the given world rect.
func NewShape(id string, kind ShapeType, x, y, w, h float64) Shape {
	return Shape{
		ID:   id,
		Type: kind,
		Geometry: Geometry{
			X: x, Y: y, Width: w, Height: h,
			ScaleX: 1, ScaleY: 1,
			PivotX: 0.5, PivotY: 0.5,
		},
		Visible: true,
	}
}

// Board is the serializable board document: a name plus its shapes in
// z-order. It is the unit of persistence and of collaboration sync.
type Board struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Shapes []Shape `json:"shapes"`
}
