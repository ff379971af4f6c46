package engine

import (
	"math"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

const (
	// ellipseOutlineSamples is the number of parametric boundary samples
	// used when bounding a (possibly rotated) ellipse. After rotation the
	// envelope's extrema no longer coincide with the ellipse's axis
	// endpoints, so the outline is oversampled.
	ellipseOutlineSamples = 16
	// edgeOutlineSamples is the per-edge sample count for triangles and
	// rotated rectangles.
	edgeOutlineSamples = 8
)

// Geometry is the bounds / hit-test / distance service. It never fails:
// malformed elements degrade to no-hit, empty bounds, or +Inf distance.
type Geometry struct {
	store document.Reader
}

// NewGeometry returns a geometry service reading from the given store.
func NewGeometry(store document.Reader) *Geometry {
	return &Geometry{store: store}
}

// ElementBoundsWorld returns the element's axis-aligned world bounds. For
// unrotated elements this is {x, y, w·sx, h·sy}; rotated elements are
// bounded by the envelope of their transformed corners.
func (g *Geometry) ElementBoundsWorld(el Element) geom.Rect {
	pos := el.Position()
	w, h := el.Size()
	sx, sy := el.Scale()

	if geom.NormalizeDegrees(el.Rotation()) == 0 {
		return geom.Rect{X: pos.X, Y: pos.Y, Width: w * sx, Height: h * sy}
	}

	corners := []geom.Point{
		LocalToWorld(el, geom.Pt(0, 0)),
		LocalToWorld(el, geom.Pt(w, 0)),
		LocalToWorld(el, geom.Pt(w, h)),
		LocalToWorld(el, geom.Pt(0, h)),
	}
	return geom.BoundsOf(corners)
}

// defaultTrianglePoints is the equilateral-in-box outline used when a
// triangle carries no explicit vertex list.
func defaultTrianglePoints(w, h float64) []geom.Point {
	return []geom.Point{
		{X: w / 2, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}

// localOutline returns the element outline in local space.
func localOutline(el Element) []geom.Point {
	if pts := el.LocalPoints(); len(pts) >= 3 {
		return pts
	}
	w, h := el.Size()
	switch el.Kind() {
	case document.ShapeTriangle:
		return defaultTrianglePoints(w, h)
	default:
		return []geom.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	}
}

// IsPointInElement transforms the world point into the element's local
// frame and dispatches by shape kind. Degenerate shapes never hit.
func (g *Geometry) IsPointInElement(el Element, world geom.Point) bool {
	w, h := el.Size()
	if w <= 0 || h <= 0 || !HasInvertibleScale(el) {
		return false
	}

	local := WorldToLocal(el, world)

	switch el.Kind() {
	case document.ShapeEllipse:
		rx, ry := w/2, h/2
		nx := (local.X - rx) / rx
		ny := (local.Y - ry) / ry
		return nx*nx+ny*ny <= 1

	case document.ShapeTriangle:
		pts := el.LocalPoints()
		if len(pts) < 3 {
			pts = defaultTrianglePoints(w, h)
		}
		if len(pts) == 3 {
			return geom.PointInTriangle(local, pts[0], pts[1], pts[2])
		}
		return geom.PointInPolygon(local, pts)

	default:
		// Rectangle, text, image, and group bodies hit-test as their
		// local box; the boundary is inclusive.
		return local.X >= 0 && local.X <= w && local.Y >= 0 && local.Y <= h
	}
}

// WorldOutlinePoints returns the world-space sample points used for
// rotation-aware bounding. Ellipses sample their parametric boundary,
// triangles and rotated boxes sample each edge, and unrotated boxes use
// their four corners.
func (g *Geometry) WorldOutlinePoints(el Element) []geom.Point {
	w, h := el.Size()
	if w <= 0 || h <= 0 {
		p := el.Position()
		return []geom.Point{p}
	}

	rotated := geom.NormalizeDegrees(el.Rotation()) != 0

	switch el.Kind() {
	case document.ShapeEllipse:
		rx, ry := w/2, h/2
		pts := make([]geom.Point, 0, ellipseOutlineSamples)
		for i := 0; i < ellipseOutlineSamples; i++ {
			a := float64(i) * 2 * math.Pi / ellipseOutlineSamples
			local := geom.Pt(rx+rx*math.Cos(a), ry+ry*math.Sin(a))
			pts = append(pts, LocalToWorld(el, local))
		}
		return pts

	case document.ShapeTriangle:
		return sampleEdges(el, localOutline(el), edgeOutlineSamples)

	default:
		corners := []geom.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
		if rotated {
			return sampleEdges(el, corners, edgeOutlineSamples)
		}
		out := make([]geom.Point, len(corners))
		for i, c := range corners {
			out[i] = LocalToWorld(el, c)
		}
		return out
	}
}

// sampleEdges walks the local outline and emits n world-space samples per
// edge.
func sampleEdges(el Element, outline []geom.Point, n int) []geom.Point {
	pts := make([]geom.Point, 0, len(outline)*n)
	for i := range outline {
		a := outline[i]
		b := outline[(i+1)%len(outline)]
		for s := 0; s < n; s++ {
			t := float64(s) / float64(n)
			local := geom.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
			pts = append(pts, LocalToWorld(el, local))
		}
	}
	return pts
}

// SelectionBounds unions the outline points of the given shapes into one
// axis-aligned envelope. Unknown ids are skipped; an empty or fully
// missing selection yields the zero rect.
func (g *Geometry) SelectionBounds(ids []string) geom.Rect {
	var pts []geom.Point
	for _, id := range ids {
		s, ok := g.store.Get(id)
		if !ok {
			continue
		}
		pts = append(pts, g.WorldOutlinePoints(ElementOf(s))...)
	}
	return geom.BoundsOf(pts)
}

// SelectionOrientedBox computes the minimum-area rotated bounding box of
// the given shapes' outline points.
func (g *Geometry) SelectionOrientedBox(ids []string) geom.OrientedBox {
	var pts []geom.Point
	for _, id := range ids {
		s, ok := g.store.Get(id)
		if !ok {
			continue
		}
		pts = append(pts, g.WorldOutlinePoints(ElementOf(s))...)
	}
	return geom.MinimumBoundingBox(pts)
}

// isCircular reports whether the element participates in distance
// computations as a circle.
func isCircular(el Element) bool {
	return el.Kind() == document.ShapeEllipse
}

// circleOf returns the element's center and effective radius in world
// space.
func circleOf(el Element) (geom.Point, float64) {
	w, h := el.Size()
	sx, sy := el.Scale()
	center := LocalToWorld(el, geom.Pt(w/2, h/2))
	radius := (w*math.Abs(sx) + h*math.Abs(sy)) / 4
	return center, radius
}

// worldPolygon returns the element's outline corners in world space, or
// nil when the element is degenerate.
func worldPolygon(el Element) []geom.Point {
	w, h := el.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	outline := localOutline(el)
	pts := make([]geom.Point, len(outline))
	for i, p := range outline {
		pts[i] = LocalToWorld(el, p)
	}
	return pts
}

// ElementDistance returns the minimum world-space distance between two
// element outlines: 0 when they overlap or touch, +Inf when either side is
// degenerate. The result is symmetric in its arguments.
func (g *Geometry) ElementDistance(a, b Element) float64 {
	aw, ah := a.Size()
	bw, bh := b.Size()
	if aw <= 0 || ah <= 0 || bw <= 0 || bh <= 0 {
		return math.Inf(1)
	}

	switch {
	case isCircular(a) && isCircular(b):
		ca, ra := circleOf(a)
		cb, rb := circleOf(b)
		return math.Max(0, ca.Dist(cb)-ra-rb)

	case isCircular(a):
		return circlePolygonDist(a, b)

	case isCircular(b):
		return circlePolygonDist(b, a)

	default:
		pa := worldPolygon(a)
		pb := worldPolygon(b)
		return geom.PolygonPolygonDist(pa, pb)
	}
}

func circlePolygonDist(circle, poly Element) float64 {
	center, radius := circleOf(circle)
	pts := worldPolygon(poly)
	if len(pts) < 3 {
		return math.Inf(1)
	}
	return math.Max(0, geom.PointPolygonDist(center, pts)-radius)
}
