package geom

import "math"

// PointSegmentDist returns the distance from p to the segment a-b using the
// standard clamped projection. A zero-length segment degrades to point
// distance.
func PointSegmentDist(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Dist(closest)
}

// PointPolygonDist returns the distance from p to the polygon outline, or 0
// when p lies inside the polygon. Polygons with fewer than three vertices
// return +Inf.
func PointPolygonDist(p Point, polygon []Point) float64 {
	if len(polygon) < 3 {
		return math.Inf(1)
	}
	if PointInPolygon(p, polygon) {
		return 0
	}
	best := math.Inf(1)
	for i := range polygon {
		j := (i + 1) % len(polygon)
		best = math.Min(best, PointSegmentDist(p, polygon[i], polygon[j]))
	}
	return best
}

// PolygonPolygonDist returns the minimum distance between two polygon
// outlines, 0 when they overlap or touch. Either polygon having fewer than
// three vertices yields +Inf.
func PolygonPolygonDist(a, b []Point) float64 {
	if len(a) < 3 || len(b) < 3 {
		return math.Inf(1)
	}
	// Crossing outlines overlap even when every vertex of each polygon
	// lies outside the other.
	for i := range a {
		for j := range b {
			if SegmentsIntersect(a[i], a[(i+1)%len(a)], b[j], b[(j+1)%len(b)]) {
				return 0
			}
		}
	}
	best := math.Inf(1)
	for _, p := range a {
		best = math.Min(best, PointPolygonDist(p, b))
	}
	for _, p := range b {
		best = math.Min(best, PointPolygonDist(p, a))
	}
	return best
}

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 intersect,
// including touching endpoints and collinear overlap.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := Cross(b1, b2, a1)
	d2 := Cross(b1, b2, a2)
	d3 := Cross(a1, a2, b1)
	d4 := Cross(a1, a2, b2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(b1, b2, a1)) ||
		(d2 == 0 && onSegment(b1, b2, a2)) ||
		(d3 == 0 && onSegment(a1, a2, b1)) ||
		(d4 == 0 && onSegment(a1, a2, b2))
}

// onSegment assumes p is collinear with a-b and checks it lies within the
// segment's extent.
func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// PointInPolygon tests containment with an even-odd ray cast toward +X.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}
	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// PointInTriangle tests containment using the barycentric sign method: the
// point is inside when it sits on the same side of all three edges. Edge
// points count as inside.
func PointInTriangle(p, a, b, c Point) bool {
	d1 := Cross(a, b, p)
	d2 := Cross(b, c, p)
	d3 := Cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
