package geom

import "sort"

// ConvexHull computes the convex hull of a point set using a Graham scan:
// the lowest (then leftmost) point becomes the pivot, the remaining points
// are sorted by polar angle around it with nearer points first on ties, and
// the sweep discards every turn that is not a strict left turn. The hull is
// returned in counter-clockwise order. Inputs with fewer than three points
// are returned as-is.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	pts := make([]Point, len(points))
	copy(pts, points)

	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}
	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		cross := Cross(pivot, rest[i], rest[j])
		if cross != 0 {
			return cross > 0
		}
		return pivot.DistSq(rest[i]) < pivot.DistSq(rest[j])
	})

	hull := []Point{pivot}
	for _, p := range rest {
		for len(hull) > 1 && Cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}
