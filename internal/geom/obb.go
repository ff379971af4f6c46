package geom

import "math"

// OrientedBox is a rotated rectangle: four corners in order, the rotation of
// its long edge axis in degrees, and the center/size of the box.
type OrientedBox struct {
	Corners  [4]Point `json:"corners"`
	Rotation float64  `json:"rotation"`
	Center   Point    `json:"center"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

// MinimumBoundingBox computes the minimum-area oriented bounding box of a
// point set by rotating calipers over the convex hull edges: for each hull
// edge the points are rotated into the edge's frame and the axis-aligned
// extent measured; the orientation with the smallest area wins. When the
// hull has fewer than two usable edges the result degrades to the
// axis-aligned bounding box.
func MinimumBoundingBox(points []Point) OrientedBox {
	hull := ConvexHull(points)
	if len(hull) < 3 {
		return axisAlignedBox(points)
	}

	best := OrientedBox{}
	bestArea := math.Inf(1)

	for i := 0; i < len(hull); i++ {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		edge := b.Sub(a)
		if edge.X == 0 && edge.Y == 0 {
			continue
		}
		angle := math.Atan2(edge.Y, edge.X)

		// Measure the hull extent in the edge-aligned frame.
		sin, cos := math.Sincos(-angle)
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range hull {
			rx := p.X*cos - p.Y*sin
			ry := p.X*sin + p.Y*cos
			minX = math.Min(minX, rx)
			maxX = math.Max(maxX, rx)
			minY = math.Min(minY, ry)
			maxY = math.Max(maxY, ry)
		}

		w := maxX - minX
		h := maxY - minY
		area := w * h
		if area >= bestArea {
			continue
		}
		bestArea = area

		// Rotate the aligned corners back into world space.
		rs, rc := math.Sincos(angle)
		unrotate := func(x, y float64) Point {
			return Point{X: x*rc - y*rs, Y: x*rs + y*rc}
		}
		best = OrientedBox{
			Corners: [4]Point{
				unrotate(minX, minY),
				unrotate(maxX, minY),
				unrotate(maxX, maxY),
				unrotate(minX, maxY),
			},
			Rotation: NormalizeDegrees(angle * 180 / math.Pi),
			Center:   unrotate((minX+maxX)/2, (minY+maxY)/2),
			Width:    w,
			Height:   h,
		}
	}

	if math.IsInf(bestArea, 1) {
		return axisAlignedBox(points)
	}
	return best
}

func axisAlignedBox(points []Point) OrientedBox {
	r := BoundsOf(points)
	c := r.Corners()
	return OrientedBox{
		Corners:  c,
		Rotation: 0,
		Center:   r.Center(),
		Width:    r.Width,
		Height:   r.Height,
	}
}
