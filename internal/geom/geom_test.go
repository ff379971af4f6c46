package geom

import (
	"math"
	"testing"
)

const eps = 1e-6

func approxEq(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func pointsApproxEq(a, b Point) bool {
	return approxEq(a.X, b.X) && approxEq(a.Y, b.Y)
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translate", Translate(13.5, -7.25)},
		{"scale", Scale(2.5, 0.75)},
		{"rotate", RotateDegrees(33)},
		{"composite", Translate(100, 50).Mul(RotateDegrees(45)).Mul(Scale(2, 3))},
	}

	points := []Point{{0, 0}, {1, 0}, {-3.5, 7.2}, {1000, -1000}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatalf("matrix not invertible: %v", tt.m)
			}
			for _, p := range points {
				back := inv.Apply(tt.m.Apply(p))
				if !pointsApproxEq(p, back) {
					t.Errorf("round trip %v: got %v", p, back)
				}
			}
		})
	}
}

func TestMatrixInvertDegenerate(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("zero-scale matrix reported invertible")
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-720, 0},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := NormalizeDegrees(tt.in); !approxEq(got, tt.want) {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRectContainsInclusive(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Pt(50, 50), true},
		{"corner", Pt(0, 0), true},
		{"far corner", Pt(100, 100), true},
		{"edge", Pt(100, 50), true},
		{"outside", Pt(150, 50), false},
		{"just outside", Pt(100.001, 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersectsTouching(t *testing.T) {
	a := Rect{0, 0, 50, 50}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{25, 25, 50, 50}, true},
		{"touch edge", Rect{50, 0, 50, 50}, true},
		{"touch corner", Rect{50, 50, 50, 50}, true},
		{"apart", Rect{51, 0, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("Intersects reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnionEmpty(t *testing.T) {
	r := Rect{10, 20, 30, 40}
	if got := (Rect{}).Union(r); got != r {
		t.Errorf("empty union r = %v, want %v", got, r)
	}
	if got := r.Union(Rect{}); got != r {
		t.Errorf("r union empty = %v, want %v", got, r)
	}
}

func TestConvexHull(t *testing.T) {
	tests := []struct {
		name string
		in   []Point
		want int // hull size
	}{
		{"square with interior", []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}}, 4},
		{"triangle", []Point{{0, 0}, {10, 0}, {5, 10}}, 3},
		{"collinear dropped", []Point{{0, 0}, {5, 0}, {10, 0}, {5, 10}}, 3},
		{"two points", []Point{{0, 0}, {10, 0}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hull := ConvexHull(tt.in)
			if len(hull) != tt.want {
				t.Fatalf("hull size = %d, want %d (%v)", len(hull), tt.want, hull)
			}
			// Every input point must be inside or on the hull.
			if len(hull) >= 3 {
				for _, p := range tt.in {
					if !PointInPolygon(p, hull) && PointPolygonDist(p, hull) > eps {
						t.Errorf("input point %v outside hull", p)
					}
				}
			}
		})
	}
}

func TestMinimumBoundingBoxRotatedSquare(t *testing.T) {
	// A 100x60 rect rotated 30 degrees: the minimum box should recover the
	// original area, far below the axis-aligned envelope's.
	base := []Point{{0, 0}, {100, 0}, {100, 60}, {0, 60}}
	center := Pt(50, 30)
	rad := 30 * math.Pi / 180
	pts := make([]Point, len(base))
	for i, p := range base {
		pts[i] = p.Rotate(center, rad)
	}

	box := MinimumBoundingBox(pts)
	area := box.Width * box.Height
	if math.Abs(area-6000) > 1 {
		t.Errorf("min box area = %v, want ~6000", area)
	}

	aabb := BoundsOf(pts)
	if area > aabb.Width*aabb.Height+eps {
		t.Errorf("min box area %v exceeds AABB area %v", area, aabb.Width*aabb.Height)
	}

	// All points must lie within the box corners polygon.
	corners := box.Corners[:]
	for _, p := range pts {
		if !PointInPolygon(p, corners) && PointPolygonDist(p, corners) > 1e-6 {
			t.Errorf("point %v outside oriented box", p)
		}
	}
}

func TestMinimumBoundingBoxDegenerate(t *testing.T) {
	box := MinimumBoundingBox([]Point{{5, 5}, {15, 5}})
	if box.Width != 10 || box.Height != 0 {
		t.Errorf("degenerate box = %vx%v, want 10x0", box.Width, box.Height)
	}
}

func TestPointInTriangle(t *testing.T) {
	a, b, c := Pt(0, 0), Pt(10, 0), Pt(5, 10)
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"centroid", Pt(5, 3), true},
		{"vertex", Pt(0, 0), true},
		{"edge", Pt(5, 0), true},
		{"outside", Pt(-1, 0), false},
		{"above apex", Pt(5, 11), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInTriangle(tt.p, a, b, c); got != tt.want {
				t.Errorf("PointInTriangle(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointSegmentDist(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Pt(5, 5), Pt(0, 0), Pt(10, 0), 5},
		{"beyond end clamps", Pt(15, 0), Pt(0, 0), Pt(10, 0), 5},
		{"on segment", Pt(5, 0), Pt(0, 0), Pt(10, 0), 0},
		{"degenerate segment", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointSegmentDist(tt.p, tt.a, tt.b); !approxEq(got, tt.want) {
				t.Errorf("PointSegmentDist = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonPolygonDist(t *testing.T) {
	square := func(x, y, w, h float64) []Point {
		return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	}

	tests := []struct {
		name string
		a, b []Point
		want float64
	}{
		{"separated", square(0, 0, 10, 10), square(20, 0, 10, 10), 10},
		{"touching", square(0, 0, 10, 10), square(10, 0, 10, 10), 0},
		{"overlapping", square(0, 0, 10, 10), square(5, 5, 10, 10), 0},
		{"contained", square(0, 0, 20, 20), square(5, 5, 2, 2), 0},
		{
			// Crossing bars: every vertex of each is outside the other, but
			// the edges intersect.
			"crossing",
			square(-20, -2, 40, 4),
			square(-2, -20, 4, 40),
			0,
		},
		{"diagonal", square(0, 0, 10, 10), square(13, 14, 10, 10), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolygonPolygonDist(tt.a, tt.b)
			if !approxEq(got, tt.want) {
				t.Errorf("dist = %v, want %v", got, tt.want)
			}
			// Symmetry
			if rev := PolygonPolygonDist(tt.b, tt.a); !approxEq(got, rev) {
				t.Errorf("asymmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestPolygonDistDegenerate(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := PolygonPolygonDist(square, []Point{{0, 0}, {1, 1}}); !math.IsInf(got, 1) {
		t.Errorf("degenerate polygon dist = %v, want +Inf", got)
	}
	if got := PointPolygonDist(Pt(0, 0), []Point{{1, 1}}); !math.IsInf(got, 1) {
		t.Errorf("degenerate point-polygon dist = %v, want +Inf", got)
	}
}
