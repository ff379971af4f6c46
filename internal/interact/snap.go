package interact

import (
	"math"

	"github.com/arcboard/arcboard/backend-go/internal/engine"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// GuidelineAxis says which way a guide line runs.
type GuidelineAxis string

const (
	// GuideVertical is a vertical line at a fixed world X.
	GuideVertical GuidelineAxis = "vertical"
	// GuideHorizontal is a horizontal line at a fixed world Y.
	GuideHorizontal GuidelineAxis = "horizontal"
)

// Guideline is one snapping guide to render during a move drag.
type Guideline struct {
	Axis     GuidelineAxis `json:"axis"`
	Position float64       `json:"position"`
	Source   string        `json:"source"` // "shape-edge", "shape-center", "canvas-center"
	ShapeID  string        `json:"shapeId,omitempty"`
}

// snapCandidate is one stationary coordinate the drag can align to.
type snapCandidate struct {
	value   float64
	source  string
	shapeID string
}

// axisLock remembers an engaged snap on one axis. The lock holds until the
// raw (unsnapped) position drifts past the release threshold, which is
// wider than the engage threshold so guides don't flicker at the boundary.
type axisLock struct {
	active  bool
	target  snapCandidate
	feature float64 // which bounds feature engaged: 0=min, 0.5=center, 1=max
}

// snapState carries per-gesture snapping state for both axes.
type snapState struct {
	x, y axisLock
}

func (st *snapState) reset() {
	*st = snapState{}
}

// movingFeatures returns the min/center/max coordinates of an interval.
func movingFeatures(lo, size float64) [3]float64 {
	return [3]float64{lo, lo + size/2, lo + size}
}

func featureFraction(i int) float64 {
	return float64(i) / 2
}

// collectCandidates gathers snap targets for one drag: edge and center
// lines of every visible shape outside the gesture, plus optionally the
// content-bounds center. Only top-level shapes contribute; members of a
// group align through their group's envelope.
func (in *Interaction) collectCandidates(exclude map[string]struct{}) (xs, ys []snapCandidate) {
	for _, s := range in.store.All() {
		if s.ParentID != "" {
			continue
		}
		if _, skip := exclude[s.ID]; skip {
			continue
		}
		el := engine.ElementOf(s)
		if !in.viewport.IsElementVisible(el) {
			continue
		}
		b := in.geo.ElementBoundsWorld(el)
		if b.IsEmpty() {
			continue
		}
		for i, v := range movingFeatures(b.X, b.Width) {
			src := "shape-edge"
			if i == 1 {
				src = "shape-center"
			}
			xs = append(xs, snapCandidate{value: v, source: src, shapeID: s.ID})
		}
		for i, v := range movingFeatures(b.Y, b.Height) {
			src := "shape-edge"
			if i == 1 {
				src = "shape-center"
			}
			ys = append(ys, snapCandidate{value: v, source: src, shapeID: s.ID})
		}
	}
	if in.cfg.SnapToCanvasCenter {
		c := in.viewportState.ContentBounds().Center()
		xs = append(xs, snapCandidate{value: c.X, source: "canvas-center"})
		ys = append(ys, snapCandidate{value: c.Y, source: "canvas-center"})
	}
	return xs, ys
}

// snapAxis adjusts one axis of a raw move delta. rawLo/size describe the
// dragged bounds on this axis at the raw delta. It returns the correction
// to add to the delta and the engaged candidate, if any.
func snapAxisDelta(lock *axisLock, rawLo, size float64, candidates []snapCandidate, engage, release float64) (float64, bool) {
	feats := movingFeatures(rawLo, size)

	if lock.active {
		raw := rawLo + lock.feature*size
		if math.Abs(raw-lock.target.value) <= release {
			return lock.target.value - raw, true
		}
		lock.active = false
	}

	best := math.Inf(1)
	var bestCand snapCandidate
	bestFeat := 0.0
	for i, f := range feats {
		for _, c := range candidates {
			if d := math.Abs(c.value - f); d < best {
				best = d
				bestCand = c
				bestFeat = featureFraction(i)
			}
		}
	}
	if best > engage {
		return 0, false
	}
	lock.active = true
	lock.target = bestCand
	lock.feature = bestFeat
	return bestCand.value - (rawLo + bestFeat*size), true
}

// applySnap takes the raw drag delta for the gesture bounds and returns
// the snapped delta plus the active guidelines. Thresholds are divided by
// zoom so snapping feels identical at any magnification.
func (in *Interaction) applySnap(startBounds geom.Rect, raw geom.Point, exclude map[string]struct{}) (geom.Point, []Guideline) {
	zoom := in.viewportZoom()
	engage := in.cfg.SnapThreshold / zoom
	release := in.cfg.SnapReleaseThreshold / zoom

	xs, ys := in.collectCandidates(exclude)

	var guides []Guideline
	dx, okX := snapAxisDelta(&in.snap.x, startBounds.X+raw.X, startBounds.Width, xs, engage, release)
	if okX {
		guides = append(guides, Guideline{
			Axis:     GuideVertical,
			Position: in.snap.x.target.value,
			Source:   in.snap.x.target.source,
			ShapeID:  in.snap.x.target.shapeID,
		})
	}
	dy, okY := snapAxisDelta(&in.snap.y, startBounds.Y+raw.Y, startBounds.Height, ys, engage, release)
	if okY {
		guides = append(guides, Guideline{
			Axis:     GuideHorizontal,
			Position: in.snap.y.target.value,
			Source:   in.snap.y.target.source,
			ShapeID:  in.snap.y.target.shapeID,
		})
	}
	return geom.Pt(raw.X+dx, raw.Y+dy), guides
}
