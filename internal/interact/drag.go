package interact

import (
	"math"
	"slices"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/engine"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// minResizeFactor stops a resize from collapsing or flipping the
// selection through its anchor.
const minResizeFactor = 0.01

// updateMove re-derives every shape from its pointer-down snapshot plus
// the snapped delta, so intermediate frames never accumulate error.
func (in *Interaction) updateMove(world geom.Point) []Event {
	g := in.gesture
	raw := world.Sub(g.startWorld)

	exclude := make(map[string]struct{}, len(g.order))
	for _, id := range g.order {
		exclude[id] = struct{}{}
	}
	delta, guides := in.applySnap(g.bounds, raw, exclude)
	in.guides = guides

	ups := make([]document.Update, 0, len(g.order))
	for _, id := range g.order {
		geo := g.origin[id]
		geo.X += delta.X
		geo.Y += delta.Y
		ups = append(ups, document.Update{ID: id, Geometry: geo})
	}
	in.store.UpdateMany(ups)
	in.refreshGroupBounds()

	return []Event{{Kind: EventOpUpdate, Op: "move", ShapeIDs: g.roots, DX: delta.X, DY: delta.Y}}
}

// updateResize scales every snapshot geometry about the anchor opposite
// the grabbed handle. Edge handles scale one axis; corner handles apply
// the dominant axis factor to both so the selection keeps its aspect
// ratio.
func (in *Interaction) updateResize(world geom.Point) []Event {
	g := in.gesture
	anchor := anchorFor(g.handle, g.bounds)
	hfx, hfy := handleFractions(g.handle)

	fx, fy := 1.0, 1.0
	if hfx != 0.5 {
		start := g.bounds.X + hfx*g.bounds.Width
		if denom := start - anchor.X; denom != 0 {
			fx = (world.X - anchor.X) / denom
		}
	}
	if hfy != 0.5 {
		start := g.bounds.Y + hfy*g.bounds.Height
		if denom := start - anchor.Y; denom != 0 {
			fy = (world.Y - anchor.Y) / denom
		}
	}
	fx = math.Max(fx, minResizeFactor)
	fy = math.Max(fy, minResizeFactor)
	if g.handle.isCorner() {
		f := fx
		if math.Abs(fy-1) > math.Abs(fx-1) {
			f = fy
		}
		fx, fy = f, f
	}

	ups := make([]document.Update, 0, len(g.order))
	for _, id := range g.order {
		geo := g.origin[id]
		geo.X = anchor.X + (geo.X-anchor.X)*fx
		geo.Y = anchor.Y + (geo.Y-anchor.Y)*fy
		geo.Width *= fx
		geo.Height *= fy
		ups = append(ups, document.Update{ID: id, Geometry: geo})
	}
	in.store.UpdateMany(ups)
	in.refreshGroupBounds()

	return []Event{{Kind: EventOpUpdate, Op: "resize", ShapeIDs: g.roots}}
}

// updateRotate spins the selection about the pointer-down bounds center.
// Each shape orbits the shared center and adds the delta to its own
// rotation; group containers stay axis-aligned and get their bounds
// recomputed from the rotated members.
func (in *Interaction) updateRotate(world geom.Point) []Event {
	g := in.gesture
	center := g.bounds.Center()
	v0 := g.startWorld.Sub(center)
	v1 := world.Sub(center)

	const eps = 1e-9
	if math.Hypot(v0.X, v0.Y) < eps || math.Hypot(v1.X, v1.Y) < eps {
		return nil
	}
	rad := math.Atan2(v0.X*v1.Y-v0.Y*v1.X, v0.X*v1.X+v0.Y*v1.Y)
	delta := rad * 180 / math.Pi

	ups := make([]document.Update, 0, len(g.order))
	for _, id := range g.order {
		s, ok := in.store.Get(id)
		if !ok {
			continue
		}
		geo := g.origin[id]
		if s.IsGroup() {
			continue
		}
		old := geo.Bounds().Center()
		moved := old.Rotate(center, rad)
		geo.X += moved.X - old.X
		geo.Y += moved.Y - old.Y
		geo.Rotation = geom.NormalizeDegrees(geo.Rotation + delta)
		ups = append(ups, document.Update{ID: id, Geometry: geo})
	}
	in.store.UpdateMany(ups)
	in.refreshGroupBounds()

	return []Event{{Kind: EventOpUpdate, Op: "rotate", ShapeIDs: g.roots}}
}

// updateMarquee stretches the rubber band and live-updates the selection
// to the root shapes whose bounds intersect it.
func (in *Interaction) updateMarquee(world geom.Point) []Event {
	g := in.gesture
	g.marqueeEnd = world
	band := geom.BoundsOf([]geom.Point{g.startWorld, world})

	var picked []string
	for _, s := range in.store.All() {
		if s.ParentID != "" || !s.Visible {
			continue
		}
		if in.geo.ElementBoundsWorld(engine.ElementOf(s)).Intersects(band) {
			picked = append(picked, s.ID)
		}
	}
	if g.additive {
		for _, id := range g.baseSelection {
			if !slices.Contains(picked, id) {
				picked = append(picked, id)
			}
		}
	}

	if slices.Equal(picked, in.store.Selection()) {
		return nil
	}
	in.store.SetSelection(picked)
	return []Event{in.selectionEvent()}
}

// refreshGroupBounds recomputes the envelope of every group touched by
// the gesture, children before parents, then bubbles from the selection
// roots so enclosing groups outside the gesture stay tight.
func (in *Interaction) refreshGroupBounds() {
	g := in.gesture
	for i := len(g.order) - 1; i >= 0; i-- {
		id := g.order[i]
		if s, ok := in.store.Get(id); ok && s.IsGroup() {
			in.groups.RecomputeGroupBounds(id)
		}
	}
	for _, id := range g.roots {
		in.groups.BubbleUpdateGroupBounds(id)
	}
}
