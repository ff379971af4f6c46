package interact

import (
	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/engine"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// Handle identifies one of the eight resize grips or the rotation grip
// around the current selection.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
)

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "top-left"
	case HandleTop:
		return "top"
	case HandleTopRight:
		return "top-right"
	case HandleRight:
		return "right"
	case HandleBottomRight:
		return "bottom-right"
	case HandleBottom:
		return "bottom"
	case HandleBottomLeft:
		return "bottom-left"
	case HandleLeft:
		return "left"
	case HandleRotate:
		return "rotate"
	default:
		return "none"
	}
}

// isCorner reports whether the handle scales both axes.
func (h Handle) isCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft:
		return true
	}
	return false
}

var resizeHandles = [...]Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
}

// handleFractions maps a resize handle to its position on the selection
// rect as (fx, fy) fractions of width and height.
func handleFractions(h Handle) (fx, fy float64) {
	switch h {
	case HandleTopLeft:
		return 0, 0
	case HandleTop:
		return 0.5, 0
	case HandleTopRight:
		return 1, 0
	case HandleRight:
		return 1, 0.5
	case HandleBottomRight:
		return 1, 1
	case HandleBottom:
		return 0.5, 1
	case HandleBottomLeft:
		return 0, 1
	case HandleLeft:
		return 0, 0.5
	}
	return 0.5, 0.5
}

// anchorFor returns the fixed point of a resize gesture: the handle's
// mirror across the selection rect.
func anchorFor(h Handle, bounds geom.Rect) geom.Point {
	fx, fy := handleFractions(h)
	return geom.Pt(bounds.X+(1-fx)*bounds.Width, bounds.Y+(1-fy)*bounds.Height)
}

// HandlePosition is a grip's location in world space.
type HandlePosition struct {
	Handle Handle
	Point  geom.Point
}

// HandlePositions returns the world positions of all grips for the current
// selection. A single selected element gets grips on its rotated frame; a
// multi-selection (or empty selection) gets axis-aligned grips on the
// combined bounds. The rotation grip floats above the top edge by a
// constant screen distance.
func (in *Interaction) HandlePositions() []HandlePosition {
	ids := in.store.Selection()
	if len(ids) == 0 {
		return nil
	}
	zoom := in.viewportZoom()
	offset := in.cfg.RotateHandleOffset / zoom

	if len(ids) == 1 {
		s, ok := in.store.Get(ids[0])
		if ok && !s.IsGroup() {
			return rotatedHandles(s, offset)
		}
	}

	bounds := in.geo.SelectionBounds(ids)
	if bounds.IsEmpty() {
		return nil
	}
	out := make([]HandlePosition, 0, len(resizeHandles)+1)
	for _, h := range resizeHandles {
		fx, fy := handleFractions(h)
		out = append(out, HandlePosition{
			Handle: h,
			Point:  geom.Pt(bounds.X+fx*bounds.Width, bounds.Y+fy*bounds.Height),
		})
	}
	out = append(out, HandlePosition{
		Handle: HandleRotate,
		Point:  geom.Pt(bounds.X+bounds.Width/2, bounds.Y-offset),
	})
	return out
}

// rotatedHandles places grips on the element's own rotated frame so they
// track the shape visually.
func rotatedHandles(s document.Shape, rotateOffset float64) []HandlePosition {
	el := engine.ElementOf(s)
	w, h := el.Size()
	out := make([]HandlePosition, 0, len(resizeHandles)+1)
	for _, hd := range resizeHandles {
		fx, fy := handleFractions(hd)
		out = append(out, HandlePosition{
			Handle: hd,
			Point:  engine.LocalToWorld(el, geom.Pt(fx*w, fy*h)),
		})
	}
	// The rotate grip sits above the top-center in local space; the offset
	// is pre-divided by zoom so it keeps a constant visual distance.
	out = append(out, HandlePosition{
		Handle: HandleRotate,
		Point:  engine.LocalToWorld(el, geom.Pt(w/2, -rotateOffset)),
	})
	return out
}

// HandleAt reports which grip, if any, the world point lands on. Grips keep
// a constant on-screen size, so the hit radius shrinks in world units as
// zoom grows.
func (in *Interaction) HandleAt(world geom.Point) Handle {
	radius := in.cfg.HandleSize / in.viewportZoom()
	best := HandleNone
	bestDist := radius
	for _, hp := range in.HandlePositions() {
		if d := world.Dist(hp.Point); d <= bestDist {
			best = hp.Handle
			bestDist = d
		}
	}
	return best
}
