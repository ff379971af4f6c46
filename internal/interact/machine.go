package interact

import (
	"slices"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/engine"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
	"github.com/arcboard/arcboard/backend-go/internal/history"
)

// Interaction is the pointer state machine. It owns no rendering and no
// I/O; every transition mutates the store synchronously and returns the
// events it produced. It is single-goroutine by contract, like the rest of
// the editor core.
type Interaction struct {
	cfg           Config
	store         document.Store
	geo           *engine.Geometry
	groups        *engine.Groups
	viewport      *engine.Viewport
	tr            *engine.Transformer
	viewportState engine.ViewportState
	log           history.Log

	state   State
	gesture *gesture
	snap    snapState
	guides  []Guideline

	// hoverID is the shape under the cursor while idle.
	hoverID string
}

// gesture is the scratch state of one press-drag-release cycle. The origin
// map snapshots every affected geometry at pointer-down; it is both the
// rollback target for Cancel and the before-state of the history entry.
type gesture struct {
	startScreen geom.Point
	startWorld  geom.Point
	handle      Handle
	hitID       string
	additive    bool
	wasSelected bool

	origin map[string]document.Geometry
	order  []string // snapshot ids, parents before their descendants
	roots  []string // the selected ids at pointer-down
	bounds geom.Rect

	baseSelection []string
	marqueeEnd    geom.Point
}

// New wires an interaction over the given store and viewport state.
func New(cfg Config, store document.Store, vp engine.ViewportState, log history.Log) *Interaction {
	geo := engine.NewGeometry(store)
	return &Interaction{
		cfg:           cfg,
		store:         store,
		geo:           geo,
		groups:        engine.NewGroups(store, geo),
		viewport:      engine.NewViewport(vp, geo),
		tr:            engine.NewTransformer(vp),
		viewportState: vp,
		log:           log,
		state:         StateIdle,
	}
}

// State returns the current interaction state.
func (in *Interaction) State() State { return in.state }

// Guidelines returns the snap guides active for the current move drag.
func (in *Interaction) Guidelines() []Guideline { return in.guides }

// MarqueeRect returns the live marquee rectangle in world space.
func (in *Interaction) MarqueeRect() (geom.Rect, bool) {
	if in.state != StateDragMarqueeSelecting || in.gesture == nil {
		return geom.Rect{}, false
	}
	return geom.BoundsOf([]geom.Point{in.gesture.startWorld, in.gesture.marqueeEnd}), true
}

func (in *Interaction) viewportZoom() float64 {
	z := in.viewportState.Zoom()
	if z <= 0 {
		return 1
	}
	return z
}

// topShapeAt finds the top-most root shape under a world point. Groups are
// tested as one unit via their envelope, before any look at their
// children; plain shapes use their exact outline.
func (in *Interaction) topShapeAt(world geom.Point) (document.Shape, bool) {
	all := in.store.All()
	for i := len(all) - 1; i >= 0; i-- {
		s := all[i]
		if s.ParentID != "" || !s.Visible {
			continue
		}
		el := engine.ElementOf(s)
		if s.IsGroup() {
			if in.geo.ElementBoundsWorld(el).Contains(world) {
				return s, true
			}
			continue
		}
		if in.geo.IsPointInElement(el, world) {
			return s, true
		}
	}
	return document.Shape{}, false
}

// beginGesture snapshots the selection, including every group descendant,
// so drags apply to the frozen pointer-down state rather than compounding.
func (in *Interaction) beginGesture(screen, world geom.Point, additive bool) {
	sel := in.store.Selection()
	g := &gesture{
		startScreen:   screen,
		startWorld:    world,
		additive:      additive,
		origin:        make(map[string]document.Geometry),
		roots:         slices.Clone(sel),
		baseSelection: slices.Clone(sel),
		bounds:        in.geo.SelectionBounds(sel),
	}
	visited := make(map[string]bool)
	var snapshot func(id string)
	snapshot = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		s, ok := in.store.Get(id)
		if !ok {
			return
		}
		g.origin[s.ID] = s.Geometry
		g.order = append(g.order, s.ID)
		for _, child := range s.Children {
			snapshot(child)
		}
	}
	for _, id := range sel {
		snapshot(id)
	}
	in.gesture = g
}

// PointerDown routes a press to a handle grab, a shape grab, or a marquee
// anchor. A press during an active drag is swallowed; the gesture holds an
// advisory lock until pointer-up or cancel.
func (in *Interaction) PointerDown(screen geom.Point, additive bool) []Event {
	if in.state.dragging() {
		return nil
	}
	world := in.tr.ScreenToWorld(screen)

	if len(in.store.Selection()) > 0 {
		if h := in.HandleAt(world); h != HandleNone {
			in.beginGesture(screen, world, additive)
			in.gesture.handle = h
			in.snap.reset()
			op := "resize"
			in.state = StateDragResizing
			if h == HandleRotate {
				op = "rotate"
				in.state = StateDragRotating
			}
			return []Event{{Kind: EventOpStart, Op: op, ShapeIDs: in.gesture.roots}}
		}
	}

	hit, ok := in.topShapeAt(world)
	if !ok {
		in.gesture = &gesture{
			startScreen:   screen,
			startWorld:    world,
			marqueeEnd:    world,
			additive:      additive,
			baseSelection: slices.Clone(in.store.Selection()),
		}
		in.state = StateIdleButPotentialMarquee
		return nil
	}

	var events []Event
	sel := in.store.Selection()
	selected := slices.Contains(sel, hit.ID)
	switch {
	case additive && selected:
		// Deselect happens on pointer-up, so a drag can still start here.
	case additive:
		in.store.AddToSelection(hit.ID)
		events = append(events, in.selectionEvent())
	case !selected:
		in.store.SetSelection([]string{hit.ID})
		events = append(events, in.selectionEvent())
	}

	in.beginGesture(screen, world, additive)
	in.gesture.hitID = hit.ID
	in.gesture.wasSelected = selected
	in.state = StateIdleButPotentialMove
	return events
}

// PointerMove advances the active gesture, or updates hover when idle.
// Feed it one coalesced event per frame, not the raw input stream.
func (in *Interaction) PointerMove(screen geom.Point) []Event {
	world := in.tr.ScreenToWorld(screen)

	switch in.state {
	case StateIdleButPotentialMove:
		if screen.Dist(in.gesture.startScreen) <= in.cfg.ActivationThreshold {
			return nil
		}
		in.state = StateDragMoving
		in.snap.reset()
		events := []Event{{Kind: EventOpStart, Op: "move", ShapeIDs: in.gesture.roots}}
		return append(events, in.updateMove(world)...)

	case StateIdleButPotentialMarquee:
		if screen.Dist(in.gesture.startScreen) <= in.cfg.ActivationThreshold {
			return nil
		}
		in.state = StateDragMarqueeSelecting
		events := []Event{{Kind: EventOpStart, Op: "marquee"}}
		return append(events, in.updateMarquee(world)...)

	case StateDragMoving:
		return in.updateMove(world)
	case StateDragResizing:
		return in.updateResize(world)
	case StateDragRotating:
		return in.updateRotate(world)
	case StateDragMarqueeSelecting:
		return in.updateMarquee(world)

	default:
		in.updateHover(world)
		return nil
	}
}

// PointerUp closes the gesture: drags commit one history entry, pending
// states resolve as plain clicks.
func (in *Interaction) PointerUp(screen geom.Point) []Event {
	var events []Event

	switch in.state {
	case StateIdleButPotentialMove:
		g := in.gesture
		sel := in.store.Selection()
		switch {
		case g.additive && g.wasSelected:
			in.store.RemoveFromSelection(g.hitID)
			events = append(events, in.selectionEvent())
		case !g.additive && g.wasSelected && len(sel) > 1:
			// Click on a member of a multi-selection collapses to it.
			in.store.SetSelection([]string{g.hitID})
			events = append(events, in.selectionEvent())
		}

	case StateIdleButPotentialMarquee:
		if !in.gesture.additive && len(in.store.Selection()) > 0 {
			in.store.SetSelection(nil)
			events = append(events, in.selectionEvent())
		}

	case StateDragMoving, StateDragResizing, StateDragRotating:
		op := in.currentOp()
		if entry, ok := in.buildEntry(op); ok {
			in.log.Push(entry)
		}
		events = append(events, Event{Kind: EventOpEnd, Op: op, ShapeIDs: in.gesture.roots})

	case StateDragMarqueeSelecting:
		events = append(events, Event{Kind: EventOpEnd, Op: "marquee", ShapeIDs: in.store.Selection()})
	}

	in.endGesture()
	in.updateHover(in.tr.ScreenToWorld(screen))
	return events
}

// Cancel aborts the gesture and rolls every touched shape back to its
// pointer-down geometry. Marquee cancellation restores the prior
// selection.
func (in *Interaction) Cancel() []Event {
	var events []Event

	switch in.state {
	case StateDragMoving, StateDragResizing, StateDragRotating:
		g := in.gesture
		ups := make([]document.Update, 0, len(g.order))
		for _, id := range g.order {
			ups = append(ups, document.Update{ID: id, Geometry: g.origin[id]})
		}
		in.store.UpdateMany(ups)
		in.refreshGroupBounds()
		events = append(events, Event{Kind: EventOpEnd, Op: in.currentOp(), ShapeIDs: g.roots, Cancelled: true})

	case StateDragMarqueeSelecting:
		if !slices.Equal(in.store.Selection(), in.gesture.baseSelection) {
			in.store.SetSelection(in.gesture.baseSelection)
			events = append(events, in.selectionEvent())
		}
		events = append(events, Event{Kind: EventOpEnd, Op: "marquee", Cancelled: true})
	}

	in.endGesture()
	return events
}

// Hover updates the idle hover state for cursor affordances. It is a
// no-op during a gesture.
func (in *Interaction) Hover(screen geom.Point) {
	if in.gesture != nil {
		return
	}
	in.updateHover(in.tr.ScreenToWorld(screen))
}

// HoverShapeID returns the shape under the cursor in a hover state.
func (in *Interaction) HoverShapeID() (string, bool) {
	return in.hoverID, in.hoverID != ""
}

func (in *Interaction) updateHover(world geom.Point) {
	in.hoverID = ""
	if len(in.store.Selection()) > 0 && in.HandleAt(world) != HandleNone {
		in.state = StateHoverHandle
		return
	}
	if s, ok := in.topShapeAt(world); ok {
		in.hoverID = s.ID
		if s.IsGroup() {
			in.state = StateHoverGroup
		} else {
			in.state = StateHoverElement
		}
		return
	}
	in.state = StateIdle
}

func (in *Interaction) currentOp() string {
	switch in.state {
	case StateDragMoving:
		return "move"
	case StateDragResizing:
		return "resize"
	case StateDragRotating:
		return "rotate"
	case StateDragMarqueeSelecting:
		return "marquee"
	}
	return ""
}

// buildEntry diffs the gesture snapshot against the store. Shapes whose
// geometry did not change, or that vanished mid-drag, are left out.
func (in *Interaction) buildEntry(kind string) (history.Entry, bool) {
	g := in.gesture
	entry := history.Entry{Kind: kind}
	for _, id := range g.order {
		s, ok := in.store.Get(id)
		if !ok {
			continue
		}
		if s.Geometry == g.origin[id] {
			continue
		}
		entry.Changes = append(entry.Changes, history.Change{
			ShapeID: id,
			Before:  g.origin[id],
			After:   s.Geometry,
		})
	}
	return entry, len(entry.Changes) > 0
}

func (in *Interaction) endGesture() {
	in.gesture = nil
	in.guides = nil
	in.snap.reset()
	in.state = StateIdle
}

func (in *Interaction) selectionEvent() Event {
	return Event{Kind: EventSelectionChanged, ShapeIDs: in.store.Selection()}
}
