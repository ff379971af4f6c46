// Package editor assembles the board runtime: the shape store, geometry
// services, the pointer state machine, and the undo log. It exposes the
// command/query surface the WASM bridge and the collaboration layer call.
package editor

import (
	"encoding/json"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/engine"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
	"github.com/arcboard/arcboard/backend-go/internal/history"
	"github.com/arcboard/arcboard/backend-go/internal/interact"
)

// viewportState is the mutable viewport backing engine.ViewportState.
type viewportState struct {
	zoom          float64
	offset        geom.Point
	canvasRect    geom.Rect
	contentBounds geom.Rect
}

func (v *viewportState) Zoom() float64            { return v.zoom }
func (v *viewportState) Offset() geom.Point       { return v.offset }
func (v *viewportState) CanvasRect() geom.Rect    { return v.canvasRect }
func (v *viewportState) ContentBounds() geom.Rect { return v.contentBounds }

// Editor owns one open board and all interaction state for it.
type Editor struct {
	boardID   string
	boardName string

	store    *document.MemStore
	vp       *viewportState
	geo      *engine.Geometry
	groups   *engine.Groups
	viewport *engine.Viewport
	tr       *engine.Transformer
	log      *history.MemLog

	interaction *interact.Interaction
	coalescer   interact.Coalescer
}

// New creates an editor over an empty board.
func New(cfg interact.Config) *Editor {
	store := document.NewMemStore()
	return newWith(cfg, store)
}

// NewWithSampleBoard creates an editor pre-loaded with the demo shapes.
func NewWithSampleBoard(cfg interact.Config) *Editor {
	return newWith(cfg, document.NewSampleBoard())
}

func newWith(cfg interact.Config, store *document.MemStore) *Editor {
	vp := &viewportState{
		zoom:          1,
		canvasRect:    geom.Rect{Width: 1280, Height: 720},
		contentBounds: geom.Rect{Width: 1280, Height: 720},
	}
	geo := engine.NewGeometry(store)
	log := history.NewMemLog()
	return &Editor{
		store:       store,
		vp:          vp,
		geo:         geo,
		groups:      engine.NewGroups(store, geo),
		viewport:    engine.NewViewport(vp, geo),
		tr:          engine.NewTransformer(vp),
		log:         log,
		interaction: interact.New(cfg, store, vp, log),
	}
}

// Store exposes the shape store for persistence and collaboration glue.
func (e *Editor) Store() *document.MemStore { return e.store }

// --- Document commands ---

// LoadBoard replaces the open board from JSON. Interaction state and the
// undo log are reset; a board swap is not undoable.
func (e *Editor) LoadBoard(jsonData string) error {
	var board document.Board
	if err := json.Unmarshal([]byte(jsonData), &board); err != nil {
		return err
	}
	e.boardID = board.ID
	e.boardName = board.Name
	e.store.Reset(board.Shapes)
	e.log.Clear()
	e.coalescer = interact.Coalescer{}
	e.interaction.Cancel()
	return nil
}

// Board returns the open board as a serializable snapshot.
func (e *Editor) Board() document.Board {
	return document.Board{
		ID:     e.boardID,
		Name:   e.boardName,
		Shapes: e.store.All(),
	}
}

// BoardJSON returns the open board as JSON.
func (e *Editor) BoardJSON() string {
	data, _ := json.Marshal(e.Board())
	return string(data)
}

// --- Viewport commands ---

// SetZoom clamps and applies the zoom level.
func (e *Editor) SetZoom(zoom float64) {
	if zoom < 0.05 {
		zoom = 0.05
	}
	if zoom > 32 {
		zoom = 32
	}
	e.vp.zoom = zoom
}

// SetOffset sets the world point shown at the canvas top-left.
func (e *Editor) SetOffset(x, y float64) {
	e.vp.offset = geom.Pt(x, y)
}

// SetCanvasRect records the canvas element's screen rect.
func (e *Editor) SetCanvasRect(x, y, w, h float64) {
	e.vp.canvasRect = geom.Rect{X: x, Y: y, Width: w, Height: h}
}

// SetContentBounds records the board content area used as a snap target.
func (e *Editor) SetContentBounds(x, y, w, h float64) {
	e.vp.contentBounds = geom.Rect{X: x, Y: y, Width: w, Height: h}
}

// --- Pointer commands (frontend → backend) ---

// PointerDown forwards a press directly; presses are never coalesced.
func (e *Editor) PointerDown(x, y float64, additive bool) []interact.Event {
	return e.interaction.PointerDown(geom.Pt(x, y), additive)
}

// PointerMove buffers a move sample for the next frame tick.
func (e *Editor) PointerMove(x, y float64, additive bool) {
	e.coalescer.Offer(interact.PointerEvent{Screen: geom.Pt(x, y), Additive: additive})
}

// PointerUp flushes any pending move first so the release lands on the
// final sampled position.
func (e *Editor) PointerUp(x, y float64) []interact.Event {
	events := e.flushMoves()
	return append(events, e.interaction.PointerUp(geom.Pt(x, y))...)
}

// CancelGesture aborts the active gesture and rolls the shapes back.
func (e *Editor) CancelGesture() []interact.Event {
	e.coalescer = interact.Coalescer{}
	return e.interaction.Cancel()
}

// Tick is called once per animation frame; it applies the latest buffered
// pointer move and returns the resulting events.
func (e *Editor) Tick() []interact.Event {
	return e.flushMoves()
}

func (e *Editor) flushMoves() []interact.Event {
	ev, ok := e.coalescer.Take()
	if !ok {
		return nil
	}
	return e.interaction.PointerMove(ev.Screen)
}

// --- Selection and structure commands ---

// SetSelection replaces the selection, silently dropping unknown ids.
func (e *Editor) SetSelection(ids []string) {
	e.store.SetSelection(ids)
}

// GroupSelection groups the selected shapes and selects the group.
func (e *Editor) GroupSelection() (string, error) {
	return e.groups.GroupElements(e.store.Selection())
}

// UngroupSelection dissolves every selected group and selects the freed
// members.
func (e *Editor) UngroupSelection() []string {
	var freed []string
	for _, id := range e.store.Selection() {
		if s, ok := e.store.Get(id); ok && s.IsGroup() {
			freed = append(freed, e.groups.UngroupElement(id)...)
		}
	}
	if len(freed) > 0 {
		e.store.SetSelection(freed)
	}
	return freed
}

// Undo reverts the most recent gesture, if any.
func (e *Editor) Undo() bool {
	_, ok := e.log.Undo(e.store)
	return ok
}

// Redo re-applies the most recently undone gesture, if any.
func (e *Editor) Redo() bool {
	_, ok := e.log.Redo(e.store)
	return ok
}

// --- Queries (frontend ← backend) ---

// State returns the interaction state name.
func (e *Editor) State() string {
	return e.interaction.State().String()
}

// GetSelection returns the selected ids as JSON.
func (e *Editor) GetSelection() string {
	data, _ := json.Marshal(e.store.Selection())
	return string(data)
}

// GetSelectionBounds returns the selection's axis-aligned bounds as JSON.
func (e *Editor) GetSelectionBounds() string {
	data, _ := json.Marshal(e.geo.SelectionBounds(e.store.Selection()))
	return string(data)
}

// GetSelectionOrientedBox returns the selection's minimum rotated bounding
// box as JSON.
func (e *Editor) GetSelectionOrientedBox() string {
	data, _ := json.Marshal(e.geo.SelectionOrientedBox(e.store.Selection()))
	return string(data)
}

// GetHandles returns the selection grip positions as JSON.
func (e *Editor) GetHandles() string {
	type handleJSON struct {
		Handle string     `json:"handle"`
		Point  geom.Point `json:"point"`
	}
	hs := e.interaction.HandlePositions()
	out := make([]handleJSON, len(hs))
	for i, h := range hs {
		out[i] = handleJSON{Handle: h.Handle.String(), Point: h.Point}
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// GetGuidelines returns the active snap guides as JSON.
func (e *Editor) GetGuidelines() string {
	data, _ := json.Marshal(e.interaction.Guidelines())
	return string(data)
}

// GetMarquee returns the live marquee rect as JSON, or "null".
func (e *Editor) GetMarquee() string {
	r, ok := e.interaction.MarqueeRect()
	if !ok {
		return "null"
	}
	data, _ := json.Marshal(r)
	return string(data)
}

// HitTest returns the id of the top-most shape at a screen point, or "".
func (e *Editor) HitTest(x, y float64) string {
	world := e.tr.ScreenToWorld(geom.Pt(x, y))
	for _, s := range reversed(e.store.All()) {
		if s.ParentID != "" || !s.Visible {
			continue
		}
		el := engine.ElementOf(s)
		if s.IsGroup() {
			if e.geo.ElementBoundsWorld(el).Contains(world) {
				return s.ID
			}
			continue
		}
		if e.geo.IsPointInElement(el, world) {
			return s.ID
		}
	}
	return ""
}

// VisibleWorldBounds returns the world rect currently on screen.
func (e *Editor) VisibleWorldBounds() geom.Rect {
	return e.viewport.VisibleWorldBounds()
}

func reversed(shapes []document.Shape) []document.Shape {
	out := make([]document.Shape, len(shapes))
	for i, s := range shapes {
		out[len(shapes)-1-i] = s
	}
	return out
}
