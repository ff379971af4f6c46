// Package interact turns a stream of pointer events into selection
// changes, drag-moves, resizes, rotations, and marquee selection with
// snapping guides. All of it runs synchronously inside the event loop;
// transitions return inspectable events instead of firing callbacks.
package interact

// State names the interaction sub-state. Any Drag* state returns to
// StateIdle on pointer-up or cancel; there is no permanent terminal state.
type State int

const (
	StateIdle State = iota
	StateIdleButPotentialMove
	StateIdleButPotentialMarquee
	StateHoverElement
	StateHoverGroup
	StateHoverHandle
	StateDragMoving
	StateDragResizing
	StateDragRotating
	StateDragMarqueeSelecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIdleButPotentialMove:
		return "idle-potential-move"
	case StateIdleButPotentialMarquee:
		return "idle-potential-marquee"
	case StateHoverElement:
		return "hover-element"
	case StateHoverGroup:
		return "hover-group"
	case StateHoverHandle:
		return "hover-handle"
	case StateDragMoving:
		return "drag-moving"
	case StateDragResizing:
		return "drag-resizing"
	case StateDragRotating:
		return "drag-rotating"
	case StateDragMarqueeSelecting:
		return "drag-marquee"
	default:
		return "unknown"
	}
}

// dragging reports whether the state holds the gesture's advisory lock.
func (s State) dragging() bool {
	switch s {
	case StateDragMoving, StateDragResizing, StateDragRotating, StateDragMarqueeSelecting:
		return true
	}
	return false
}

// Config holds the tunable interaction thresholds. All values are screen
// pixels; they are divided by the current zoom wherever a world-space
// comparison is made, so affordances keep a constant visual size.
type Config struct {
	// HandleSize is the hit radius of resize/rotate handles.
	HandleSize float64
	// RotateHandleOffset is how far above the top edge the rotation handle
	// floats.
	RotateHandleOffset float64
	// ActivationThreshold is the pointer travel needed before a press
	// promotes to a drag; below it the gesture is a plain click.
	ActivationThreshold float64
	// SnapThreshold is the distance at which a snap candidate engages.
	SnapThreshold float64
	// SnapReleaseThreshold is the larger distance at which an engaged snap
	// lets go. Keeping it above SnapThreshold stops guide flicker.
	SnapReleaseThreshold float64
	// SnapToCanvasCenter also offers the content-bounds center as a snap
	// target.
	SnapToCanvasCenter bool
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		HandleSize:           8,
		RotateHandleOffset:   24,
		ActivationThreshold:  2,
		SnapThreshold:        5,
		SnapReleaseThreshold: 8,
		SnapToCanvasCenter:   true,
	}
}

// EventKind labels an event emitted by a transition.
type EventKind string

const (
	EventSelectionChanged EventKind = "selection.changed"
	EventOpStart          EventKind = "op.start"
	EventOpUpdate         EventKind = "op.update"
	EventOpEnd            EventKind = "op.end"
)

// Event is a notification produced by a transition. The renderer and the
// collaboration layer consume these; nothing in the core reads them back.
type Event struct {
	Kind      EventKind `json:"kind"`
	Op        string    `json:"op,omitempty"` // "move", "resize", "rotate", "marquee"
	ShapeIDs  []string  `json:"shapeIds,omitempty"`
	DX        float64   `json:"dx,omitempty"`
	DY        float64   `json:"dy,omitempty"`
	Cancelled bool      `json:"cancelled,omitempty"`
}
