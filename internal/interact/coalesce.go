package interact

import "github.com/arcboard/arcboard/backend-go/internal/geom"

// PointerEvent is one raw pointer sample from the input source.
type PointerEvent struct {
	Screen   geom.Point
	Additive bool // shift/ctrl held
}

// Coalescer buffers raw pointer-move samples between frames. Browsers and
// OS input stacks deliver moves far faster than the frame rate; only the
// latest sample matters for an absolute-position drag, so intermediate
// ones are dropped.
type Coalescer struct {
	pending PointerEvent
	has     bool
}

// Offer records a move sample, replacing any sample not yet consumed.
func (c *Coalescer) Offer(ev PointerEvent) {
	c.pending = ev
	c.has = true
}

// Take returns the buffered sample, if any, and clears the buffer. Call
// once per frame and feed the result to Interaction.PointerMove.
func (c *Coalescer) Take() (PointerEvent, bool) {
	if !c.has {
		return PointerEvent{}, false
	}
	c.has = false
	return c.pending, true
}
