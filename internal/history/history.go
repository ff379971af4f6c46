// Package history defines the undo-log contract the interaction core
// submits to. The core only constructs and pushes entries; replaying and
// reverting them is the log owner's job.
package history

import "github.com/arcboard/arcboard/backend-go/internal/document"

// Change records one shape's geometry before and after a gesture.
type Change struct {
	ShapeID string            `json:"shapeId"`
	Before  document.Geometry `json:"before"`
	After   document.Geometry `json:"after"`
}

// Entry is one undoable user gesture: a move, resize, or rotate touching
// one or more shapes.
type Entry struct {
	Kind    string   `json:"kind"` // "move", "resize", "rotate"
	Changes []Change `json:"changes"`
}

// Apply writes every change's after-state into the store.
func (e Entry) Apply(store document.Writer) {
	for _, c := range e.Changes {
		store.Update(c.ShapeID, c.After)
	}
}

// Revert writes every change's before-state into the store.
func (e Entry) Revert(store document.Writer) {
	for _, c := range e.Changes {
		store.Update(c.ShapeID, c.Before)
	}
}

// Log is the two-method interface the interaction core consumes.
type Log interface {
	Push(Entry)
	Clear()
}

// MemLog is an in-memory Log with undo/redo stacks, used by the editor
// runtime and by tests.
type MemLog struct {
	undo []Entry
	redo []Entry
}

// NewMemLog returns an empty log.
func NewMemLog() *MemLog {
	return &MemLog{}
}

func (l *MemLog) Push(e Entry) {
	l.undo = append(l.undo, e)
	l.redo = l.redo[:0]
}

func (l *MemLog) Clear() {
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
}

// Len returns the number of undoable entries.
func (l *MemLog) Len() int {
	return len(l.undo)
}

// Undo reverts the newest entry against the store and returns it.
func (l *MemLog) Undo(store document.Writer) (Entry, bool) {
	if len(l.undo) == 0 {
		return Entry{}, false
	}
	e := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	e.Revert(store)
	l.redo = append(l.redo, e)
	return e, true
}

// Redo reapplies the newest undone entry against the store and returns it.
func (l *MemLog) Redo(store document.Writer) (Entry, bool) {
	if len(l.redo) == 0 {
		return Entry{}, false
	}
	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	e.Apply(store)
	l.undo = append(l.undo, e)
	return e, true
}
