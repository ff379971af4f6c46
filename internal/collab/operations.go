package collab

import (
	"fmt"
	"sync"
	"time"

	"github.com/arcboard/arcboard/backend-go/internal/document"
)

// BoardState holds the authoritative board for one room. Clients submit
// operations; the state applies them in arrival order and stamps each with
// a server sequence number.
type BoardState struct {
	mu        sync.RWMutex
	name      string
	boardID   string
	store     *document.MemStore
	serverSeq int64
	opLog     []Operation // applied history, flushed to persistence
}

// NewBoardState creates room state from an initial board snapshot.
func NewBoardState(board document.Board) *BoardState {
	store := document.NewMemStore()
	store.Reset(board.Shapes)
	return &BoardState{
		name:    board.Name,
		boardID: board.ID,
		store:   store,
	}
}

// Board returns a snapshot of the current board.
func (bs *BoardState) Board() document.Board {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return document.Board{
		ID:     bs.boardID,
		Name:   bs.name,
		Shapes: bs.store.All(),
	}
}

// ServerSeq returns the sequence number of the last applied operation.
func (bs *BoardState) ServerSeq() int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.serverSeq
}

// OpLog returns the applied operations since the last Drain call.
func (bs *BoardState) Drain() []Operation {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	out := bs.opLog
	bs.opLog = nil
	return out
}

// ApplyOperation applies an operation and returns its server sequence.
func (bs *BoardState) ApplyOperation(op Operation) (int64, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if err := bs.applyLocked(op); err != nil {
		return 0, err
	}

	bs.serverSeq++
	bs.opLog = append(bs.opLog, op)
	return bs.serverSeq, nil
}

func (bs *BoardState) applyLocked(op Operation) error {
	switch op.Type {
	case OpShapeTransform:
		return bs.applyTransform(op)
	case OpShapeCreate:
		return bs.applyCreate(op)
	case OpShapeDelete:
		return bs.applyDelete(op)
	case OpShapeReparent:
		return bs.applyReparent(op)
	case OpShapeVisibility:
		return bs.applyVisibility(op)
	case OpBoardRename:
		bs.name = op.Name
		return nil
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (bs *BoardState) applyTransform(op Operation) error {
	if len(op.Changes) == 0 {
		return fmt.Errorf("transform without changes")
	}
	ups := make([]document.Update, 0, len(op.Changes))
	for _, c := range op.Changes {
		if _, ok := bs.store.Get(c.ShapeID); !ok {
			return fmt.Errorf("shape not found: %s", c.ShapeID)
		}
		ups = append(ups, document.Update{ID: c.ShapeID, Geometry: c.Geometry})
	}
	bs.store.UpdateMany(ups)
	return nil
}

func (bs *BoardState) applyCreate(op Operation) error {
	if op.Shape == nil {
		return fmt.Errorf("create without shape")
	}
	if _, exists := bs.store.Get(op.Shape.ID); exists {
		return fmt.Errorf("shape already exists: %s", op.Shape.ID)
	}
	bs.store.Insert(*op.Shape)
	if op.ParentID != "" {
		bs.store.Reparent(op.Shape.ID, op.ParentID)
	}
	return nil
}

func (bs *BoardState) applyDelete(op Operation) error {
	s, ok := bs.store.Get(op.ShapeID)
	if !ok {
		return fmt.Errorf("shape not found: %s", op.ShapeID)
	}
	// Detach first so the parent's child list stays clean.
	if s.ParentID != "" {
		bs.store.Reparent(op.ShapeID, "")
	}
	// Deleting a group frees its members rather than deleting them.
	for _, child := range s.Children {
		bs.store.Reparent(child, s.ParentID)
	}
	bs.store.Delete(op.ShapeID)
	return nil
}

func (bs *BoardState) applyReparent(op Operation) error {
	if _, ok := bs.store.Get(op.ShapeID); !ok {
		return fmt.Errorf("shape not found: %s", op.ShapeID)
	}
	if op.NewParentID != "" {
		parent, ok := bs.store.Get(op.NewParentID)
		if !ok {
			return fmt.Errorf("new parent not found: %s", op.NewParentID)
		}
		if !parent.IsGroup() {
			return fmt.Errorf("new parent is not a group: %s", op.NewParentID)
		}
		// The parent chain must stay acyclic; a shape reparented under
		// its own descendant would corrupt every ancestor walk.
		if bs.inAncestorChain(op.NewParentID, op.ShapeID) {
			return fmt.Errorf("reparent would create a cycle: %s under %s", op.ShapeID, op.NewParentID)
		}
	}
	bs.store.Reparent(op.ShapeID, op.NewParentID)
	return nil
}

// inAncestorChain reports whether shapeID appears in startID's parent
// chain, startID included.
func (bs *BoardState) inAncestorChain(startID, shapeID string) bool {
	visited := map[string]bool{}
	current := startID
	for current != "" && !visited[current] {
		if current == shapeID {
			return true
		}
		visited[current] = true
		s, ok := bs.store.Get(current)
		if !ok {
			return false
		}
		current = s.ParentID
	}
	return false
}

func (bs *BoardState) applyVisibility(op Operation) error {
	s, ok := bs.store.Get(op.ShapeID)
	if !ok {
		return fmt.Errorf("shape not found: %s", op.ShapeID)
	}
	if op.Visible != nil {
		s.Visible = *op.Visible
		bs.store.Insert(s)
	}
	return nil
}

// GetServerTimestamp returns the current server timestamp.
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
