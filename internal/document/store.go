package document

import (
	"sort"

	"github.com/arcboard/arcboard/backend-go/internal/geom"
)

// Update pairs a shape id with its replacement geometry.
type Update struct {
	ID       string   `json:"id"`
	Geometry Geometry `json:"geometry"`
}

// Reader is the read capability handed to geometry components.
type Reader interface {
	// Get returns the shape and true, or the zero shape and false when the
	// id is unknown.
	Get(id string) (Shape, bool)
	// All returns every shape in stacking order (ascending ZIndex). The
	// slice is a copy; callers may not mutate the store through it.
	All() []Shape
}

// Writer adds geometry mutation on top of Reader. Rotation is normalized
// into [0, 360) on every write.
type Writer interface {
	Reader
	Update(id string, g Geometry)
	UpdateMany(updates []Update)
}

// Selector owns the current selection. Ids of deleted shapes are pruned
// lazily on read.
type Selector interface {
	Selection() []string
	SetSelection(ids []string)
	AddToSelection(id string)
	RemoveFromSelection(id string)
}

// Store is the full shape store contract: geometry writes, selection, and
// the structural mutations grouping needs.
type Store interface {
	Writer
	Selector
	Insert(s Shape)
	Delete(id string)
	Reparent(id, parentID string)
}

// MemStore is the in-memory Store used by the editor runtime and by tests.
// It is not safe for concurrent use; the single-threaded event loop is the
// exclusivity guarantee.
type MemStore struct {
	shapes    map[string]*Shape
	order     []string // insertion order, tie-break for equal ZIndex
	selection []string
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{shapes: make(map[string]*Shape)}
}

// Reset replaces the store contents with the given shapes and clears the
// selection.
func (m *MemStore) Reset(shapes []Shape) {
	m.shapes = make(map[string]*Shape, len(shapes))
	m.order = m.order[:0]
	m.selection = m.selection[:0]
	for _, s := range shapes {
		m.Insert(s)
	}
}

func (m *MemStore) Get(id string) (Shape, bool) {
	s, ok := m.shapes[id]
	if !ok {
		return Shape{}, false
	}
	return *s, true
}

func (m *MemStore) All() []Shape {
	out := make([]Shape, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.shapes[id]; ok {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

func (m *MemStore) Update(id string, g Geometry) {
	s, ok := m.shapes[id]
	if !ok {
		return
	}
	g.Rotation = geom.NormalizeDegrees(g.Rotation)
	s.Geometry = g
}

func (m *MemStore) UpdateMany(updates []Update) {
	for _, u := range updates {
		m.Update(u.ID, u.Geometry)
	}
}

func (m *MemStore) Insert(s Shape) {
	if _, exists := m.shapes[s.ID]; !exists {
		m.order = append(m.order, s.ID)
	}
	s.Geometry.Rotation = geom.NormalizeDegrees(s.Geometry.Rotation)
	cp := s
	m.shapes[s.ID] = &cp
}

func (m *MemStore) Delete(id string) {
	delete(m.shapes, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *MemStore) Reparent(id, parentID string) {
	s, ok := m.shapes[id]
	if !ok {
		return
	}

	// Detach from the previous parent's child list.
	if s.ParentID != "" {
		if old, ok := m.shapes[s.ParentID]; ok {
			kept := old.Children[:0]
			for _, cid := range old.Children {
				if cid != id {
					kept = append(kept, cid)
				}
			}
			old.Children = kept
		}
	}

	s.ParentID = parentID
	if parentID != "" {
		if parent, ok := m.shapes[parentID]; ok {
			parent.Children = append(parent.Children, id)
		}
	}
}

func (m *MemStore) Selection() []string {
	kept := m.selection[:0]
	for _, id := range m.selection {
		if _, ok := m.shapes[id]; ok {
			kept = append(kept, id)
		}
	}
	m.selection = kept
	out := make([]string, len(kept))
	copy(out, kept)
	return out
}

func (m *MemStore) SetSelection(ids []string) {
	m.selection = m.selection[:0]
	for _, id := range ids {
		if _, ok := m.shapes[id]; ok {
			m.selection = append(m.selection, id)
		}
	}
}

func (m *MemStore) AddToSelection(id string) {
	if _, ok := m.shapes[id]; !ok {
		return
	}
	for _, sid := range m.selection {
		if sid == id {
			return
		}
	}
	m.selection = append(m.selection, id)
}

func (m *MemStore) RemoveFromSelection(id string) {
	for i, sid := range m.selection {
		if sid == id {
			m.selection = append(m.selection[:i], m.selection[i+1:]...)
			return
		}
	}
}
