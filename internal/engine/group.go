package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/arcboard/arcboard/backend-go/internal/document"
	"github.com/arcboard/arcboard/backend-go/internal/geom"
	"github.com/arcboard/arcboard/backend-go/internal/typeid"
)

var (
	// ErrMixedParents is returned when the shapes to group do not share a
	// common parent.
	ErrMixedParents = errors.New("shapes to group must share one parent")
	// ErrCycle is returned when a grouping or reparent would make a shape
	// its own transitive ancestor.
	ErrCycle = errors.New("grouping would create a parent cycle")
	// ErrTooFewShapes is returned when fewer than two valid shapes are
	// given to group.
	ErrTooFewShapes = errors.New("grouping needs at least two shapes")
)

// Groups keeps composite shapes consistent: a group's rect always equals
// the axis-aligned union of its children's world outlines, recomputed
// bottom-up after any descendant mutates.
type Groups struct {
	store document.Store
	geo   *Geometry
}

// NewGroups returns a group service over the given store.
func NewGroups(store document.Store, geo *Geometry) *Groups {
	return &Groups{store: store, geo: geo}
}

// GroupElements creates a new group shape whose bounds equal the
// rotation-aware union of the given shapes, reparents them under it, and
// selects it. All ids must exist and share one parent.
func (g *Groups) GroupElements(ids []string) (string, error) {
	shapes := make([]document.Shape, 0, len(ids))
	for _, id := range ids {
		s, ok := g.store.Get(id)
		if !ok {
			continue
		}
		shapes = append(shapes, s)
	}
	if len(shapes) < 2 {
		return "", ErrTooFewShapes
	}

	// A candidate nested under another candidate would become its own
	// transitive ancestor once both sit in the new group. Check this
	// before the parent rule so the failure names the real problem.
	candidates := make(map[string]bool, len(shapes))
	for _, s := range shapes {
		candidates[s.ID] = true
	}
	for _, s := range shapes {
		if anc := g.ancestorAmong(s.ParentID, candidates); anc != "" {
			return "", fmt.Errorf("%w: %s is nested under %s", ErrCycle, s.ID, anc)
		}
	}

	parentID := shapes[0].ParentID
	for _, s := range shapes[1:] {
		if s.ParentID != parentID {
			return "", fmt.Errorf("%w: %q vs %q", ErrMixedParents, parentID, s.ParentID)
		}
	}

	bounds := g.geo.SelectionBounds(idsOf(shapes))
	groupID := typeid.NewShapeID()

	zIndex := shapes[0].ZIndex
	for _, s := range shapes[1:] {
		if s.ZIndex > zIndex {
			zIndex = s.ZIndex
		}
	}

	// Reject before committing anything.
	for _, s := range shapes {
		if g.wouldCreateCycle(parentID, s.ID) {
			return "", fmt.Errorf("%w: shape %s", ErrCycle, s.ID)
		}
	}

	group := document.NewShape(groupID, document.ShapeGroup,
		bounds.X, bounds.Y, bounds.Width, bounds.Height)
	group.ZIndex = zIndex
	group.ParentID = parentID
	g.store.Insert(group)
	if parentID != "" {
		g.store.Reparent(groupID, parentID)
	}
	for _, s := range shapes {
		g.store.Reparent(s.ID, groupID)
	}

	g.BubbleUpdateGroupBounds(groupID)
	g.store.SetSelection([]string{groupID})
	return groupID, nil
}

// UngroupElement reparents the group's children to the group's former
// parent, deletes the group, and selects the freed children.
func (g *Groups) UngroupElement(id string) []string {
	group, ok := g.store.Get(id)
	if !ok || !group.IsGroup() {
		return nil
	}

	freed := make([]string, 0, len(group.Children))
	for _, cid := range group.Children {
		if _, ok := g.store.Get(cid); !ok {
			continue
		}
		g.store.Reparent(cid, group.ParentID)
		freed = append(freed, cid)
	}

	parentID := group.ParentID
	g.store.Delete(id)

	if parent, ok := g.store.Get(parentID); ok && parent.IsGroup() {
		g.RecomputeGroupBounds(parentID)
	}

	g.store.SetSelection(freed)
	return freed
}

// RecomputeGroupBounds rewrites the group's rect to the axis-aligned union
// of its direct children's world bounds.
func (g *Groups) RecomputeGroupBounds(id string) {
	group, ok := g.store.Get(id)
	if !ok || !group.IsGroup() || len(group.Children) == 0 {
		return
	}

	var bounds geom.Rect
	for _, cid := range group.Children {
		child, ok := g.store.Get(cid)
		if !ok {
			continue
		}
		bounds = bounds.Union(g.geo.ElementBoundsWorld(ElementOf(child)))
	}
	if bounds.IsEmpty() {
		return
	}

	geo := group.Geometry
	geo.X, geo.Y = bounds.X, bounds.Y
	geo.Width, geo.Height = bounds.Width, bounds.Height
	g.store.Update(id, geo)
}

// BubbleUpdateGroupBounds walks the parent chain upward from a changed
// shape, recomputing each ancestor group's bounds. It stops at the first
// non-group or missing ancestor; a visited set guards against corrupt
// parent cycles.
func (g *Groups) BubbleUpdateGroupBounds(id string) {
	visited := map[string]bool{}
	current, ok := g.store.Get(id)
	if !ok {
		return
	}
	for current.ParentID != "" && !visited[current.ParentID] {
		visited[current.ParentID] = true
		parent, ok := g.store.Get(current.ParentID)
		if !ok || !parent.IsGroup() {
			return
		}
		g.RecomputeGroupBounds(parent.ID)
		current = parent
	}
}

// MoveGroup shifts the group and every descendant by (dx, dy).
func (g *Groups) MoveGroup(id string, dx, dy float64) {
	group, ok := g.store.Get(id)
	if !ok {
		return
	}
	g.eachDescendant(group, map[string]bool{}, func(s document.Shape) {
		geo := s.Geometry
		geo.X += dx
		geo.Y += dy
		g.store.Update(s.ID, geo)
	})
	geo := group.Geometry
	geo.X += dx
	geo.Y += dy
	g.store.Update(id, geo)

	g.RecomputeGroupBounds(id)
	g.BubbleUpdateGroupBounds(id)
}

// ScaleGroup scales the group and every descendant by (fx, fy) around the
// group's own center.
func (g *Groups) ScaleGroup(id string, fx, fy float64) {
	group, ok := g.store.Get(id)
	if !ok || fx == 0 || fy == 0 {
		return
	}
	center := group.Geometry.Bounds().Center()

	g.eachDescendant(group, map[string]bool{}, func(s document.Shape) {
		geo := s.Geometry
		geo.X = center.X + (geo.X-center.X)*fx
		geo.Y = center.Y + (geo.Y-center.Y)*fy
		geo.Width *= fx
		geo.Height *= fy
		g.store.Update(s.ID, geo)
	})

	g.RecomputeGroupBounds(id)
	g.BubbleUpdateGroupBounds(id)
}

// RotateGroup rotates every descendant around the group's center: each
// shape's own center orbits the shared center and its rotation advances by
// the same delta.
func (g *Groups) RotateGroup(id string, deltaDegrees float64) {
	group, ok := g.store.Get(id)
	if !ok {
		return
	}
	center := group.Geometry.Bounds().Center()
	rad := deltaDegrees * math.Pi / 180

	g.eachDescendant(group, map[string]bool{}, func(s document.Shape) {
		geo := s.Geometry
		shapeCenter := geo.Bounds().Center()
		moved := shapeCenter.Rotate(center, rad)
		geo.X += moved.X - shapeCenter.X
		geo.Y += moved.Y - shapeCenter.Y
		geo.Rotation += deltaDegrees
		g.store.Update(s.ID, geo)
	})

	g.RecomputeGroupBounds(id)
	g.BubbleUpdateGroupBounds(id)
}

// eachDescendant applies fn to every descendant of the group, nested
// groups included. The visited set makes cycle-safety explicit even on
// corrupt data.
func (g *Groups) eachDescendant(group document.Shape, visited map[string]bool, fn func(document.Shape)) {
	for _, cid := range group.Children {
		if visited[cid] {
			continue
		}
		visited[cid] = true
		child, ok := g.store.Get(cid)
		if !ok {
			continue
		}
		fn(child)
		if child.IsGroup() {
			// Re-read after fn so nested recursion sees the mutation.
			if updated, ok := g.store.Get(cid); ok {
				g.eachDescendant(updated, visited, fn)
			}
		}
	}
}

// ancestorAmong climbs the parent chain from parentID and returns the
// first ancestor found in the given id set, or "" when the chain is clear.
func (g *Groups) ancestorAmong(parentID string, ids map[string]bool) string {
	visited := map[string]bool{}
	current := parentID
	for current != "" && !visited[current] {
		if ids[current] {
			return current
		}
		visited[current] = true
		s, ok := g.store.Get(current)
		if !ok {
			return ""
		}
		current = s.ParentID
	}
	return ""
}

// wouldCreateCycle walks the prospective parent's ancestor chain and
// reports whether the candidate child appears in it.
func (g *Groups) wouldCreateCycle(parentID, childID string) bool {
	visited := map[string]bool{}
	current := parentID
	for current != "" && !visited[current] {
		if current == childID {
			return true
		}
		visited[current] = true
		s, ok := g.store.Get(current)
		if !ok {
			return false
		}
		current = s.ParentID
	}
	return false
}

func idsOf(shapes []document.Shape) []string {
	ids := make([]string, len(shapes))
	for i, s := range shapes {
		ids[i] = s.ID
	}
	return ids
}
