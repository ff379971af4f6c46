package collab

import (
	"strings"
	"testing"

	"github.com/arcboard/arcboard/backend-go/internal/document"
)

func testBoard() document.Board {
	group := document.NewShape("grp", document.ShapeGroup, 0, 0, 100, 100)
	group.Children = []string{"child"}
	child := document.NewShape("child", document.ShapeRectangle, 10, 10, 20, 20)
	child.ParentID = "grp"
	return document.Board{
		ID:   "board_1",
		Name: "untitled",
		Shapes: []document.Shape{
			group,
			child,
			document.NewShape("solo", document.ShapeRectangle, 200, 200, 50, 50),
		},
	}
}

func TestApplyTransform(t *testing.T) {
	bs := NewBoardState(testBoard())

	g := document.Geometry{X: 300, Y: 300, Width: 50, Height: 50, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}
	seq, err := bs.ApplyOperation(Operation{
		ID:      "op1",
		Type:    OpShapeTransform,
		Changes: []GeometryChange{{ShapeID: "solo", Geometry: g}},
	})
	if err != nil {
		t.Fatalf("ApplyOperation: %v", err)
	}
	if seq != 1 {
		t.Errorf("serverSeq = %d, want 1", seq)
	}

	board := bs.Board()
	for _, s := range board.Shapes {
		if s.ID == "solo" && s.Geometry.X != 300 {
			t.Errorf("solo x = %v, want 300", s.Geometry.X)
		}
	}
}

func TestApplyTransformUnknownShape(t *testing.T) {
	bs := NewBoardState(testBoard())

	_, err := bs.ApplyOperation(Operation{
		ID:      "op1",
		Type:    OpShapeTransform,
		Changes: []GeometryChange{{ShapeID: "ghost"}},
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want shape-not-found", err)
	}
	if bs.ServerSeq() != 0 {
		t.Errorf("rejected op advanced serverSeq to %d", bs.ServerSeq())
	}
	if ops := bs.Drain(); len(ops) != 0 {
		t.Errorf("rejected op reached the log: %v", ops)
	}
}

func TestApplyCreateAndDuplicate(t *testing.T) {
	bs := NewBoardState(testBoard())

	fresh := document.NewShape("fresh", document.ShapeEllipse, 0, 0, 30, 30)
	if _, err := bs.ApplyOperation(Operation{ID: "op1", Type: OpShapeCreate, Shape: &fresh}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := bs.ApplyOperation(Operation{ID: "op2", Type: OpShapeCreate, Shape: &fresh}); err == nil {
		t.Fatal("duplicate create accepted")
	}

	t.Run("create into group", func(t *testing.T) {
		nested := document.NewShape("nested", document.ShapeRectangle, 5, 5, 10, 10)
		if _, err := bs.ApplyOperation(Operation{ID: "op3", Type: OpShapeCreate, Shape: &nested, ParentID: "grp"}); err != nil {
			t.Fatalf("create into group: %v", err)
		}
		for _, s := range bs.Board().Shapes {
			if s.ID == "nested" && s.ParentID != "grp" {
				t.Errorf("nested parent = %q, want grp", s.ParentID)
			}
		}
	})
}

func TestApplyDeleteGroupFreesMembers(t *testing.T) {
	bs := NewBoardState(testBoard())

	if _, err := bs.ApplyOperation(Operation{ID: "op1", Type: OpShapeDelete, ShapeID: "grp"}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var child *document.Shape
	for _, s := range bs.Board().Shapes {
		s := s
		if s.ID == "grp" {
			t.Error("group still present after delete")
		}
		if s.ID == "child" {
			child = &s
		}
	}
	if child == nil {
		t.Fatal("group member was deleted with its group")
	}
	if child.ParentID != "" {
		t.Errorf("freed member parent = %q, want root", child.ParentID)
	}
}

func TestApplyReparent(t *testing.T) {
	bs := NewBoardState(testBoard())

	if _, err := bs.ApplyOperation(Operation{ID: "op1", Type: OpShapeReparent, ShapeID: "solo", NewParentID: "grp"}); err != nil {
		t.Fatalf("reparent: %v", err)
	}
	for _, s := range bs.Board().Shapes {
		if s.ID == "solo" && s.ParentID != "grp" {
			t.Errorf("solo parent = %q, want grp", s.ParentID)
		}
	}

	t.Run("non-group parent rejected", func(t *testing.T) {
		_, err := bs.ApplyOperation(Operation{ID: "op2", Type: OpShapeReparent, ShapeID: "child", NewParentID: "solo"})
		if err == nil {
			t.Fatal("reparent under a plain shape accepted")
		}
	})
}

func TestApplyReparentRejectsCycle(t *testing.T) {
	outer := document.NewShape("outer", document.ShapeGroup, 0, 0, 200, 200)
	outer.Children = []string{"inner"}
	inner := document.NewShape("inner", document.ShapeGroup, 10, 10, 100, 100)
	inner.ParentID = "outer"
	inner.Children = []string{"leaf"}
	leaf := document.NewShape("leaf", document.ShapeRectangle, 20, 20, 30, 30)
	leaf.ParentID = "inner"

	bs := NewBoardState(document.Board{
		ID:     "board_1",
		Name:   "untitled",
		Shapes: []document.Shape{outer, inner, leaf},
	})

	t.Run("shape under own descendant", func(t *testing.T) {
		_, err := bs.ApplyOperation(Operation{ID: "op1", Type: OpShapeReparent, ShapeID: "outer", NewParentID: "inner"})
		if err == nil || !strings.Contains(err.Error(), "cycle") {
			t.Fatalf("err = %v, want cycle rejection", err)
		}
	})

	t.Run("shape under itself", func(t *testing.T) {
		_, err := bs.ApplyOperation(Operation{ID: "op2", Type: OpShapeReparent, ShapeID: "inner", NewParentID: "inner"})
		if err == nil || !strings.Contains(err.Error(), "cycle") {
			t.Fatalf("err = %v, want cycle rejection", err)
		}
	})

	// The store keeps its original hierarchy and the rejected ops never
	// reached the log.
	for _, s := range bs.Board().Shapes {
		switch s.ID {
		case "outer":
			if s.ParentID != "" {
				t.Errorf("outer parent = %q, want root", s.ParentID)
			}
		case "inner":
			if s.ParentID != "outer" {
				t.Errorf("inner parent = %q, want outer", s.ParentID)
			}
		}
	}
	if seq := bs.ServerSeq(); seq != 0 {
		t.Errorf("serverSeq = %d, want 0", seq)
	}
	if ops := bs.Drain(); len(ops) != 0 {
		t.Errorf("op log holds %d entries, want 0", len(ops))
	}
}

func TestApplyVisibility(t *testing.T) {
	bs := NewBoardState(testBoard())

	hidden := false
	if _, err := bs.ApplyOperation(Operation{ID: "op1", Type: OpShapeVisibility, ShapeID: "solo", Visible: &hidden}); err != nil {
		t.Fatalf("visibility: %v", err)
	}
	for _, s := range bs.Board().Shapes {
		if s.ID == "solo" && s.Visible {
			t.Error("solo still visible")
		}
	}
}

func TestApplyBoardRename(t *testing.T) {
	bs := NewBoardState(testBoard())

	if _, err := bs.ApplyOperation(Operation{ID: "op1", Type: OpBoardRename, Name: "roadmap"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := bs.Board().Name; got != "roadmap" {
		t.Errorf("name = %q, want roadmap", got)
	}
}

func TestApplyUnknownType(t *testing.T) {
	bs := NewBoardState(testBoard())
	if _, err := bs.ApplyOperation(Operation{ID: "op1", Type: "shape.explode"}); err == nil {
		t.Fatal("unknown op type accepted")
	}
}

func TestDrainClearsLog(t *testing.T) {
	bs := NewBoardState(testBoard())

	g := document.Geometry{X: 1, Width: 50, Height: 50, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}
	bs.ApplyOperation(Operation{ID: "op1", Type: OpShapeTransform, Changes: []GeometryChange{{ShapeID: "solo", Geometry: g}}})
	bs.ApplyOperation(Operation{ID: "op2", Type: OpBoardRename, Name: "renamed"})

	ops := bs.Drain()
	if len(ops) != 2 {
		t.Fatalf("drained %d ops, want 2", len(ops))
	}
	if ops[0].ID != "op1" || ops[1].ID != "op2" {
		t.Errorf("drain order = %s, %s", ops[0].ID, ops[1].ID)
	}
	if again := bs.Drain(); len(again) != 0 {
		t.Errorf("second drain returned %d ops", len(again))
	}
	if bs.ServerSeq() != 2 {
		t.Errorf("serverSeq = %d, want 2", bs.ServerSeq())
	}
}
