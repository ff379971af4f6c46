package document

import (
	"testing"
)

func TestAllStackingOrder(t *testing.T) {
	store := NewMemStore()

	a := NewShape("a", ShapeRectangle, 0, 0, 10, 10)
	b := NewShape("b", ShapeRectangle, 0, 0, 10, 10)
	c := NewShape("c", ShapeRectangle, 0, 0, 10, 10)
	b.ZIndex = 5
	store.Insert(a)
	store.Insert(b)
	store.Insert(c)

	got := store.All()
	want := []string{"a", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("All() returned %d shapes, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("All()[%d] = %s, want %s (equal z keeps insertion order)", i, s.ID, want[i])
		}
	}
}

func TestUpdateNormalizesRotation(t *testing.T) {
	store := NewMemStore()
	store.Insert(NewShape("a", ShapeRectangle, 0, 0, 10, 10))

	tests := []struct {
		name     string
		rotation float64
		want     float64
	}{
		{"positive wrap", 370, 10},
		{"negative wrap", -90, 270},
		{"full turn", 360, 0},
		{"in range untouched", 123.5, 123.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Geometry{X: 0, Y: 0, Width: 10, Height: 10, Rotation: tt.rotation, ScaleX: 1, ScaleY: 1, PivotX: 0.5, PivotY: 0.5}
			store.Update("a", g)
			s, _ := store.Get("a")
			if s.Geometry.Rotation != tt.want {
				t.Errorf("rotation = %v, want %v", s.Geometry.Rotation, tt.want)
			}
		})
	}

	t.Run("unknown id ignored", func(t *testing.T) {
		store.Update("ghost", Geometry{X: 99})
		if _, ok := store.Get("ghost"); ok {
			t.Error("Update created a shape")
		}
	})
}

func TestGetReturnsCopy(t *testing.T) {
	store := NewMemStore()
	store.Insert(NewShape("a", ShapeRectangle, 0, 0, 10, 10))

	s, _ := store.Get("a")
	s.Geometry.X = 999

	fresh, _ := store.Get("a")
	if fresh.Geometry.X != 0 {
		t.Error("mutating a returned shape leaked into the store")
	}
}

func TestReparentMaintainsChildLists(t *testing.T) {
	store := NewMemStore()
	store.Insert(NewShape("g1", ShapeGroup, 0, 0, 100, 100))
	store.Insert(NewShape("g2", ShapeGroup, 0, 0, 100, 100))
	store.Insert(NewShape("a", ShapeRectangle, 0, 0, 10, 10))

	store.Reparent("a", "g1")
	g1, _ := store.Get("g1")
	if len(g1.Children) != 1 || g1.Children[0] != "a" {
		t.Fatalf("g1 children = %v, want [a]", g1.Children)
	}

	// Moving to a new parent detaches from the old one.
	store.Reparent("a", "g2")
	g1, _ = store.Get("g1")
	g2, _ := store.Get("g2")
	if len(g1.Children) != 0 {
		t.Errorf("g1 children = %v, want empty after move", g1.Children)
	}
	if len(g2.Children) != 1 || g2.Children[0] != "a" {
		t.Errorf("g2 children = %v, want [a]", g2.Children)
	}

	// Reparenting to root clears ParentID.
	store.Reparent("a", "")
	a, _ := store.Get("a")
	if a.ParentID != "" {
		t.Errorf("a parent = %q, want root", a.ParentID)
	}
	g2, _ = store.Get("g2")
	if len(g2.Children) != 0 {
		t.Errorf("g2 children = %v, want empty", g2.Children)
	}
}

func TestSelectionPrunesDeleted(t *testing.T) {
	store := NewMemStore()
	store.Insert(NewShape("a", ShapeRectangle, 0, 0, 10, 10))
	store.Insert(NewShape("b", ShapeRectangle, 0, 0, 10, 10))
	store.SetSelection([]string{"a", "b"})

	store.Delete("a")
	sel := store.Selection()
	if len(sel) != 1 || sel[0] != "b" {
		t.Errorf("selection = %v, want [b]", sel)
	}
}

func TestSelectionEdits(t *testing.T) {
	store := NewMemStore()
	store.Insert(NewShape("a", ShapeRectangle, 0, 0, 10, 10))
	store.Insert(NewShape("b", ShapeRectangle, 0, 0, 10, 10))

	t.Run("set drops unknown ids", func(t *testing.T) {
		store.SetSelection([]string{"a", "ghost"})
		if sel := store.Selection(); len(sel) != 1 || sel[0] != "a" {
			t.Errorf("selection = %v, want [a]", sel)
		}
	})

	t.Run("add is idempotent", func(t *testing.T) {
		store.AddToSelection("b")
		store.AddToSelection("b")
		if sel := store.Selection(); len(sel) != 2 {
			t.Errorf("selection = %v, want [a b]", sel)
		}
	})

	t.Run("remove", func(t *testing.T) {
		store.RemoveFromSelection("a")
		if sel := store.Selection(); len(sel) != 1 || sel[0] != "b" {
			t.Errorf("selection = %v, want [b]", sel)
		}
	})
}

func TestResetClearsEverything(t *testing.T) {
	store := NewMemStore()
	store.Insert(NewShape("a", ShapeRectangle, 0, 0, 10, 10))
	store.SetSelection([]string{"a"})

	store.Reset([]Shape{NewShape("x", ShapeEllipse, 5, 5, 20, 20)})

	if _, ok := store.Get("a"); ok {
		t.Error("old shape survived Reset")
	}
	if _, ok := store.Get("x"); !ok {
		t.Error("new shape missing after Reset")
	}
	if sel := store.Selection(); len(sel) != 0 {
		t.Errorf("selection = %v, want empty", sel)
	}
}
