package scene

import (
	"encoding/json"
	"testing"

	"github.com/chazu/facet/pkg/subdiv"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestNodeIDDeterministic(t *testing.T) {
	a := NewNodeID("surface/blob")
	b := NewNodeID("surface/blob")
	c := NewNodeID("surface/other")
	if a != b {
		t.Errorf("same key gave %s and %s", a.Short(), b.Short())
	}
	if a == c {
		t.Error("different keys gave the same id")
	}
	if a.IsZero() {
		t.Error("hashed id should not be zero")
	}
	if !ZeroID.IsZero() {
		t.Error("ZeroID.IsZero() = false")
	}
	if got := len(a.Short()); got != 8 {
		t.Errorf("len(Short()) = %d, want 8", got)
	}
}

func TestNodeIDText(t *testing.T) {
	id := NewNodeID("x")
	b, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back NodeID
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != id {
		t.Errorf("got %s, want %s", back, id)
	}
	if err := back.UnmarshalText([]byte("abc")); err == nil {
		t.Error("short hex should fail")
	}
}

func TestContentIDSharesEqualNodes(t *testing.T) {
	t1 := v3.Vec{X: 1}
	t2 := v3.Vec{X: 1}
	a := NewNode(NodeTransform, "", TransformData{Translation: &t1}, NewNodeID("child"))
	b := NewNode(NodeTransform, "", TransformData{Translation: &t2}, NewNodeID("child"))
	if a.ID != b.ID {
		t.Error("equal transforms through different pointers should share an id")
	}

	c := NewNode(NodeTransform, "", TransformData{Translation: &t1}, NewNodeID("other"))
	if a.ID == c.ID {
		t.Error("different children should give different ids")
	}

	box := NewNode(NodeSolid, "", SolidData{Kind: SolidBox, Size: v3.Vec{X: 1, Y: 1, Z: 1}})
	sphere := NewNode(NodeSolid, "", SolidData{Kind: SolidSphere, Radius: 1})
	if box.ID == sphere.ID {
		t.Error("box and sphere share an id")
	}

	s1 := NewNode(NodeSurface, "a", SurfaceData{}, box.ID)
	s2 := NewNode(NodeSurface, "b", SurfaceData{}, box.ID)
	if s1.ID == s2.ID {
		t.Error("named surfaces over the same geometry should differ")
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	s := New()
	box := NewNode(NodeSolid, "", SolidData{Kind: SolidBox, Size: v3.Vec{X: 1, Y: 1, Z: 1}})
	id := s.AddNode(box)
	if id != box.ID {
		t.Errorf("AddNode returned %s, want %s", id.Short(), box.ID.Short())
	}
	s.AddNode(NewNode(NodeSolid, "", SolidData{Kind: SolidBox, Size: v3.Vec{X: 1, Y: 1, Z: 1}}))
	if got := s.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d, want 1 after adding an equal node", got)
	}

	surf := NewNode(NodeSurface, "cube", SurfaceData{}, box.ID)
	s.AddNode(surf)
	s.AddRoot(surf.ID)
	s.AddRoot(surf.ID)

	if got := len(s.Roots); got != 1 {
		t.Errorf("len(Roots) = %d, want 1", got)
	}
	if got := s.Lookup("cube"); got != surf {
		t.Errorf("Lookup(cube) = %v, want %v", got, surf)
	}
	if got := s.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
	if got := s.Get(box.ID); got != box {
		t.Errorf("Get() = %v, want the box", got)
	}
	kids := s.Children(surf)
	if len(kids) != 1 || kids[0] != box {
		t.Errorf("Children() = %v, want [box]", kids)
	}

	s.RemoveRoot(surf.ID)
	if len(s.Roots) != 0 {
		t.Errorf("Roots = %v after RemoveRoot, want none", s.Roots)
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup on a missing name should panic")
		}
	}()
	New().MustLookup("nope")
}

func TestSurfacesOrder(t *testing.T) {
	s := New()
	geo := s.AddNode(NewNode(NodeSolid, "", SolidData{Kind: SolidSphere, Radius: 1}))
	a := s.AddNode(NewNode(NodeSurface, "a", SurfaceData{}, geo))
	b := s.AddNode(NewNode(NodeSurface, "b", SurfaceData{}, geo))
	c := s.AddNode(NewNode(NodeSurface, "c", SurfaceData{}, geo))
	g := s.AddNode(NewNode(NodeGroup, "pair", GroupData{}, b, a))
	s.AddRoot(c)
	s.AddRoot(g)
	s.AddRoot(a)

	var names []string
	for _, n := range s.Surfaces() {
		names = append(names, n.Name)
	}
	want := []string{"c", "b", "a"}
	if len(names) != len(want) {
		t.Fatalf("Surfaces() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Surfaces()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NodeSolid.String(), "solid"},
		{NodeSubdivide.String(), "subdivide"},
		{NodeKind(99).String(), "unknown"},
		{SolidCylinder.String(), "cylinder"},
		{OpDifference.String(), "difference"},
		{SeverityWarning.String(), "warning"},
		{SubdivideData{Scheme: subdiv.SchemeLoop}.Scheme.String(), "loop"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
