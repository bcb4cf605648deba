package scene

import (
	"fmt"
	"slices"
)

// Scene is the top-level immutable data structure produced by evaluation.
// It is never mutated in place once returned; each evaluation produces a
// new scene.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node and returns its ID. Adding a node whose ID is
// already present is a no-op, which is how content-equal subtrees are
// shared.
func (s *Scene) AddNode(n *Node) NodeID {
	if _, ok := s.Nodes[n.ID]; ok {
		return n.ID
	}
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
	return n.ID
}

// AddRoot registers a node ID as a root. Duplicate roots are ignored.
func (s *Scene) AddRoot(id NodeID) {
	if !slices.Contains(s.Roots, id) {
		s.Roots = append(s.Roots, id)
	}
}

// RemoveRoot drops id from the roots, keeping the others in order.
func (s *Scene) RemoveRoot(id NodeID) {
	s.Roots = slices.DeleteFunc(s.Roots, func(r NodeID) bool { return r == id })
}

// Lookup returns the node with the given user-assigned name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Children returns the child nodes of n, skipping dangling references.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Surfaces returns the surface nodes reachable from the roots, in root
// order and depth-first within groups. Each surface appears once.
func (s *Scene) Surfaces() []*Node {
	var out []*Node
	seen := make(map[NodeID]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		switch n.Kind {
		case NodeSurface:
			out = append(out, n)
		case NodeGroup:
			for _, c := range s.Children(n) {
				walk(c)
			}
		}
	}
	for _, id := range s.Roots {
		walk(s.Nodes[id])
	}
	return out
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}
