package scene

import (
	"fmt"

	"github.com/chazu/facet/pkg/subdiv"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs every structural and geometric check on s. An empty result
// means the scene is valid. Validate never mutates s.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateArity(s)...)
	errs = append(errs, validateData(s)...)
	return errs
}

// Errors returns only the error-severity findings of errs.
func Errors(errs []ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}

// validateDAG checks for cycles using DFS with 3-color marking.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range s.Nodes {
		if color[id] == white && visit(id) {
			break
		}
	}
	return errs
}

// validateReferences checks that every child ID names an existing node.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex is injective and points at
// existing nodes.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	for name, id := range s.NameIndex {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range s.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that roots exist and are surfaces or groups, and
// warns about nodes unreachable from any root.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, rid := range s.Roots {
		n, ok := s.Nodes[rid]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if n.Kind != NodeSurface && n.Kind != NodeGroup {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root is %s, want surface or group", n.Kind),
				Severity: SeverityError,
			})
		}
	}

	if len(s.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(s.Roots))
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		node := s.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range s.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateArity checks each kind's child count and the kinds of group
// members.
func validateArity(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	for _, n := range s.Nodes {
		switch n.Kind {
		case NodeSolid, NodePolyhedron, NodeHull:
			if len(n.Children) != 0 {
				bad(n, "%s takes no children, got %d", n.Kind, len(n.Children))
			}
		case NodeTransform, NodeSubdivide, NodeSurface:
			if len(n.Children) != 1 {
				bad(n, "%s takes exactly one child, got %d", n.Kind, len(n.Children))
			}
		case NodeBoolean:
			if len(n.Children) < 2 {
				bad(n, "boolean takes at least two operands, got %d", len(n.Children))
			}
		case NodeGroup:
			for _, c := range s.Children(n) {
				if c.Kind != NodeSurface && c.Kind != NodeGroup {
					bad(n, "group member %s is %s, want surface or group", c.ID.Short(), c.Kind)
				}
			}
		}
		if n.Kind != NodeGroup {
			for _, c := range s.Children(n) {
				if c.Kind == NodeSurface || c.Kind == NodeGroup {
					bad(n, "%s cannot contain %s %s", n.Kind, c.Kind, c.ID.Short())
				}
			}
		}
	}
	return errs
}

// validateData checks kind-specific payloads: positive primitive
// dimensions, polygon index ranges, hull point counts and subdivision
// parameters.
func validateData(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}
	for _, n := range s.Nodes {
		switch d := n.Data.(type) {
		case SolidData:
			switch d.Kind {
			case SolidBox:
				if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
					bad(n, "box size must be positive, got %v", d.Size)
				}
			case SolidSphere:
				if d.Radius <= 0 {
					bad(n, "sphere radius must be positive, got %g", d.Radius)
				}
			case SolidCylinder:
				if d.Radius <= 0 || d.Height <= 0 {
					bad(n, "cylinder radius and height must be positive, got r=%g h=%g", d.Radius, d.Height)
				}
			default:
				bad(n, "unknown solid kind %d", int(d.Kind))
			}

		case PolyhedronData:
			if len(d.Faces) == 0 {
				bad(n, "polyhedron has no faces")
			}
			for fi, f := range d.Faces {
				if len(f) < 3 {
					bad(n, "face %d has %d vertices, want at least 3", fi, len(f))
				}
				for _, vi := range f {
					if vi < 0 || vi >= len(d.Points) {
						bad(n, "face %d index %d out of range [0, %d)", fi, vi, len(d.Points))
						break
					}
				}
			}

		case HullData:
			if len(d.Points) < 4 {
				bad(n, "hull needs at least 4 points, got %d", len(d.Points))
			}

		case SubdivideData:
			if !d.Scheme.Valid() {
				bad(n, "unknown subdivision scheme %s", d.Scheme)
			}
			if d.Levels < 0 || d.Levels > subdiv.MaxLevels {
				bad(n, "subdivision levels %d out of range [0, %d]", d.Levels, subdiv.MaxLevels)
			}
			if d.Scheme.TrianglesOnly() {
				for _, c := range s.Children(n) {
					if p, ok := c.Data.(PolyhedronData); ok && !allTriangles(p.Faces) {
						bad(n, "%s subdivision needs a triangle mesh", d.Scheme)
					}
				}
			}
		}
	}
	return errs
}

func allTriangles(faces [][]int) bool {
	for _, f := range faces {
		if len(f) != 3 {
			return false
		}
	}
	return true
}
