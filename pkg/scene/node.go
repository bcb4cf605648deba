package scene

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeSolid      NodeKind = iota // implicit primitive (box, sphere, cylinder)
	NodeBoolean                    // CSG combination of solids
	NodePolyhedron                 // explicit polygon mesh
	NodeHull                       // convex hull of a point cloud
	NodeTransform                  // translation and rotation
	NodeSubdivide                  // subdivision refinement
	NodeSurface                    // named, rendered surface
	NodeGroup                      // logical grouping of surfaces
)

func (k NodeKind) String() string {
	switch k {
	case NodeSolid:
		return "solid"
	case NodeBoolean:
		return "boolean"
	case NodePolyhedron:
		return "polyhedron"
	case NodeHull:
		return "hull"
	case NodeTransform:
		return "transform"
	case NodeSubdivide:
		return "subdivide"
	case NodeSurface:
		return "surface"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NewNode builds a node whose ID is derived from its content. Named nodes
// hash their name too so two surfaces over the same geometry stay distinct.
func NewNode(kind NodeKind, name string, data NodeData, children ...NodeID) *Node {
	id := ContentID(kind, data, children)
	if name != "" {
		id = NewNodeID(name + "/" + id.String())
	}
	return &Node{ID: id, Kind: kind, Name: name, Children: children, Data: data}
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
