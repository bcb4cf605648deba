package scene

import (
	"github.com/chazu/facet/pkg/subdiv"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// SolidKind distinguishes between implicit primitives.
type SolidKind int

const (
	SolidBox SolidKind = iota
	SolidSphere
	SolidCylinder
)

func (k SolidKind) String() string {
	switch k {
	case SolidBox:
		return "box"
	case SolidSphere:
		return "sphere"
	case SolidCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// SolidData describes a primitive centered on the origin. Size is used by
// boxes, Radius by spheres and cylinders, Height by cylinders.
type SolidData struct {
	Kind   SolidKind `json:"kind"`
	Size   v3.Vec    `json:"size"`
	Radius float64   `json:"radius,omitempty"`
	Height float64   `json:"height,omitempty"`
}

func (SolidData) nodeData() {}

// BooleanOp names a CSG operation.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData folds the node's children left to right with Op.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Explicit meshes
// ---------------------------------------------------------------------------

// PolyhedronData is an indexed polygon soup.
type PolyhedronData struct {
	Points []v3.Vec `json:"points"`
	Faces  [][]int  `json:"faces"`
}

func (PolyhedronData) nodeData() {}

// HullData is a point cloud whose convex hull is the node's geometry.
type HullData struct {
	Points []v3.Vec `json:"points"`
}

func (HullData) nodeData() {}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// TransformData rotates (Euler degrees, X then Y then Z) and then translates
// the node's single child.
type TransformData struct {
	Translation *v3.Vec `json:"translation,omitempty"`
	Rotation    *v3.Vec `json:"rotation,omitempty"`
}

func (TransformData) nodeData() {}

// SubdivideData refines the node's single child.
type SubdivideData struct {
	Scheme subdiv.Scheme `json:"scheme"`
	Levels int           `json:"levels"`
}

func (SubdivideData) nodeData() {}

// ---------------------------------------------------------------------------
// Organization
// ---------------------------------------------------------------------------

// SurfaceData marks a named surface. Its single child is the geometry.
type SurfaceData struct {
	Description string `json:"description,omitempty"`
}

func (SurfaceData) nodeData() {}

// GroupData collects surfaces under one root.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
