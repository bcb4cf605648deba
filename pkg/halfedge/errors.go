package halfedge

import (
	"errors"
	"fmt"
)

// Sentinel build failures. A *BuildError wraps one of these.
var (
	ErrIndexRange     = errors.New("vertex index out of range")
	ErrDegenerateFace = errors.New("degenerate face")
	ErrNonManifold    = errors.New("non-manifold or inconsistently oriented edge")
)

// BuildError reports the face that could not be added to a mesh.
type BuildError struct {
	Face   int // index into the input face list
	Detail string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("halfedge: face %d: %v", e.Face, e.Err)
	}
	return fmt.Sprintf("halfedge: face %d: %v: %s", e.Face, e.Err, e.Detail)
}

func (e *BuildError) Unwrap() error { return e.Err }
