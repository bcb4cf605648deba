package main

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/chazu/facet/pkg/aabb"
	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/halfedge"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// colorPalette is a default palette used to assign distinct colors to surfaces.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel

	mu       sync.RWMutex
	surfaces []tessellate.Surface
	offsets  []int // first primitive index of each surface in index
	index    *aabb.Tree
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Surface  string    `json:"surface"`
	Color    string    `json:"color"`
	Faces    int       `json:"faces"` // polygon count before triangulation
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// PickResult is the mesh edge nearest to a picked point.
type PickResult struct {
	Found    bool       `json:"found"`
	Surface  string     `json:"surface,omitempty"`
	Source   [3]float64 `json:"source"`
	Target   [3]float64 `json:"target"`
	Point    [3]float64 `json:"point"`
	Distance float64    `json:"distance"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	logging.Logger().Info("facet started", "eval_timeout", a.engine.Timeout())
}

// Evaluate takes Lisp source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	res := a.engine.EvaluateAll(source)
	if res.Fatal != nil {
		logging.Logger().Error("evaluate: fatal error", "err", res.Fatal)
		result.Errors = append(result.Errors, EvalErrorData{Message: res.Fatal.Error()})
		return result
	}
	result.Warnings = lo.Map(res.Warnings, func(w engine.EvalWarning, _ int) EvalErrorData {
		return EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message}
	})

	// Step 2: Convert eval errors to the frontend format.
	if len(res.Errors) > 0 {
		result.Errors = lo.Map(res.Errors, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	// Step 3: Tessellate the scene into halfedge meshes.
	surfaces, err := tessellate.Tessellate(res.Scene, a.kernel)
	if err != nil {
		logging.Logger().Error("evaluate: tessellation failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Index every edge for picking.
	if err := a.reindex(surfaces); err != nil {
		logging.Logger().Error("evaluate: edge index failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "edge index failed: " + err.Error()})
		return result
	}

	// Step 5: Convert to the frontend MeshData format.
	result.Meshes = lo.Map(tessellate.Render(surfaces), func(m *kernel.Mesh, i int) MeshData {
		return MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Surface:  m.Surface,
			Color:    colorPalette[i%len(colorPalette)],
			Faces:    surfaces[i].Mesh.NumFaces(),
		}
	})
	return result
}

// reindex replaces the pick index with the edges of surfaces.
func (a *App) reindex(surfaces []tessellate.Surface) error {
	meshes := lo.Map(surfaces, func(s tessellate.Surface, _ int) *halfedge.Mesh { return s.Mesh })
	offsets := make([]int, len(meshes))
	n := 0
	for i, m := range meshes {
		offsets[i] = n
		n += m.NumEdges()
	}
	tree, err := aabb.NewTree(aabb.Primitives(aabb.MeshEntries(meshes...), aabb.WithCache()))
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.surfaces, a.offsets, a.index = surfaces, offsets, tree
	return nil
}

// Pick returns the mesh edge nearest to (x, y, z) in the last successful
// evaluation.
func (a *App) Pick(x, y, z float64) PickResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.index == nil {
		return PickResult{}
	}
	hit, ok := a.index.ClosestPoint(v3.Vec{X: x, Y: y, Z: z})
	if !ok {
		return PickResult{}
	}
	seg := hit.Primitive.Datum()
	return PickResult{
		Found:    true,
		Surface:  a.surfaces[surfaceAt(a.offsets, hit.Index)].Name,
		Source:   arr(seg.Source),
		Target:   arr(seg.Target),
		Point:    arr(hit.Point),
		Distance: math.Sqrt(hit.SquaredDistance),
	}
}

// surfaceAt returns the surface owning primitive index. offsets is
// ascending and may repeat for surfaces without edges; the owner is the
// last surface starting at or before index.
func surfaceAt(offsets []int, index int) int {
	return max(sort.SearchInts(offsets, index+1)-1, 0)
}

func arr(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
