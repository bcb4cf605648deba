package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/subdiv"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms facet Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: my-shape -> my_shape
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	kind scene.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// number returns the keyword argument key, else positional argument pos,
// else def.
func (pa kwArgs) number(key string, pos int, def float64) (float64, error) {
	if v, ok := pa.kw[key]; ok {
		return toFloat64(v)
	}
	if pos >= 0 && pos < len(pa.positional) {
		return toFloat64(pa.positional[pos])
	}
	return def, nil
}

// vec returns the keyword argument key, else positional argument pos.
func (pa kwArgs) vec(key string, pos int) (v3.Vec, bool, error) {
	if v, ok := pa.kw[key]; ok {
		vec, err := toVec3(v)
		return vec, true, err
	}
	if pos >= 0 && pos < len(pa.positional) {
		vec, err := toVec3(pa.positional[pos])
		return vec, true, err
	}
	return v3.Vec{}, false, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_loop) and plain strings ("loop").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toScheme converts a keyword or string to a subdivision scheme.
func toScheme(s zygo.Sexp) (subdiv.Scheme, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected scheme keyword (:catmull-clark, :loop, :doo-sabin, :sqrt3): %w", err)
	}
	return subdiv.ParseScheme(name)
}

// toNodeRef extracts a node reference from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVec3List extracts a list of vec3 values.
func toVec3List(s zygo.Sexp) ([]v3.Vec, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]v3.Vec, 0, len(items))
	for i, item := range items {
		v, err := toVec3(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// toFaceList extracts a list of integer index lists.
func toFaceList(s zygo.Sexp) ([][]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][]int, 0, len(items))
	for i, item := range items {
		idx, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		face := make([]int, 0, len(idx))
		for _, x := range idx {
			n, err := toInt(x)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			face = append(face, n)
		}
		out = append(out, face)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder adds content-addressed nodes to the scene under construction.
type builder struct {
	s *scene.Scene
}

func (b builder) add(kind scene.NodeKind, name string, data scene.NodeData, children ...scene.NodeID) *sexpNodeRef {
	n := scene.NewNode(kind, name, data, children...)
	b.s.AddNode(n)
	return &sexpNodeRef{id: n.ID, kind: kind, name: name}
}

// geometry extracts a reference to a geometry node: anything except a
// surface or group.
func geometry(s zygo.Sexp) (scene.NodeID, error) {
	ref, err := toNodeRef(s)
	if err != nil {
		return scene.ZeroID, err
	}
	if ref.kind == scene.NodeSurface || ref.kind == scene.NodeGroup {
		return scene.ZeroID, fmt.Errorf("expected geometry, got %s %q", ref.kind, ref.name)
	}
	return ref.id, nil
}

// registerBuiltins installs all facet DSL builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	b := builder{s: s}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (box :size (vec3 2 1 1)) or (box 2 1 1)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size v3.Vec
		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			size = vec
		} else {
			if len(pa.positional) != 3 {
				return zygo.SexpNull, fmt.Errorf("box requires :size or three dimensions")
			}
			var c [3]float64
			for i := range c {
				f, err := toFloat64(pa.positional[i])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
				}
				c[i] = f
			}
			size = v3.Vec{X: c[0], Y: c[1], Z: c[2]}
		}
		return b.add(scene.NodeSolid, "", scene.SolidData{Kind: scene.SolidBox, Size: size}), nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 1) or (sphere 1)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.number("radius", 0, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		return b.add(scene.NodeSolid, "", scene.SolidData{Kind: scene.SolidSphere, Radius: r}), nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 2 :radius 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := pa.number("height", 0, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := pa.number("radius", 1, 0.5)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		return b.add(scene.NodeSolid, "", scene.SolidData{Kind: scene.SolidCylinder, Height: h, Radius: r}), nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	// -----------------------------------------------------------------------
	for _, op := range []scene.BooleanOp{scene.OpUnion, scene.OpDifference, scene.OpIntersection} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least two operands, got %d", name, len(args))
			}
			children := make([]scene.NodeID, 0, len(args))
			for i, a := range args {
				id, err := geometry(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", name, i, err)
				}
				children = append(children, id)
			}
			return b.add(scene.NodeBoolean, "", scene.BooleanData{Op: op}, children...), nil
		})
	}

	// -----------------------------------------------------------------------
	// (polyhedron :points (list (vec3 0 0 0) ...) :faces (list (list 0 1 2) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polyhedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("polyhedron requires :points")
		}
		points, err := toVec3List(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: points: %w", err)
		}
		v, ok = pa.kw["faces"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("polyhedron requires :faces")
		}
		faces, err := toFaceList(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: faces: %w", err)
		}
		return b.add(scene.NodePolyhedron, "", scene.PolyhedronData{Points: points, Faces: faces}), nil
	})

	// -----------------------------------------------------------------------
	// (hull (vec3 ...) (vec3 ...) ...) or (hull :points (list ...))
	// -----------------------------------------------------------------------
	env.AddFunction("hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var points []v3.Vec
		if v, ok := pa.kw["points"]; ok {
			list, err := toVec3List(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hull: points: %w", err)
			}
			points = list
		}
		for i, a := range pa.positional {
			p, err := toVec3(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hull: point %d: %w", i, err)
			}
			points = append(points, p)
		}
		return b.add(scene.NodeHull, "", scene.HullData{Points: points}), nil
	})

	// -----------------------------------------------------------------------
	// (translate shape (vec3 1 0 0)) or (translate shape :by (vec3 1 0 0))
	// (rotate shape (vec3 0 0 90))
	// -----------------------------------------------------------------------
	transform := func(rotate bool) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a shape as first argument", name)
			}
			child, err := geometry(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: shape: %w", name, err)
			}
			vec, ok, err := pa.vec("by", 1)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: by: %w", name, err)
			}
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s requires a vec3 offset", name)
			}
			td := scene.TransformData{Translation: &vec}
			if rotate {
				td = scene.TransformData{Rotation: &vec}
			}
			return b.add(scene.NodeTransform, "", td, child), nil
		}
	}
	env.AddFunction("translate", transform(false))
	env.AddFunction("rotate", transform(true))

	// -----------------------------------------------------------------------
	// (subdivide shape :scheme :loop :levels 2)
	// -----------------------------------------------------------------------
	env.AddFunction("subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("subdivide requires a shape as first argument")
		}
		child, err := geometry(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: shape: %w", err)
		}
		sd := scene.SubdivideData{Scheme: subdiv.SchemeCatmullClark, Levels: 1}
		if v, ok := pa.kw["scheme"]; ok {
			sc, err := toScheme(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: scheme: %w", err)
			}
			sd.Scheme = sc
		}
		if v, ok := pa.kw["levels"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subdivide: levels: %w", err)
			}
			sd.Levels = n
		}
		return b.add(scene.NodeSubdivide, "", sd, child), nil
	})

	// -----------------------------------------------------------------------
	// (defsurface "name" shape)
	// -----------------------------------------------------------------------
	env.AddFunction("defsurface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defsurface requires a name and a body expression")
		}
		surfName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface: name: %w", err)
		}
		if s.Lookup(surfName) != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface: %q is already defined", surfName)
		}
		child, err := geometry(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsurface: body: %w", err)
		}
		ref := b.add(scene.NodeSurface, surfName, scene.SurfaceData{}, child)
		s.AddRoot(ref.id)
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (surface "name")
	// -----------------------------------------------------------------------
	env.AddFunction("surface", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("surface requires a name argument")
		}
		surfName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface: name: %w", err)
		}
		n := s.Lookup(surfName)
		if n == nil || n.Kind != scene.NodeSurface {
			return zygo.SexpNull, fmt.Errorf("surface: no surface named %q", surfName)
		}
		return &sexpNodeRef{id: n.ID, kind: n.Kind, name: surfName}, nil
	})

	// -----------------------------------------------------------------------
	// (group "name" (surface "a") (surface "b") ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		var children []scene.NodeID
		for i := 1; i < len(args); i++ {
			ref, err := toNodeRef(args[i])
			if err != nil || (ref.kind != scene.NodeSurface && ref.kind != scene.NodeGroup) {
				return zygo.SexpNull, fmt.Errorf("group: member %d: expected surface or group, got %s",
					i, args[i].SexpString(nil))
			}
			children = append(children, ref.id)
		}
		ref := b.add(scene.NodeGroup, groupName, scene.GroupData{}, children...)
		for _, c := range children {
			s.RemoveRoot(c)
		}
		s.AddRoot(ref.id)
		return ref, nil
	})
}
