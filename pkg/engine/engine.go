// Package engine provides the Lisp evaluation engine for facet.
// It wraps zygomys in a sandboxed environment and produces a scene.Scene
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code or a failed scene
// validation.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  scene.NodeID
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Scene    *scene.Scene
	Errors   []EvalError
	Warnings []EvalWarning
	// Fatal is set for timeouts, panics and superseded evaluations.
	Fatal error
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation. Non-positive
// values keep EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Engine wraps the zygomys interpreter for facet evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the evaluation limit.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Evaluate takes Lisp source code and produces a new Scene.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval/validation failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// EvaluateAll runs Evaluate and collects validation warnings alongside the
// scene.
func (e *Engine) EvaluateAll(source string) EvalResult {
	s, evalErrs, err := e.Evaluate(source)
	res := EvalResult{Scene: s, Errors: evalErrs, Fatal: err}
	if s != nil {
		_, res.Warnings = Check(s)
	}
	return res
}

// Check validates s and splits the findings into errors and warnings.
func Check(s *scene.Scene) ([]EvalError, []EvalWarning) {
	var errs []EvalError
	var warns []EvalWarning
	for _, v := range scene.Validate(s) {
		if v.Severity == scene.SeverityWarning {
			warns = append(warns, EvalWarning{Message: v.Message, NodeID: v.NodeID})
			continue
		}
		errs = append(errs, EvalError{Message: v.Error()})
	}
	return errs, warns
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.Scene, []EvalError, error) {
	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return scene.New(), nil, nil
	}

	start := time.Now()

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := scene.New()
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if errs, _ := Check(s); len(errs) > 0 {
		return nil, errs, nil
	}

	logging.Logger().Debug("engine: evaluated",
		"nodes", s.NodeCount(), "roots", len(s.Roots), "elapsed", time.Since(start))
	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
