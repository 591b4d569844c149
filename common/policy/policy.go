package policy

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Evaluator evaluates registry policy rules using CEL (Common Expression
// Language). Rules are configured as expressions over submission attributes,
// e.g. the default intake rule checks coordinates against a bounding box.
type Evaluator struct {
	cache map[string]cel.Program
	mu    sync.RWMutex
}

// NewEvaluator creates a new policy evaluator with program caching
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]cel.Program),
	}
}

// Input carries the submission attributes a rule can reference.
type Input struct {
	Lat         float64
	Lon         float64
	Description string
	Owner       string
}

// Evaluate evaluates a rule expression and returns the result. An empty
// expression is treated as pass.
func (e *Evaluator) Evaluate(expr string, input Input) (bool, error) {
	if expr == "" {
		return true, nil
	}

	// Check cache first
	e.mu.RLock()
	prg, exists := e.cache[expr]
	e.mu.RUnlock()

	if !exists {
		// Compile and cache
		var err error
		prg, err = e.compile(expr)
		if err != nil {
			return false, err
		}

		e.mu.Lock()
		e.cache[expr] = prg
		e.mu.Unlock()
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"lat":         input.Lat,
		"lon":         input.Lon,
		"description": input.Description,
		"owner":       input.Owner,
	})
	if err != nil {
		return false, fmt.Errorf("rule evaluation error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule did not return boolean, got %T", out.Value())
	}

	return result, nil
}

// compile compiles a rule expression
func (e *Evaluator) compile(expr string) (cel.Program, error) {
	env, err := cel.NewEnv(
		cel.Variable("lat", cel.DoubleType),
		cel.Variable("lon", cel.DoubleType),
		cel.Variable("description", cel.StringType),
		cel.Variable("owner", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("rule compilation error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return prg, nil
}

// ClearCache clears the compiled rule cache
func (e *Evaluator) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]cel.Program)
}
