// Package solve finds roots of scalar objectives built from cash flow profiles.
package solve

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsolvable matches every root finding failure via errors.Is.
var ErrUnsolvable = errors.New("unsolvable")

// Kind classifies why a root could not be found.
type Kind int

const (
	// KindFlatDerivative means the objective is (locally) constant.
	KindFlatDerivative Kind = iota + 1
	// KindNoConvergence means the iteration budget ran out.
	KindNoConvergence
	// KindNonFinite means the objective returned NaN or Inf.
	KindNonFinite
)

func (k Kind) String() string {
	switch k {
	case KindFlatDerivative:
		return "derivative too small"
	case KindNoConvergence:
		return "no convergence"
	case KindNonFinite:
		return "non-finite objective"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// UnsolvableError reports a failed root search together with the state of the last iteration.
type UnsolvableError struct {
	Kind       Kind
	Iterations int
	X          float64
	Residual   float64
}

func (e *UnsolvableError) Error() string {
	switch e.Kind {
	case KindNoConvergence:
		return fmt.Sprintf("unsolvable: failed to converge after %d iterations (x=%g, f(x)=%g)", e.Iterations, e.X, e.Residual)
	default:
		return fmt.Sprintf("unsolvable: %s at iteration %d (x=%g, f(x)=%g)", e.Kind, e.Iterations, e.X, e.Residual)
	}
}

func (e *UnsolvableError) Is(target error) bool {
	return target == ErrUnsolvable
}

// Objective is a unary real function whose root is sought.
type Objective interface {
	Evaluate(x float64) float64
}

// ObjectiveFunc adapts a plain function to Objective.
type ObjectiveFunc func(x float64) float64

func (f ObjectiveFunc) Evaluate(x float64) float64 { return f(x) }

// Result is the outcome of a successful root search.
type Result struct {
	Root       float64
	Iterations int
	Residual   float64
}

// Root finds x such that obj(x) ~ 0 by Newton-Raphson with a forward
// difference derivative, starting from guess.
//
// It returns as soon as either the residual or the step falls below
// cfg.Tolerance. There is no bracketing fallback: the guess must lie in the
// convergence basin, and callers retry with another guess on failure.
func Root(obj Objective, guess float64, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	x := guess

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		fx := obj.Evaluate(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Result{}, &UnsolvableError{Kind: KindNonFinite, Iterations: iter, X: x, Residual: fx}
		}
		if math.Abs(fx) < cfg.Tolerance {
			return Result{Root: x, Iterations: iter, Residual: fx}, nil
		}

		h := math.Max(cfg.MinStep, math.Abs(x)*cfg.StepScale)
		df := (obj.Evaluate(x+h) - fx) / h
		if math.IsNaN(df) || math.IsInf(df, 0) {
			return Result{}, &UnsolvableError{Kind: KindNonFinite, Iterations: iter, X: x, Residual: fx}
		}
		if math.Abs(df) < cfg.DerivativeThreshold {
			return Result{}, &UnsolvableError{Kind: KindFlatDerivative, Iterations: iter, X: x, Residual: fx}
		}

		dx := fx / df
		x -= dx
		if math.Abs(dx) < cfg.Tolerance {
			return Result{Root: x, Iterations: iter + 1, Residual: fx}, nil
		}
	}

	return Result{}, &UnsolvableError{
		Kind:       KindNoConvergence,
		Iterations: cfg.MaxIterations,
		X:          x,
		Residual:   obj.Evaluate(x),
	}
}
