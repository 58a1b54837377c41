package solve_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/curo/solve"
)

func TestRootSquareRoot(t *testing.T) {
	t.Parallel()

	res, err := solve.Root(solve.ObjectiveFunc(func(x float64) float64 { return x*x - 2 }), 1, solve.DefaultConfig)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if math.Abs(res.Root-math.Sqrt2) > 1e-8 {
		t.Fatalf("Root = %v, want %v", res.Root, math.Sqrt2)
	}
	if res.Iterations <= 0 || res.Iterations > solve.DefaultConfig.MaxIterations {
		t.Fatalf("Iterations = %d", res.Iterations)
	}
}

func TestRootLinearFromZeroGuess(t *testing.T) {
	t.Parallel()

	res, err := solve.Root(solve.ObjectiveFunc(func(x float64) float64 { return 3*x - 12 }), 0, solve.DefaultConfig)
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if math.Abs(res.Root-4) > 1e-8 {
		t.Fatalf("Root = %v, want 4", res.Root)
	}
}

func TestRootFlatDerivative(t *testing.T) {
	t.Parallel()

	_, err := solve.Root(solve.ObjectiveFunc(func(float64) float64 { return 5 }), 0.1, solve.DefaultConfig)
	if !errors.Is(err, solve.ErrUnsolvable) {
		t.Fatalf("err = %v, want ErrUnsolvable", err)
	}
	var ue *solve.UnsolvableError
	if !errors.As(err, &ue) {
		t.Fatalf("err %T is not *UnsolvableError", err)
	}
	if ue.Kind != solve.KindFlatDerivative || ue.Residual != 5 {
		t.Fatalf("UnsolvableError = %+v", ue)
	}
}

func TestRootNoConvergence(t *testing.T) {
	t.Parallel()

	// x^2 + 1 has no real root; Newton wanders without settling.
	cfg := solve.DefaultConfig
	cfg.MaxIterations = 25
	_, err := solve.Root(solve.ObjectiveFunc(func(x float64) float64 { return x*x + 1 }), 0.5, cfg)

	var ue *solve.UnsolvableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UnsolvableError", err)
	}
	if ue.Kind != solve.KindNoConvergence && ue.Kind != solve.KindFlatDerivative {
		t.Fatalf("Kind = %s", ue.Kind)
	}
	if !errors.Is(err, solve.ErrUnsolvable) {
		t.Fatalf("errors.Is(ErrUnsolvable) = false")
	}
}

func TestRootNonFinite(t *testing.T) {
	t.Parallel()

	_, err := solve.Root(solve.ObjectiveFunc(func(x float64) float64 { return math.Log(x) }), -1, solve.DefaultConfig)
	var ue *solve.UnsolvableError
	if !errors.As(err, &ue) || ue.Kind != solve.KindNonFinite {
		t.Fatalf("err = %v, want non-finite UnsolvableError", err)
	}
}

func TestRootInfiniteDerivative(t *testing.T) {
	t.Parallel()

	// Finite at the guess, infinite one step to the right.
	obj := solve.ObjectiveFunc(func(x float64) float64 {
		if x <= 1 {
			return 1
		}
		return math.Inf(1)
	})
	_, err := solve.Root(obj, 1, solve.DefaultConfig)
	var ue *solve.UnsolvableError
	if !errors.As(err, &ue) || ue.Kind != solve.KindNonFinite {
		t.Fatalf("err = %v, want non-finite UnsolvableError", err)
	}
	if ue.X != 1 {
		t.Fatalf("X = %v, want 1", ue.X)
	}
}

func TestRootZeroConfigFieldsUseDefaults(t *testing.T) {
	t.Parallel()

	sq := solve.ObjectiveFunc(func(x float64) float64 { return x*x - 2 })
	res, err := solve.Root(sq, 1, solve.Config{MaxIterations: 7})
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if math.Abs(res.Root-math.Sqrt2) > 1e-9 {
		t.Fatalf("root = %v, want sqrt(2)", res.Root)
	}

	_, err = solve.Root(sq, 1, solve.Config{MaxIterations: 1})
	var ue *solve.UnsolvableError
	if !errors.As(err, &ue) || ue.Kind != solve.KindNoConvergence || ue.Iterations != 1 {
		t.Fatalf("err = %v, want no convergence after 1 iteration", err)
	}
}
