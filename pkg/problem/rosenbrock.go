package problem

import (
	"fmt"

	"github.com/openevo/archipelago/pkg/types"
)

// Rosenbrock is the classic banana-valley function on [-5, 10]^n. Its global
// minimum is 0 at (1, ..., 1).
type Rosenbrock struct {
	base
}

// NewRosenbrock creates a Rosenbrock problem of the given dimension.
// Dimension must be at least 2.
func NewRosenbrock(dim int) *Rosenbrock {
	return &Rosenbrock{
		base: uniformBase(fmt.Sprintf("rosenbrock-%dd", dim), dim, 1, -5, 10),
	}
}

// Objfun evaluates the Rosenbrock function at x.
func (r *Rosenbrock) Objfun(x types.DecisionVector) (types.FitnessVector, error) {
	if len(x) != r.dim {
		return nil, fmt.Errorf("rosenbrock: decision vector has length %d, want %d", len(x), r.dim)
	}
	sum := 0.0
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return types.FitnessVector{sum}, nil
}

// Clone returns an independent copy of the problem.
func (r *Rosenbrock) Clone() Problem {
	return &Rosenbrock{base: r.cloneBase()}
}
