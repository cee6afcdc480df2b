package problem

import (
	"fmt"

	"github.com/openevo/archipelago/pkg/types"
)

// Sphere is the n-dimensional sphere function, f(x) = sum of x_j squared,
// on the box [-5.12, 5.12]^n. Its global minimum is 0 at the origin.
type Sphere struct {
	base
}

// NewSphere creates a sphere problem of the given dimension.
func NewSphere(dim int) *Sphere {
	return &Sphere{
		base: uniformBase(fmt.Sprintf("sphere-%dd", dim), dim, 1, -5.12, 5.12),
	}
}

// Objfun evaluates the sphere function at x.
func (s *Sphere) Objfun(x types.DecisionVector) (types.FitnessVector, error) {
	if len(x) != s.dim {
		return nil, fmt.Errorf("sphere: decision vector has length %d, want %d", len(x), s.dim)
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return types.FitnessVector{sum}, nil
}

// Clone returns an independent copy of the problem.
func (s *Sphere) Clone() Problem {
	return &Sphere{base: s.cloneBase()}
}
