package problem

import (
	"fmt"
	"math"

	"github.com/openevo/archipelago/pkg/types"
)

// ZDT6 is a box-constrained continuous multi-objective benchmark on [0,1]^n
// with two objectives and a non-uniformly distributed Pareto front.
//
// Because its fitness vector has length 2, ZDT6 is rejected by the
// single-objective algorithms and doubles as the incompatible-shape fixture
// in their tests.
type ZDT6 struct {
	base
}

// NewZDT6 creates a ZDT6 problem of the given dimension (canonically 10).
func NewZDT6(dim int) *ZDT6 {
	return &ZDT6{
		base: uniformBase(fmt.Sprintf("zdt6-%dd", dim), dim, 2, 0, 1),
	}
}

// Objfun evaluates both ZDT6 objectives at x.
func (z *ZDT6) Objfun(x types.DecisionVector) (types.FitnessVector, error) {
	if len(x) != z.dim {
		return nil, fmt.Errorf("zdt6: decision vector has length %d, want %d", len(x), z.dim)
	}
	g := 0.0
	for _, v := range x[1:] {
		g += v
	}
	g = 1 + 9*math.Pow(g/float64(z.dim-1), 0.25)

	sin6 := math.Pow(math.Sin(6*math.Pi*x[0]), 6)
	f1 := 1 - math.Exp(-4*x[0])*sin6
	f2 := g * (1 - (f1/g)*(f1/g))

	return types.FitnessVector{f1, f2}, nil
}

// Clone returns an independent copy of the problem.
func (z *ZDT6) Clone() Problem {
	return &ZDT6{base: z.cloneBase()}
}
