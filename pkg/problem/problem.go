package problem

import (
	"github.com/openevo/archipelago/pkg/types"
)

// Problem is the capability set the evolution engine consumes. A problem is
// an opaque evaluator: the engine only needs its shape, its box bounds, its
// objective function and a strict fitness order.
type Problem interface {
	// Name returns a short human-readable identifier.
	Name() string

	// Dim returns the total dimension, the length of the integer tail, the
	// number of constraints, and the fitness-vector length.
	Dim() (d, di, c, f int)

	// Bounds returns the lower and upper bounds of the search box.
	Bounds() (lb, ub types.DecisionVector)

	// Objfun evaluates the objective at x. It must be a pure function of x.
	Objfun(x types.DecisionVector) (types.FitnessVector, error)

	// CompareFitness reports whether a is strictly better than b.
	CompareFitness(a, b types.FitnessVector) bool

	// IsBlocking reports whether the problem must not be evaluated from a
	// background worker.
	IsBlocking() bool

	// Clone returns an independent copy of the problem.
	Clone() Problem
}

// base carries the shape and bounds shared by the built-in problems.
type base struct {
	name string
	dim  int
	idim int
	cdim int
	fdim int
	lb   types.DecisionVector
	ub   types.DecisionVector
}

func newBase(name string, dim, idim, cdim, fdim int, lb, ub types.DecisionVector) base {
	return base{
		name: name,
		dim:  dim,
		idim: idim,
		cdim: cdim,
		fdim: fdim,
		lb:   lb,
		ub:   ub,
	}
}

// uniformBase builds a base whose box is [lo, hi] in every dimension.
func uniformBase(name string, dim, fdim int, lo, hi float64) base {
	lb := make(types.DecisionVector, dim)
	ub := make(types.DecisionVector, dim)
	for i := range lb {
		lb[i] = lo
		ub[i] = hi
	}
	return newBase(name, dim, 0, 0, fdim, lb, ub)
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Dim() (int, int, int, int) {
	return b.dim, b.idim, b.cdim, b.fdim
}

func (b *base) Bounds() (types.DecisionVector, types.DecisionVector) {
	return b.lb.Clone(), b.ub.Clone()
}

func (b *base) IsBlocking() bool {
	return false
}

// CompareFitness implements the default strict order: minimization with
// Pareto dominance for multi-objective fitness vectors. For a single
// objective this reduces to a[0] < b[0].
func (b *base) CompareFitness(a, fb types.FitnessVector) bool {
	if len(a) != len(fb) {
		return false
	}
	strictly := false
	for i := range a {
		if a[i] > fb[i] {
			return false
		}
		if a[i] < fb[i] {
			strictly = true
		}
	}
	return strictly
}

func (b *base) cloneBase() base {
	out := *b
	out.lb = b.lb.Clone()
	out.ub = b.ub.Clone()
	return out
}
