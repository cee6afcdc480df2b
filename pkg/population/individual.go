package population

import (
	"github.com/openevo/archipelago/pkg/types"
)

// Individual is one slot of a population: its current position, fitness and
// velocity, plus the best position this slot has ever held.
type Individual struct {
	CurX  types.DecisionVector
	CurV  types.DecisionVector
	CurF  types.FitnessVector
	BestX types.DecisionVector
	BestF types.FitnessVector
}

// Clone returns an independent deep copy of the individual.
func (ind Individual) Clone() Individual {
	return Individual{
		CurX:  ind.CurX.Clone(),
		CurV:  ind.CurV.Clone(),
		CurF:  ind.CurF.Clone(),
		BestX: ind.BestX.Clone(),
		BestF: ind.BestF.Clone(),
	}
}

// Equal reports whether two individuals hold identical vectors.
func (ind Individual) Equal(other Individual) bool {
	return ind.CurX.Equal(other.CurX) &&
		ind.CurV.Equal(other.CurV) &&
		ind.CurF.Equal(other.CurF) &&
		ind.BestX.Equal(other.BestX) &&
		ind.BestF.Equal(other.BestF)
}

// Champion is the best individual ever observed in a population.
type Champion struct {
	X types.DecisionVector
	F types.FitnessVector
}

// Clone returns an independent deep copy of the champion.
func (c Champion) Clone() Champion {
	return Champion{X: c.X.Clone(), F: c.F.Clone()}
}
