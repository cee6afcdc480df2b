package algorithm

import (
	"fmt"
	"math"

	"github.com/openevo/archipelago/internal/errors"
	"github.com/openevo/archipelago/internal/random"
	"github.com/openevo/archipelago/pkg/population"
	"github.com/openevo/archipelago/pkg/types"
)

// SADE parameters shared by every instance.
const (
	// MinPopulationSize is the smallest population the seven distinct
	// donor indices can be drawn from.
	MinPopulationSize = 8

	// stopCheckInterval is the generation modulus of the tolerance check.
	stopCheckInterval = 40

	// inheritProbability is the chance, under the jDE adaptation scheme,
	// of keeping the stored F or CR instead of redrawing it.
	inheritProbability = 0.9

	defaultSeed = 1
)

// StopCadence selects when the xtol/ftol exit conditions are evaluated.
type StopCadence int

const (
	// StopCadenceLegacy evaluates the exit conditions on every generation
	// whose index is NOT a multiple of 40. This matches the historical
	// behaviour, which skipped the multiples; it is almost certainly an
	// off-by-one in the ancestry of this algorithm but is kept as the
	// default for behavioural parity.
	StopCadenceLegacy StopCadence = iota

	// StopCadenceEvery40 evaluates the exit conditions only on every 40th
	// generation.
	StopCadenceEvery40
)

// SADE is self-adaptive Differential Evolution: 18 mutation/crossover
// variants with on-line adaptation of the amplification factor F and the
// crossover probability CR.
//
// The adaptive F and CR vectors persist across Evolve calls; they are
// reinitialized when the population size changes or when the restart flag
// is set.
type SADE struct {
	gen      int
	variant  int
	adaptive int
	ftol     float64
	xtol     float64
	restart  bool
	cadence  StopCadence

	rng *random.Source

	// per-slot adaptive parameters
	f  []float64
	cr []float64
}

// NewSADE creates a self-adaptive DE instance.
//
// gen is the number of generations per Evolve call, variant one of 1..18,
// adaptive the parameter adaptation scheme (0 for jDE-style inheritance,
// 1 for the de-randomized normal walk). ftol and xtol are the exit
// tolerances; restart discards the adapted parameters on every Evolve call.
func NewSADE(gen, variant, adaptive int, ftol, xtol float64, restart bool) (*SADE, error) {
	return NewSADESeeded(gen, variant, adaptive, ftol, xtol, restart, defaultSeed)
}

// NewSADESeeded is NewSADE with an explicit random seed, for reproducible
// runs.
func NewSADESeeded(gen, variant, adaptive int, ftol, xtol float64, restart bool, seed int64) (*SADE, error) {
	if gen < 0 {
		return nil, errors.NewValueError("sade", "new", "number of generations must be nonnegative")
	}
	if variant < 1 || variant > 18 {
		return nil, errors.NewValueError("sade", "new", "variant index must be one of 1 ... 18")
	}
	if adaptive < 0 || adaptive > 1 {
		return nil, errors.NewValueError("sade", "new", "adaptation scheme index must be one of 0 ... 1")
	}
	return &SADE{
		gen:      gen,
		variant:  variant,
		adaptive: adaptive,
		ftol:     ftol,
		xtol:     xtol,
		restart:  restart,
		cadence:  StopCadenceLegacy,
		rng:      random.NewSource(seed),
	}, nil
}

// Name returns the algorithm identifier.
func (s *SADE) Name() string {
	return "DE (self-adaptive)"
}

// String returns the algorithm parameters in human-readable form.
func (s *SADE) String() string {
	return fmt.Sprintf("gen:%d variant:%d adaptive:%d ftol:%g xtol:%g restart:%t",
		s.gen, s.variant, s.adaptive, s.ftol, s.xtol, s.restart)
}

// IsBlocking reports whether the algorithm must run on the calling
// goroutine. SADE itself never blocks.
func (s *SADE) IsBlocking() bool {
	return false
}

// SetStopCadence selects when the tolerance exit conditions are checked.
func (s *SADE) SetStopCadence(c StopCadence) {
	s.cadence = c
}

// Clone returns an independent copy with the same parameters and seed and a
// copy of the adapted F/CR state. The clone's random stream restarts from
// the seed.
func (s *SADE) Clone() Algorithm {
	out := &SADE{
		gen:      s.gen,
		variant:  s.variant,
		adaptive: s.adaptive,
		ftol:     s.ftol,
		xtol:     s.xtol,
		restart:  s.restart,
		cadence:  s.cadence,
		rng:      random.NewSource(s.rng.Seed()),
	}
	if s.f != nil {
		out.f = make([]float64, len(s.f))
		copy(out.f, s.f)
	}
	if s.cr != nil {
		out.cr = make([]float64, len(s.cr))
		copy(out.cr, s.cr)
	}
	return out
}

// Evolve runs the configured number of generations on the population. Every
// accepted trial is written back through the population immediately, so the
// caller observes an up-to-date population at return.
func (s *SADE) Evolve(pop *population.Population) error {
	prob := pop.Problem()
	d, di, cdim, fdim := prob.Dim()
	lb, ub := prob.Bounds()
	np := pop.Size()
	dc := d - di

	if dc == 0 {
		return errors.NewValueError("sade", "evolve", "there is no continuous part in the problem decision vector for DE to optimise")
	}
	if cdim != 0 {
		return errors.NewValueError("sade", "evolve", "the problem is not box constrained and DE is not suitable to solve it")
	}
	if fdim != 1 {
		return errors.NewValueError("sade", "evolve", "the problem is not single objective and DE is not suitable to solve it")
	}
	if np < MinPopulationSize {
		return errors.NewValueError("sade", "evolve", fmt.Sprintf("at least %d individuals in the population are needed", MinPopulationSize))
	}

	// Nothing to do.
	if s.gen == 0 {
		return nil
	}

	popold := make([]types.DecisionVector, np)
	popnew := make([]types.DecisionVector, np)
	fit := make([]types.FitnessVector, np)
	for i := 0; i < np; i++ {
		ind := pop.Individual(i)
		popold[i] = ind.CurX
		popnew[i] = ind.CurX.Clone()
		fit[i] = ind.CurF
	}

	champ := pop.Champion()
	gbX := champ.X.Clone()
	gbFit := champ.F.Clone()
	// best decision vector of the previous iteration; not updated during
	// the sweep
	gbIter := gbX.Clone()

	s.initParams(np)

	for gen := 0; gen < s.gen; gen++ {
		for i := 0; i < np; i++ {
			r1, r2, r3, r4, r5, r6, r7 := s.pickDistinct(i, np)

			f := s.adaptF(i, r1, r2, r3, r4, r5, r6)
			cr := s.adaptCR(i, r1, r2, r3, r4, r5, r6)

			tmp := popold[i].Clone()
			s.mutateAndCross(tmp, popold, gbIter, i, [7]int{r1, r2, r3, r4, r5, r6, r7}, f, cr, dc)

			// feasibility repair on the continuous components
			for j := 0; j < dc; j++ {
				if tmp[j] < lb[j] || tmp[j] > ub[j] {
					tmp[j] = s.rng.Uniform(lb[j], ub[j])
				}
			}

			newFit, err := prob.Objfun(tmp)
			if err != nil {
				return errors.WrapObjectiveError(err, "sade", "evolve")
			}
			if prob.CompareFitness(newFit, fit[i]) {
				fit[i] = newFit.Clone()
				popnew[i] = tmp.Clone()

				s.f[i] = f
				s.cr[i] = cr

				// the accepted move defines the new velocity
				cur := pop.Individual(i).CurX
				vel := make(types.DecisionVector, d)
				for j := 0; j < d; j++ {
					vel[j] = tmp[j] - cur[j]
				}
				if err := pop.SetXF(i, tmp, newFit); err != nil {
					return err
				}
				if err := pop.SetV(i, vel); err != nil {
					return err
				}
				if prob.CompareFitness(newFit, gbFit) {
					gbFit = newFit.Clone()
					gbX = tmp.Clone()
				}
			} else {
				popnew[i] = popold[i]
			}
		}

		gbIter = gbX.Clone()
		popold, popnew = popnew, popold

		if s.checkStopNow(gen) {
			worst := pop.Individual(pop.WorstIdx())
			best := pop.Individual(pop.BestIdx())

			dx := 0.0
			for j := 0; j < d; j++ {
				dx += math.Abs(worst.BestX[j] - best.BestX[j])
			}
			if dx < s.xtol {
				return nil
			}

			df := math.Abs(worst.BestF[0] - best.BestF[0])
			if df < s.ftol {
				return nil
			}
		}
	}
	return nil
}

// initParams lazily (re)initializes the adaptive F and CR vectors when the
// population size changed or the restart flag is set.
func (s *SADE) initParams(np int) {
	if len(s.cr) == np && len(s.f) == np && !s.restart {
		return
	}
	s.cr = make([]float64, np)
	for i := range s.cr {
		if s.adaptive == 1 {
			s.cr[i] = s.rng.Norm(0.5, 0.15)
		} else {
			s.cr[i] = s.rng.Uniform(0, 1)
		}
	}
	s.f = make([]float64, np)
	for i := range s.f {
		if s.adaptive == 1 {
			s.f[i] = s.rng.Norm(0.5, 0.15)
		} else {
			s.f[i] = s.rng.Uniform(0.1, 1)
		}
	}
}

// pickDistinct draws seven indices from [0, np), all different from each
// other and from i, by rejection sampling. Termination is guaranteed by the
// population size check in Evolve.
func (s *SADE) pickDistinct(i, np int) (r1, r2, r3, r4, r5, r6, r7 int) {
	for r1 = s.rng.Intn(np); r1 == i; r1 = s.rng.Intn(np) {
	}
	for r2 = s.rng.Intn(np); r2 == i || r2 == r1; r2 = s.rng.Intn(np) {
	}
	for r3 = s.rng.Intn(np); r3 == i || r3 == r1 || r3 == r2; r3 = s.rng.Intn(np) {
	}
	for r4 = s.rng.Intn(np); r4 == i || r4 == r1 || r4 == r2 || r4 == r3; r4 = s.rng.Intn(np) {
	}
	for r5 = s.rng.Intn(np); r5 == i || r5 == r1 || r5 == r2 || r5 == r3 || r5 == r4; r5 = s.rng.Intn(np) {
	}
	for r6 = s.rng.Intn(np); r6 == i || r6 == r1 || r6 == r2 || r6 == r3 || r6 == r4 || r6 == r5; r6 = s.rng.Intn(np) {
	}
	for r7 = s.rng.Intn(np); r7 == i || r7 == r1 || r7 == r2 || r7 == r3 || r7 == r4 || r7 == r5 || r7 == r6; r7 = s.rng.Intn(np) {
	}
	return
}

// adaptF produces the trial amplification factor for slot i.
func (s *SADE) adaptF(i, r1, r2, r3, r4, r5, r6 int) float64 {
	if s.adaptive == 1 {
		return s.f[i] + s.rng.Norm(0, 0.5)*(s.f[r1]-s.f[r2]) +
			s.rng.Norm(0, 0.5)*(s.f[r3]-s.f[r4]) +
			s.rng.Norm(0, 0.5)*(s.f[r5]-s.f[r6])
	}
	if s.rng.Float64() < inheritProbability {
		return s.f[i]
	}
	return s.rng.Uniform(0.1, 1)
}

// adaptCR produces the trial crossover probability for slot i.
func (s *SADE) adaptCR(i, r1, r2, r3, r4, r5, r6 int) float64 {
	if s.adaptive == 1 {
		return s.cr[i] + s.rng.Norm(0, 0.5)*(s.cr[r1]-s.cr[r2]) +
			s.rng.Norm(0, 0.5)*(s.cr[r3]-s.cr[r4]) +
			s.rng.Norm(0, 0.5)*(s.cr[r5]-s.cr[r6])
	}
	if s.rng.Float64() < inheritProbability {
		return s.cr[i]
	}
	return s.rng.Uniform(0, 1)
}

// mutateAndCross builds the trial vector in place according to the variant.
// Variants factor into a mutant expression (base individual plus scaled
// difference terms) and a crossover style (exponential or binomial).
func (s *SADE) mutateAndCross(tmp types.DecisionVector, popold []types.DecisionVector, gbIter types.DecisionVector, i int, r [7]int, f, cr float64, dc int) {
	r1, r2, r3, r4, r5, r6, r7 := r[0], r[1], r[2], r[3], r[4], r[5], r[6]

	var expr func(n int) float64
	switch s.variant {
	case 1, 6: // DE/best/1
		expr = func(n int) float64 {
			return gbIter[n] + f*(popold[r2][n]-popold[r3][n])
		}
	case 2, 7: // DE/rand/1
		expr = func(n int) float64 {
			return popold[r1][n] + f*(popold[r2][n]-popold[r3][n])
		}
	case 3, 8: // DE/rand-to-best/1
		expr = func(n int) float64 {
			return tmp[n] + f*(gbIter[n]-tmp[n]) + f*(popold[r1][n]-popold[r2][n])
		}
	case 4, 9: // DE/best/2
		expr = func(n int) float64 {
			return gbIter[n] + (popold[r1][n]+popold[r2][n]-popold[r3][n]-popold[r4][n])*f
		}
	case 5, 10: // DE/rand/2
		expr = func(n int) float64 {
			return popold[r5][n] + (popold[r1][n]+popold[r2][n]-popold[r3][n]-popold[r4][n])*f
		}
	case 11, 12: // DE/best/3
		expr = func(n int) float64 {
			return gbIter[n] + f*(popold[r1][n]-popold[r2][n]) + f*(popold[r3][n]-popold[r4][n]) + f*(popold[r5][n]-popold[r6][n])
		}
	case 13, 14: // DE/rand/3
		expr = func(n int) float64 {
			return popold[r7][n] + f*(popold[r1][n]-popold[r2][n]) + f*(popold[r3][n]-popold[r4][n]) + f*(popold[r5][n]-popold[r6][n])
		}
	case 15, 16: // DE/rand-to-current/2
		expr = func(n int) float64 {
			return popold[r7][n] + f*(popold[r1][n]-popold[i][n]) + f*(popold[r3][n]-popold[r4][n])
		}
	case 17, 18: // DE/rand-to-best-and-current/2
		expr = func(n int) float64 {
			return popold[r7][n] + f*(popold[r1][n]-popold[i][n]) + f*(gbIter[n]-popold[r4][n])
		}
	}

	if s.exponentialCrossover() {
		s.crossExp(tmp, expr, cr, dc)
	} else {
		s.crossBin(tmp, expr, cr, dc)
	}
}

// exponentialCrossover reports whether the configured variant uses the
// exponential crossover style.
func (s *SADE) exponentialCrossover() bool {
	switch s.variant {
	case 1, 2, 3, 4, 5, 11, 13, 15, 17:
		return true
	default:
		return false
	}
}

// crossExp overwrites a contiguous cyclic run of components starting at a
// random position, continuing while a uniform draw stays below cr and fewer
// than dc updates have been made.
func (s *SADE) crossExp(tmp types.DecisionVector, expr func(int) float64, cr float64, dc int) {
	n := s.rng.Intn(dc)
	l := 0
	for {
		tmp[n] = expr(n)
		n = (n + 1) % dc
		l++
		if !(s.rng.Float64() < cr && l < dc) {
			break
		}
	}
}

// crossBin performs dc binomial trials starting at a random position; the
// last position is always updated so at least one component changes.
func (s *SADE) crossBin(tmp types.DecisionVector, expr func(int) float64, cr float64, dc int) {
	n := s.rng.Intn(dc)
	for l := 0; l < dc; l++ {
		if s.rng.Float64() < cr || l+1 == dc {
			tmp[n] = expr(n)
		}
		n = (n + 1) % dc
	}
}

// checkStopNow reports whether the exit conditions should be evaluated
// after the given generation index.
func (s *SADE) checkStopNow(gen int) bool {
	if s.cadence == StopCadenceEvery40 {
		return gen > 0 && gen%stopCheckInterval == 0
	}
	return gen%stopCheckInterval != 0
}
