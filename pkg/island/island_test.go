package island

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evoerrors "github.com/openevo/archipelago/internal/errors"
	"github.com/openevo/archipelago/pkg/algorithm"
	"github.com/openevo/archipelago/pkg/migration"
	"github.com/openevo/archipelago/pkg/population"
	"github.com/openevo/archipelago/pkg/problem"
	"github.com/openevo/archipelago/pkg/types"
)

// blockingProblem forces blocking execution on an otherwise ordinary
// problem.
type blockingProblem struct {
	problem.Problem
}

func (b blockingProblem) IsBlocking() bool {
	return true
}

func (b blockingProblem) Clone() problem.Problem {
	return blockingProblem{b.Problem.Clone()}
}

// failingProblem starts failing its objective after a number of successful
// evaluations. The countdown is shared across clones so island-internal
// copies trip it too.
type failingProblem struct {
	problem.Problem
	remaining *int
}

func (f failingProblem) Objfun(x types.DecisionVector) (types.FitnessVector, error) {
	if *f.remaining <= 0 {
		return nil, errors.New("evaluation backend unavailable")
	}
	*f.remaining--
	return f.Problem.Objfun(x)
}

func (f failingProblem) Clone() problem.Problem {
	return failingProblem{Problem: f.Problem.Clone(), remaining: f.remaining}
}

func newSADE(t *testing.T, gen, variant, adaptive int, seed int64) *algorithm.SADE {
	t.Helper()
	sade, err := algorithm.NewSADESeeded(gen, variant, adaptive, 1e-12, 1e-12, false, seed)
	require.NoError(t, err)
	return sade
}

func newIsland(t *testing.T, gen int, n int, seed int64, opts ...Option) *Island {
	t.Helper()
	opts = append([]Option{WithSeed(seed)}, opts...)
	isl, err := New(problem.NewSphere(10), newSADE(t, gen, 2, 0, seed), n, 0,
		migration.NewBestSelection(1), migration.NewFairReplacement(), opts...)
	require.NoError(t, err)
	return isl
}

// TestNew_Validation tests constructor argument checks
func TestNew_Validation(t *testing.T) {
	sade := newSADE(t, 10, 2, 0, 1)
	sel := migration.NewBestSelection(1)
	rep := migration.NewFairReplacement()

	_, err := New(problem.NewSphere(5), sade, 10, 1.5, sel, rep)
	require.Error(t, err)
	assert.True(t, evoerrors.IsValueError(err))

	_, err = New(problem.NewSphere(5), sade, 10, -0.1, sel, rep)
	require.Error(t, err)
	assert.True(t, evoerrors.IsValueError(err))

	_, err = New(problem.NewSphere(5), sade, -1, 0.5, sel, rep)
	require.Error(t, err)
	assert.True(t, evoerrors.IsValueError(err))

	isl, err := New(problem.NewSphere(5), sade, 0, 1, sel, rep)
	require.NoError(t, err)
	assert.Equal(t, 0, isl.Size())
}

// TestEvolve_CountMode tests a plain non-blocking evolution run
func TestEvolve_CountMode(t *testing.T) {
	isl := newIsland(t, 20, 16, 1)
	before := isl.Population()

	require.NoError(t, isl.Evolve(3))
	isl.Join()

	assert.False(t, isl.Busy())
	after := isl.Population()
	assert.False(t, before.Equal(after), "evolution should move the population")
	assert.LessOrEqual(t, after.Champion().F[0], before.Champion().F[0])
}

// TestEvolve_ZeroIsNoop tests that evolve(0) leaves all state unchanged
func TestEvolve_ZeroIsNoop(t *testing.T) {
	isl := newIsland(t, 20, 16, 1)
	before := isl.Population()
	beforeTime := isl.EvolutionTime()

	require.NoError(t, isl.Evolve(0))
	isl.Join()

	assert.True(t, isl.Population().Equal(before))
	assert.Equal(t, beforeTime, isl.EvolutionTime())
}

// TestEvolve_NegativeCount tests the count check
func TestEvolve_NegativeCount(t *testing.T) {
	isl := newIsland(t, 5, 16, 1)
	err := isl.Evolve(-1)
	require.Error(t, err)
	assert.True(t, evoerrors.IsValueError(err))
}

// TestJoin_IdleIsNoop tests joining an island that never evolved
func TestJoin_IdleIsNoop(t *testing.T) {
	isl := newIsland(t, 5, 16, 1)
	isl.Join()
	isl.Join()
	assert.False(t, isl.Busy())
}

// TestBlockingIsland_ZeroGenerations encodes the blocking no-op scenario:
// no worker is spawned, champion and evolution time stay untouched
func TestBlockingIsland_ZeroGenerations(t *testing.T) {
	sade := newSADE(t, 0, 7, 0, 1)
	isl, err := New(blockingProblem{problem.NewSphere(10)}, sade, 16, 0,
		migration.NewBestSelection(1), migration.NewFairReplacement(), WithSeed(1))
	require.NoError(t, err)

	before := isl.Population()
	require.NoError(t, isl.Evolve(4))

	assert.False(t, isl.Busy(), "blocking mode must not leave a worker handle")
	assert.Equal(t, time.Duration(0), isl.EvolutionTime())
	assert.True(t, isl.Population().Equal(before))
}

// TestBlockingIsland_ErrorsPropagate tests that worker errors in blocking
// mode reach the caller of Evolve
func TestBlockingIsland_ErrorsPropagate(t *testing.T) {
	// enough evaluations for construction, none for evolution
	budget := 16
	prob := failingProblem{Problem: blockingProblem{problem.NewSphere(10)}, remaining: &budget}

	isl, err := New(prob, newSADE(t, 10, 2, 0, 1), 16, 0,
		migration.NewBestSelection(1), migration.NewFairReplacement(), WithSeed(1))
	require.NoError(t, err)

	err = isl.Evolve(1)
	require.Error(t, err)
	assert.True(t, evoerrors.IsObjectiveError(err))

	// the island is idle again and evolution can restart cleanly
	assert.False(t, isl.Busy())
}

// TestInterrupt encodes the interruption scenario: the interrupting caller
// receives a runtime error, the island drains and then evolves again
func TestInterrupt(t *testing.T) {
	isl := newIsland(t, 50, 20, 1)

	require.NoError(t, isl.Evolve(100000))
	err := isl.Interrupt()
	require.Error(t, err)
	assert.True(t, evoerrors.IsRuntimeError(err))

	isl.Join()
	assert.False(t, isl.Busy())

	require.NoError(t, isl.Evolve(2))
	isl.Join()
	assert.False(t, isl.Busy())
}

// TestInterrupt_Idle tests that interrupting an idle island is a no-op
func TestInterrupt_Idle(t *testing.T) {
	isl := newIsland(t, 5, 16, 1)
	assert.NoError(t, isl.Interrupt())
}

// TestEvolveT tests the time-based worker: at least one evolve call happens
func TestEvolveT(t *testing.T) {
	isl := newIsland(t, 1, 16, 1)
	before := isl.Population()

	require.NoError(t, isl.EvolveT(5*time.Millisecond))
	isl.Join()

	assert.False(t, isl.Population().Equal(before))
	assert.GreaterOrEqual(t, isl.EvolutionTime(), 5*time.Millisecond)
}

// TestEvolveT_Negative tests the duration check
func TestEvolveT_Negative(t *testing.T) {
	isl := newIsland(t, 1, 16, 1)
	err := isl.EvolveT(-time.Second)
	require.Error(t, err)
	assert.True(t, evoerrors.IsValueError(err))
}

// TestEvolutionTime_Monotone tests that accumulated time never decreases
func TestEvolutionTime_Monotone(t *testing.T) {
	isl := newIsland(t, 10, 16, 1)

	var last time.Duration
	for k := 0; k < 3; k++ {
		require.NoError(t, isl.Evolve(2))
		got := isl.EvolutionTime()
		assert.GreaterOrEqual(t, got, last)
		last = got
	}
}

// TestAccessors_DeepClone tests that accessors return independent copies
func TestAccessors_DeepClone(t *testing.T) {
	isl := newIsland(t, 10, 16, 1)

	pop := isl.Population()
	require.NoError(t, pop.SetX(0, types.DecisionVector{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}))
	assert.False(t, isl.Population().Equal(pop), "mutating a clone must not reach the island")

	algo := isl.Algorithm()
	assert.NotSame(t, algo, isl.Algorithm())

	prob := isl.Problem()
	lb, _ := prob.Bounds()
	lb[0] = -999
	lbAgain, _ := isl.Problem().Bounds()
	assert.Equal(t, -5.12, lbAgain[0])
}

// TestSetAlgorithm tests the algorithm swap
func TestSetAlgorithm(t *testing.T) {
	isl := newIsland(t, 10, 16, 1)

	replacement := newSADE(t, 3, 6, 1, 2)
	isl.SetAlgorithm(replacement)

	got := isl.Algorithm()
	assert.Equal(t, replacement.String(), got.String())
	assert.NotSame(t, replacement, got)
}

// TestTwinIslands_Determinism encodes the twin-island scenario: identical
// seeds and no migration yield identical populations
func TestTwinIslands_Determinism(t *testing.T) {
	a := newIsland(t, 30, 16, 123)
	b := newIsland(t, 30, 16, 123)

	require.NoError(t, a.Evolve(4))
	require.NoError(t, b.Evolve(4))
	a.Join()
	b.Join()

	assert.True(t, a.Population().Equal(b.Population()))
}

// TestMigrationEntryPoints tests GetEmigrants and AcceptImmigrants directly
func TestMigrationEntryPoints(t *testing.T) {
	isl := newIsland(t, 5, 16, 1)

	emigrants := isl.GetEmigrants()
	require.Len(t, emigrants, 1)

	// a perfect immigrant must end up in the population
	perfect := emigrants[0].Clone()
	for j := range perfect.CurX {
		perfect.CurX[j] = 0
		perfect.BestX[j] = 0
	}
	perfect.CurF = types.FitnessVector{0}
	perfect.BestF = types.FitnessVector{0}

	isl.AcceptImmigrants([]population.Individual{perfect})
	assert.Equal(t, types.FitnessVector{0}, isl.Population().Champion().F)
}
