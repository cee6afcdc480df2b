package island

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openevo/archipelago/internal/errors"
	"github.com/openevo/archipelago/internal/logger"
	"github.com/openevo/archipelago/internal/random"
	"github.com/openevo/archipelago/pkg/algorithm"
	"github.com/openevo/archipelago/pkg/migration"
	"github.com/openevo/archipelago/pkg/population"
	"github.com/openevo/archipelago/pkg/problem"
)

// Archipelago is the surface an island expects from the collection it
// belongs to. The archipelago's scheduling, topology and transport are its
// own business; the island only calls these three hooks from its worker.
type Archipelago interface {
	// SyncIslandStart blocks until all sibling islands have reached the
	// same barrier in the current round.
	SyncIslandStart()

	// PreEvolution delivers queued immigrants before a generation round.
	PreEvolution(isl *Island)

	// PostEvolution collects emigrants after a generation round.
	PostEvolution(isl *Island)
}

var islandCounter atomic.Int64

// Island is a semi-independent evolution unit. It exclusively owns a
// population, a cloned algorithm and cloned migration policies, and runs
// evolution in at most one worker at a time.
//
// Every public operation except Name, Busy, Interrupt, IsBlocking,
// MigrationProbability and the migration entry points first drains any
// active worker, so callers always observe a
// quiescent island. The island's public API is intended for a single
// controlling goroutine, mirroring the one-owner model of the populations
// it manages.
type Island struct {
	name     string
	pop      *population.Population
	algo     algorithm.Algorithm
	sPolicy  migration.SelectionPolicy
	rPolicy  migration.ReplacementPolicy
	migrProb float64
	archi    Archipelago
	evoTime  time.Duration
	worker   *worker
	log      *logger.Logger
}

// Option customises island construction.
type Option func(*options)

type options struct {
	seed int64
	name string
	log  *logger.Logger
}

// WithSeed sets the seed of the island's private random streams. Islands
// built with identical arguments and identical seeds evolve identically.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithName sets the island name used in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger attaches a logger for worker-side events. Without one the
// island is silent.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// New creates an island owning a population of n individuals of the given
// problem. The algorithm and both policies are deep-copied; the caller's
// instances remain untouched.
func New(prob problem.Problem, algo algorithm.Algorithm, n int, migrProb float64,
	sPolicy migration.SelectionPolicy, rPolicy migration.ReplacementPolicy, opts ...Option) (*Island, error) {

	if migrProb < 0 || migrProb > 1 {
		return nil, errors.NewValueError("island", "new", "invalid migration probability")
	}
	if n < 0 {
		return nil, errors.NewValueError("island", "new", "population size must be nonnegative")
	}

	o := options{
		seed: 1,
		name: fmt.Sprintf("island-%d", islandCounter.Add(1)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	pop, err := population.New(prob.Clone(), n, random.NewSource(o.seed))
	if err != nil {
		return nil, err
	}

	return &Island{
		name:     o.name,
		pop:      pop,
		algo:     algo.Clone(),
		sPolicy:  sPolicy.Clone(),
		rPolicy:  rPolicy.Clone(),
		migrProb: migrProb,
		log:      o.log,
	}, nil
}

// Name returns the island's name.
func (i *Island) Name() string {
	return i.name
}

// Attach stores the back-reference to the archipelago this island belongs
// to. The archipelago owns the island's lifecycle from here on; it must
// outlive the island.
func (i *Island) Attach(archi Archipelago) {
	i.Join()
	i.archi = archi
}

// Join blocks until any pending worker has terminated. On an idle island it
// is a no-op.
func (i *Island) Join() {
	if i.worker != nil {
		<-i.worker.done
		i.worker = nil
	}
}

// Busy reports whether a worker handle exists that has not been joined yet.
func (i *Island) Busy() bool {
	return i.worker != nil
}

// Interrupt requests the active worker to stop at its next cooperative
// check-point and surfaces a runtime error to the caller. On an idle island
// it is a no-op.
func (i *Island) Interrupt() error {
	if i.worker == nil {
		return nil
	}
	i.worker.cancel()
	return errors.NewRuntimeError("island", "interrupt", "evolution interrupted")
}

// IsBlocking reports whether evolution must run on the calling goroutine,
// which is the case when either the problem or the algorithm demands it.
func (i *Island) IsBlocking() bool {
	return i.pop.Problem().IsBlocking() || i.algo.IsBlocking()
}

// EvolutionTime returns the cumulative wall-clock time spent by workers.
func (i *Island) EvolutionTime() time.Duration {
	i.Join()
	return i.evoTime
}

// Size returns the population size.
func (i *Island) Size() int {
	i.Join()
	return i.pop.Size()
}

// MigrationProbability returns the island's migration probability. The
// probability is immutable after construction, so this accessor is safe to
// call from archipelago hooks while a worker runs.
func (i *Island) MigrationProbability() float64 {
	return i.migrProb
}

// Algorithm returns a deep copy of the island's algorithm.
func (i *Island) Algorithm() algorithm.Algorithm {
	i.Join()
	return i.algo.Clone()
}

// SetAlgorithm deep-copies and replaces the island's algorithm.
func (i *Island) SetAlgorithm(algo algorithm.Algorithm) {
	i.Join()
	i.algo = algo.Clone()
}

// Problem returns a deep copy of the island's problem.
func (i *Island) Problem() problem.Problem {
	i.Join()
	return i.pop.Problem().Clone()
}

// Population returns a deep copy of the island's population.
func (i *Island) Population() *population.Population {
	i.Join()
	return i.pop.Clone()
}

// SelectionPolicy returns a deep copy of the island's selection policy.
func (i *Island) SelectionPolicy() migration.SelectionPolicy {
	i.Join()
	return i.sPolicy.Clone()
}

// ReplacementPolicy returns a deep copy of the island's replacement policy.
func (i *Island) ReplacementPolicy() migration.ReplacementPolicy {
	i.Join()
	return i.rPolicy.Clone()
}

// GetEmigrants returns the individuals the selection policy offers for
// migration. Called by the archipelago between generation rounds.
func (i *Island) GetEmigrants() []population.Individual {
	return i.sPolicy.Select(i.pop)
}

// AcceptImmigrants places incoming individuals into the population
// according to the replacement policy. Called by the archipelago between
// generation rounds, while the island is not mutating its population.
func (i *Island) AcceptImmigrants(immigrants []population.Individual) {
	placements := i.rPolicy.Select(immigrants, i.pop)
	for _, pl := range placements {
		i.pop.Replace(pl.Slot, immigrants[pl.Immigrant])
	}
}
