package archipelago

import (
	"sync"
	"time"

	"github.com/openevo/archipelago/internal/monitoring"
	"github.com/openevo/archipelago/internal/random"
	"github.com/openevo/archipelago/pkg/island"
	"github.com/openevo/archipelago/pkg/population"
)

// Archipelago binds islands into a migration topology. It owns its islands:
// once pushed, an island is under the archipelago's care and keeps a
// non-owning back-reference to it.
//
// Migration is a per-round Bernoulli trial: after each generation round the
// emigrants of an island are forwarded to its topological neighbours with
// probability equal to the island's migration probability.
type Archipelago struct {
	topo    Topology
	islands []*island.Island
	index   map[*island.Island]int

	// mu guards the migrant queues and the migration coin flips, which are
	// touched concurrently by island workers.
	mu      sync.Mutex
	inboxes [][]population.Individual
	rng     *random.Source

	barrier *startBarrier
}

// Option customises archipelago construction.
type Option func(*Archipelago)

// WithSeed sets the seed of the stream driving the migration coin flips.
func WithSeed(seed int64) Option {
	return func(a *Archipelago) { a.rng = random.NewSource(seed) }
}

// New creates an empty archipelago with the given topology.
func New(topo Topology, opts ...Option) *Archipelago {
	a := &Archipelago{
		topo:  topo,
		index: make(map[*island.Island]int),
		rng:   random.NewSource(1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Topology returns the archipelago's topology.
func (a *Archipelago) Topology() Topology {
	return a.topo
}

// Push adds an island to the archipelago and attaches the back-reference.
// Any pending evolution on the island is drained first.
func (a *Archipelago) Push(isl *island.Island) {
	a.Join()
	isl.Attach(a)
	a.index[isl] = len(a.islands)
	a.islands = append(a.islands, isl)
	a.inboxes = append(a.inboxes, nil)
}

// Size returns the number of islands.
func (a *Archipelago) Size() int {
	return len(a.islands)
}

// Islands returns the archipelago's islands. The slice is a copy; the
// islands are the archipelago's own.
func (a *Archipelago) Islands() []*island.Island {
	out := make([]*island.Island, len(a.islands))
	copy(out, a.islands)
	return out
}

// Evolve starts n evolution rounds on every island. Non-blocking islands
// run concurrently and synchronise on a start barrier; blocking islands run
// inline on the calling goroutine. Use Join to wait for completion.
func (a *Archipelago) Evolve(n int) error {
	a.Join()
	a.resetBarrier()
	for _, isl := range a.islands {
		if err := isl.Evolve(n); err != nil {
			return err
		}
	}
	return nil
}

// EvolveT starts a time-based evolution of at least t on every island.
func (a *Archipelago) EvolveT(t time.Duration) error {
	a.Join()
	a.resetBarrier()
	for _, isl := range a.islands {
		if err := isl.EvolveT(t); err != nil {
			return err
		}
	}
	return nil
}

// Join blocks until every island has finished evolving.
func (a *Archipelago) Join() {
	for _, isl := range a.islands {
		isl.Join()
	}
}

// Busy reports whether any island still has an unjoined worker.
func (a *Archipelago) Busy() bool {
	for _, isl := range a.islands {
		if isl.Busy() {
			return true
		}
	}
	return false
}

// resetBarrier sizes the start barrier to the islands that will actually
// reach it: blocking islands never await the barrier.
func (a *Archipelago) resetBarrier() {
	count := 0
	for _, isl := range a.islands {
		if !isl.IsBlocking() {
			count++
		}
	}
	a.barrier = newStartBarrier(count)
}

// SyncIslandStart blocks until all sibling non-blocking islands of the
// current round have reached the same barrier.
func (a *Archipelago) SyncIslandStart() {
	a.barrier.wait()
}

// PreEvolution delivers the queued immigrants of the island, if any.
func (a *Archipelago) PreEvolution(isl *island.Island) {
	a.mu.Lock()
	idx, ok := a.index[isl]
	if !ok {
		a.mu.Unlock()
		return
	}
	incoming := a.inboxes[idx]
	a.inboxes[idx] = nil
	a.mu.Unlock()

	if len(incoming) > 0 {
		isl.AcceptImmigrants(incoming)
		monitoring.RecordMigrants("in", len(incoming))
	}
}

// PostEvolution collects the island's emigrants and, with probability equal
// to the island's migration probability, queues them for its topological
// neighbours.
func (a *Archipelago) PostEvolution(isl *island.Island) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, ok := a.index[isl]
	if !ok {
		return
	}
	if a.rng.Float64() >= isl.MigrationProbability() {
		return
	}
	neighbors := a.topo.Neighbors(idx, len(a.islands))
	if len(neighbors) == 0 {
		return
	}
	emigrants := isl.GetEmigrants()
	if len(emigrants) == 0 {
		return
	}
	for _, nb := range neighbors {
		for _, em := range emigrants {
			a.inboxes[nb] = append(a.inboxes[nb], em.Clone())
		}
	}
	monitoring.RecordMigrants("out", len(emigrants)*len(neighbors))
}
