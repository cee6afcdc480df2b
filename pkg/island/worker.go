package island

import (
	"context"
	"time"

	"github.com/openevo/archipelago/internal/errors"
	"github.com/openevo/archipelago/internal/monitoring"
)

// worker is the handle of one evolution run. At most one exists per island;
// it is discarded on Join.
type worker struct {
	done   chan struct{}
	cancel context.CancelFunc
}

// Evolve launches a worker that calls the algorithm's Evolve exactly n
// times on the internal population. In non-blocking mode it returns
// immediately after dispatch; in blocking mode it runs the whole evolution
// on the calling goroutine and returns its error.
func (i *Island) Evolve(n int) error {
	i.Join()
	if n < 0 {
		return errors.NewValueError("island", "evolve", "number of evolutions must be nonnegative")
	}
	return i.dispatch(func(ctx context.Context) error {
		for k := 0; k < n; k++ {
			if err := i.round(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// EvolveT launches a worker that calls the algorithm's Evolve at least once
// and keeps calling it until the wall-clock time elapsed since the start of
// the run reaches t.
func (i *Island) EvolveT(t time.Duration) error {
	i.Join()
	if t < 0 {
		return errors.NewValueError("island", "evolve_t", "evolution time must be nonnegative")
	}
	return i.dispatch(func(ctx context.Context) error {
		start := time.Now()
		for {
			if err := i.round(ctx); err != nil {
				return err
			}
			if time.Since(start) >= t {
				return nil
			}
		}
	})
}

// round is one generation round: immigrants in, one evolve call, emigrants
// out, then the cooperative interruption check-point.
func (i *Island) round(ctx context.Context) error {
	if i.archi != nil {
		i.archi.PreEvolution(i)
	}
	if err := i.algo.Evolve(i.pop); err != nil {
		return err
	}
	if i.archi != nil {
		i.archi.PostEvolution(i)
	}
	monitoring.RecordEvolution(i.name)
	if !i.IsBlocking() {
		select {
		case <-ctx.Done():
			return errors.NewRuntimeError("island", "evolve", "evolution interrupted")
		default:
		}
	}
	return nil
}

// dispatch runs the body either synchronously (blocking mode) or on a new
// worker goroutine. Worker errors in blocking mode propagate to the caller;
// in non-blocking mode they are logged and the worker terminates, leaving
// the island idle for the next Join.
func (i *Island) dispatch(body func(ctx context.Context) error) error {
	if i.IsBlocking() {
		return i.finishRun(body, context.Background())
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	i.worker = w

	go func() {
		defer close(w.done)
		if err := i.finishRun(body, ctx); err != nil {
			if errors.IsRuntimeError(err) {
				i.log.Info("evolution interrupted: %v", err)
				monitoring.RecordWorkerError("interrupted")
			} else {
				i.log.Error("evolution failed: %v", err)
				monitoring.RecordWorkerError("evolve")
			}
		}
	}()
	return nil
}

// finishRun wraps the worker body with the start barrier and the evolution
// time accounting shared by count-based and time-based runs.
func (i *Island) finishRun(body func(ctx context.Context) error, ctx context.Context) error {
	start := time.Now()
	// Blocking islands never await the archipelago barrier: the barrier
	// is sized to the non-blocking islands of the round.
	if i.archi != nil && !i.IsBlocking() {
		i.archi.SyncIslandStart()
	}
	err := body(ctx)

	// Guard against clocks reporting non-positive deltas; discard rather
	// than propagate them.
	elapsed := time.Since(start)
	if ms := elapsed.Milliseconds(); ms >= 0 {
		i.evoTime += time.Duration(ms) * time.Millisecond
		monitoring.AddEvolutionTime(i.name, ms)
	}
	if i.pop.Size() > 0 {
		if champ := i.pop.Champion(); len(champ.F) > 0 {
			monitoring.SetChampionFitness(i.name, champ.F[0])
		}
	}
	return err
}
