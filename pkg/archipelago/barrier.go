package archipelago

import (
	"sync"
)

// startBarrier gates the start of an evolution round: every participating
// worker blocks until all of them have arrived. A fresh barrier is created
// per round, so no reuse logic is needed.
type startBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int
	arrived int
}

func newStartBarrier(size int) *startBarrier {
	b := &startBarrier{size: size}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until size workers have called wait.
func (b *startBarrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.arrived++
	if b.arrived >= b.size {
		b.cond.Broadcast()
		return
	}
	for b.arrived < b.size {
		b.cond.Wait()
	}
}
