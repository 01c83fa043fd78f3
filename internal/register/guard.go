package register

import (
	"fmt"
	"sync"
)

// inflight rejects a second call of an operation while the first one for
// the same cashier is still running.
type inflight struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{pending: make(map[string]struct{})}
}

func (g *inflight) acquire(op string, cashierID uint) (func(), error) {
	key := fmt.Sprintf("%s:%d", op, cashierID)

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return nil, ErrOperationPending
	}
	g.pending[key] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.pending, key)
		g.mu.Unlock()
	}, nil
}
