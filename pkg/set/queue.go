package set

import (
	"context"
	"sync"
)

// ProposalQueue is the FIFO of players awaiting a verdict. At most one
// participant at a time is admitted into an enqueue or drain step: players
// acquire the exclusivity token while handling their key presses and
// submitting, the dealer acquires it for a whole drain. Every submit pings
// the dealer's wake channel so it validates without waiting out its full
// sleep.
type ProposalQueue struct {
	// sem is the exclusivity token. Goroutines blocked on a channel are
	// released in FIFO order, which keeps admission fair.
	sem chan struct{}

	mu      sync.Mutex
	pending []int

	wake chan<- struct{}
}

// NewProposalQueue creates a queue presized for capacity pending proposals
// (one per player). SubmitLocked does not reject entries beyond capacity.
// The wake channel is pinged on every submit.
func NewProposalQueue(capacity int, wake chan<- struct{}) *ProposalQueue {
	return &ProposalQueue{
		sem:     make(chan struct{}, 1),
		pending: make([]int, 0, capacity),
		wake:    wake,
	}
}

// Acquire blocks until the caller holds the exclusivity token, or until the
// context is canceled.
func (q *ProposalQueue) Acquire(ctx context.Context) error {
	select {
	case q.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the exclusivity token if it is free.
func (q *ProposalQueue) TryAcquire() bool {
	select {
	case q.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns the exclusivity token.
func (q *ProposalQueue) Release() {
	select {
	case <-q.sem:
	default:
		panic("set: proposal queue released without holding the token")
	}
}

// SubmitLocked appends a player to the queue and wakes the dealer. The
// caller must hold the exclusivity token.
func (q *ProposalQueue) SubmitLocked(player int) {
	q.mu.Lock()
	q.pending = append(q.pending, player)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// DrainOneLocked pops the oldest pending player. The caller must hold the
// exclusivity token.
func (q *ProposalQueue) DrainOneLocked() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return 0, false
	}
	player := q.pending[0]
	q.pending = q.pending[1:]
	return player, true
}

// Empty reports whether no proposal is pending. Advisory: the answer may be
// stale by the time the caller acts on it.
func (q *ProposalQueue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) == 0
}

// Len returns the number of pending proposals.
func (q *ProposalQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
