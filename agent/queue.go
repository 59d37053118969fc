package agent

import (
	"sync"
)

// Latest is a single-slot queue: each Put overwrites the previous move. It is safe for
// one goroutine to Put while another calls Get.
type Latest[M any] struct {
	mu    sync.Mutex
	move  M
	count int
}

func (l *Latest[M]) Put(m M) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.move = m
	l.count++
}

// Get returns the last move put, and false if nothing has been put yet.
func (l *Latest[M]) Get() (M, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move, l.count > 0
}

// Count returns how many moves have been put.
func (l *Latest[M]) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Recorder keeps every published move in order.
type Recorder[M any] struct {
	Moves []M
}

func (r *Recorder[M]) Put(m M) {
	r.Moves = append(r.Moves, m)
}
