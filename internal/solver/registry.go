package solver

import (
	"fmt"

	"example.com/mastermind/internal/puzzle"
)

// Registry owns one hint service per difficulty plus the shared worker pool.
// Code spaces are enumerated once, at construction.
type Registry struct {
	pool   *Pool
	byName map[string]*HintService
}

func NewRegistry(diffs []puzzle.Difficulty, sampleSeed int64, workers int) (*Registry, error) {
	r := &Registry{
		pool:   NewPool(workers),
		byName: make(map[string]*HintService, len(diffs)),
	}
	for _, d := range diffs {
		s, err := New(d, sampleSeed)
		if err != nil {
			r.pool.Close()
			return nil, fmt.Errorf("solver for %s: %w", d.Name, err)
		}
		r.byName[d.Name] = NewHintService(s)
	}
	return r, nil
}

// For returns the hint service for a difficulty name.
func (r *Registry) For(name string) (*HintService, bool) {
	svc, ok := r.byName[name]
	return svc, ok
}

func (r *Registry) Pool() *Pool { return r.pool }

// Close stops the worker pool. Queued computations still finish.
func (r *Registry) Close() { r.pool.Close() }
