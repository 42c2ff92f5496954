package solver

import (
	"context"
	"errors"
	"sync"

	"example.com/mastermind/internal/puzzle"
)

// ErrPoolClosed is returned for work submitted after Close.
var ErrPoolClosed = errors.New("solver pool is closed")

// Pool runs solver computations off the caller's goroutine. Minimax search
// on the larger code spaces costs tens of thousands of score calls, so
// interactive callers submit here and read the result from a single-shot
// channel instead of blocking.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{jobs: make(chan func(), workers*2)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Submit queues fn for execution. When the queue is full it waits until
// there is room or ctx expires.
func (p *Pool) Submit(ctx context.Context, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the workers after the already queued jobs finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

// HintOutcome is delivered exactly once on the channel HintAsync returns.
type HintOutcome struct {
	Hint Hint
	Err  error
}

// HintAsync computes a hint on the pool. The returned channel is buffered,
// so a receiver that has gone away never blocks a worker. The history is
// copied before the job is queued; later mutations do not leak in.
func (h *HintService) HintAsync(ctx context.Context, p *Pool, history []puzzle.GuessResult) <-chan HintOutcome {
	out := make(chan HintOutcome, 1)
	snapshot := append([]puzzle.GuessResult(nil), history...)

	if err := p.Submit(ctx, func() {
		hint, err := h.Hint(snapshot)
		out <- HintOutcome{Hint: hint, Err: err}
	}); err != nil {
		out <- HintOutcome{Err: err}
	}
	return out
}

// AnalysisOutcome is delivered exactly once on the channel AnalyzeAsync
// returns.
type AnalysisOutcome struct {
	Analysis Analysis
	Err      error
}

func (h *HintService) AnalyzeAsync(ctx context.Context, p *Pool, guess puzzle.Code, fb puzzle.Feedback, before []puzzle.GuessResult) <-chan AnalysisOutcome {
	out := make(chan AnalysisOutcome, 1)
	snapshot := append([]puzzle.GuessResult(nil), before...)

	if err := p.Submit(ctx, func() {
		a, err := h.Analyze(guess, fb, snapshot)
		out <- AnalysisOutcome{Analysis: a, Err: err}
	}); err != nil {
		out <- AnalysisOutcome{Err: err}
	}
	return out
}
