// Package bridge moves effect jobs from callers to an isolated pool of
// executing goroutines and delivers correlated outcomes back without blocking
// the caller. The two sides share no mutable state: job inputs are deep-copied
// on submit, and the only shared structure is the per-bridge Registry.
package bridge

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/dmaxwell/rasterfx/internal/domain"
	"github.com/dmaxwell/rasterfx/internal/effects"
)

var (
	ErrClosed    = errors.New("bridge is closed")
	ErrQueueFull = errors.New("bridge job queue is full")
)

const defaultQueueDepth = 128

type Options struct {
	// Workers is the number of executing goroutines. With one worker jobs run
	// strictly in arrival order; with more, callers must correlate outcomes by
	// id and never rely on delivery order.
	Workers int
	// QueueDepth bounds how many submitted jobs may wait for a worker.
	QueueDepth int
}

type Bridge struct {
	logger   *log.Logger
	registry *Registry
	jobs     chan domain.EffectJob
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func New(logger *log.Logger, opts Options) *Bridge {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	depth := opts.QueueDepth
	if depth < 1 {
		depth = defaultQueueDepth
	}

	b := &Bridge{
		logger:   logger,
		registry: NewRegistry(logger),
		jobs:     make(chan domain.EffectJob, depth),
	}

	b.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go b.worker()
	}
	return b
}

// Submit registers the job and hands it to the executing side, returning a
// single-delivery outcome channel immediately. It never blocks on the
// computation: a full queue is reported as ErrQueueFull instead of waiting.
// Once accepted, a job runs to completion; there is no cancellation, and a
// caller that stops caring simply discards the channel.
func (b *Bridge) Submit(job domain.EffectJob) (<-chan domain.EffectOutcome, error) {
	if strings.TrimSpace(job.ID) == "" {
		return nil, fmt.Errorf("job id is required")
	}
	if err := job.Input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job input: %w", err)
	}

	future := make(chan domain.EffectOutcome, 1)
	if err := b.registry.Register(job.ID, func(outcome domain.EffectOutcome) {
		future <- outcome
	}); err != nil {
		return nil, err
	}

	// Copy-on-send: the executing side must never observe caller mutations
	// made after submission.
	job.Input = job.Input.Clone()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		b.registry.Remove(job.ID)
		return nil, ErrClosed
	}

	select {
	case b.jobs <- job:
		return future, nil
	default:
		b.registry.Remove(job.ID)
		return nil, ErrQueueFull
	}
}

// InFlight reports the number of submitted jobs whose outcomes have not yet
// been delivered.
func (b *Bridge) InFlight() int {
	return b.registry.Size()
}

// Close stops accepting jobs and waits for queued work to drain.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.jobs)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bridge) worker() {
	defer b.wg.Done()
	for job := range b.jobs {
		outcome := execute(job)
		b.registry.Resolve(outcome.ID, outcome)
	}
}

// execute runs one effect and converts every failure mode, unknown effect,
// effect error or panic, into the pass-through error outcome. A failing job
// must never take the worker down with it.
func execute(job domain.EffectJob) (outcome domain.EffectOutcome) {
	outcome = domain.EffectOutcome{ID: job.ID, Output: job.Input}

	defer func() {
		if r := recover(); r != nil {
			outcome.Output = job.Input
			outcome.Err = fmt.Sprintf("effect %q panicked: %v", job.Effect, r)
		}
	}()

	output, err := effects.Apply(job.Effect, job.Input, effects.Params(job.Params))
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}

	outcome.Output = output
	return outcome
}
