// Package worker evaluates queued profiles in the background.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/medalist/internal/adapters/mq/queue"
	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/pkg/logger"
	"github.com/okian/medalist/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Evaluator classifies every catalog award for one stored profile.
type Evaluator interface {
	EvaluateAll(ctx context.Context, profileID string) (eligibility.Summary, error)
}

// Outcome is what a worker produces for one job.
type Outcome struct {
	JobID     string              `json:"jobId"`
	ProfileID string              `json:"profileId"`
	Summary   eligibility.Summary `json:"summary"`
	Err       error               `json:"-"`
}

// Sink receives outcomes as jobs finish.
type Sink interface {
	Deliver(ctx context.Context, o Outcome)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, o Outcome)

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, o Outcome) { f(ctx, o) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Wait blocks until the worker has drained its queue and exited.
	Wait(ctx context.Context) error

	// Shutdown stops the worker and waits for the current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	sink      Sink
	name      string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, evaluator Evaluator, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		evaluator: evaluator,
		sink:      sink,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}
	return w
}

// Run starts the worker loop. It returns once the job channel is closed and
// drained, ctx is canceled, or Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Wait implements Worker.Wait.
func (w *InMemoryWorker) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker %s still running: %w", w.name, ctx.Err())
	}
}

// Shutdown implements Worker.Shutdown. Jobs still queued are left behind.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })
	if err := w.Wait(ctx); err != nil {
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", err)
	}
	return nil
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	metrics.AddWorkerActive(1)
	defer func() {
		metrics.AddWorkerActive(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	summary, err := w.evaluator.EvaluateAll(ctx, job.ProfileID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordError("worker", "evaluation_error")
		w.logger.Error(ctx, "evaluation failed",
			logger.String("jobID", job.ID),
			logger.String("profileID", job.ProfileID),
			logger.Error(err),
		)
	}
	w.sink.Deliver(ctx, Outcome{
		JobID:     job.ID,
		ProfileID: job.ProfileID,
		Summary:   summary,
		Err:       err,
	})
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. A non-positive count uses runtime.NumCPU.
func NewPool(workerCount int, q Queue, evaluator Evaluator, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, evaluator, sink, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue when it supports closing and lets the workers
// drain it. Workers still busy when ctx or the pool timeout expires are
// stopped, leaving their remaining jobs undelivered.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		if err := w.Wait(shutdownCtx); err != nil {
			timedOut++
			p.logger.Warn(ctx, "worker did not drain in time", logger.Int("worker_id", i))
			w.stopOnce.Do(func() { close(w.shutdown) })
		}
	}
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not stop: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
