package async

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

// Job is one unit of work. Fn receives a context bounded by the pool's
// per-job timeout.
type Job struct {
	ID          uuid.UUID
	Name        string
	SubmittedAt time.Time
	Fn          func(ctx context.Context) error
}

// Pool runs jobs on a fixed number of workers fed by a bounded queue.
// Submit never spawns work beyond the queue: it rejects or, with
// WithBlockOnFull, waits.
type Pool struct {
	logger      *slog.Logger
	workers     int
	timeout     time.Duration
	blockOnFull bool
	onDone      func(Job, error)

	// jobs derive their context from base; Shutdown cancels it
	parent context.Context
	base   context.Context
	cancel context.CancelFunc

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithBlockOnFull makes Submit wait for queue space instead of rejecting.
func WithBlockOnFull(b bool) Option {
	return func(p *Pool) { p.blockOnFull = b }
}

// WithBaseContext parents every job context on ctx, so cancelling ctx
// reaches jobs that are already running.
func WithBaseContext(ctx context.Context) Option {
	return func(p *Pool) {
		if ctx != nil {
			p.parent = ctx
		}
	}
}

// WithOnDone registers a callback run by the worker after each job.
func WithOnDone(fn func(Job, error)) Option {
	return func(p *Pool) { p.onDone = fn }
}

func NewPool(logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		logger:  logger,
		workers: runtime.NumCPU(),
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
		parent:  context.Background(),
	}
	for _, o := range opts {
		o(p)
	}
	p.base, p.cancel = context.WithCancel(p.parent)
	p.start()
	return p
}

func (p *Pool) start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go func(workerID int) {
				defer p.wg.Done()
				p.logger.Debug("worker started", "worker_id", workerID)
				for job := range p.ch {
					err := p.run(job)
					if err != nil {
						p.logger.Error("job failed", "worker_id", workerID, "job_id", job.ID, "name", job.Name, "error", err)
					} else {
						p.logger.Info("job done", "worker_id", workerID, "job_id", job.ID, "name", job.Name,
							"wait_ms", time.Since(job.SubmittedAt).Milliseconds())
					}
					if p.onDone != nil {
						p.onDone(job, err)
					}
				}
				p.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (p *Pool) run(job Job) (err error) {
	ctx, cancel := context.WithTimeout(p.base, p.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Fn(ctx)
}

// Submit enqueues fn and returns the job ID. A full queue yields
// common.ErrQueueFull unless the pool blocks on full; a shut-down pool yields
// common.ErrQueueClosed.
func (p *Pool) Submit(ctx context.Context, name string, fn func(ctx context.Context) error) (uuid.UUID, error) {
	job := Job{ID: uuid.New(), Name: name, SubmittedAt: time.Now(), Fn: fn}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("cannot submit: pool is shutting down", "name", name)
		return uuid.Nil, common.NewAppError(common.CodeQueueClosed, "pool is shut down", common.ErrQueueClosed)
	}

	select {
	case p.ch <- job:
		p.logger.Debug("job queued", "job_id", job.ID, "name", name)
		return job.ID, nil
	default:
	}
	if !p.blockOnFull {
		p.logger.Warn("queue full, rejecting job", "name", name)
		return uuid.Nil, common.NewAppError(common.CodeQueueFull, "worker queue is full", common.ErrQueueFull)
	}
	select {
	case p.ch <- job:
		p.logger.Debug("job queued after backpressure", "job_id", job.ID, "name", name)
		return job.ID, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
}

// Do submits fn and waits for its result.
func (p *Pool) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, name, func(jctx context.Context) (struct{}, error) {
		return struct{}{}, fn(jctx)
	})
	return err
}

// DoValue submits fn to p and waits for the value it returns. The value is
// handed back over a channel, so a caller that gives up on ctx never shares
// memory with a job that is still running.
func DoValue[T any](ctx context.Context, p *Pool, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	_, err := p.Submit(ctx, name, func(jctx context.Context) (err error) {
		var val T
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
			done <- result{val: val, err: err}
		}()
		val, err = fn(jctx)
		return err
	})
	var zero T
	if err != nil {
		return zero, err
	}
	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Workers reports the pool size.
func (p *Pool) Workers() int { return p.workers }

// Shutdown stops intake and waits for queued jobs until ctx is done. If ctx
// ends first, running jobs see their context cancelled.
func (p *Pool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.ch)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); p.wg.Wait() }()

	defer p.cancel()
	select {
	case <-ctx.Done():
		p.logger.Warn("shutdown interrupted, cancelling running jobs")
	case <-done:
		p.logger.Info("pool drained, shutdown complete")
	}
}
