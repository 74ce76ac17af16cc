package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hackorsnooze/story-client/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 64
)

// ErrStopped is returned by Do once the dispatcher's context is done, or
// before Start was called.
var ErrStopped = errors.New("dispatcher stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(context.Context) error
	done chan error
}

// Dispatcher routes mutations to a fixed set of workers using consistent
// hashing on a key, so two mutations with the same key never overlap and run
// in submission order.
type Dispatcher struct {
	workers []chan job
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped <-chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.stopped = ctx.Done()
	d.mu.Unlock()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Do runs fn on the worker owning key and waits for it to return. A job that
// has been queued always runs to completion with ctx's values but without its
// cancellation; cancelling ctx only aborts the wait for a free queue slot.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	d.mu.RLock()
	stopped := d.stopped
	d.mu.RUnlock()
	if stopped == nil {
		return ErrStopped
	}

	idx := d.shardIndex(key)
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}
	depth := metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- j:
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	case <-stopped:
		depth.Dec()
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	depth := metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			// Once issued, a call is always seen through: the caller going
			// away must not abort it before its answer is reconciled.
			err := j.fn(context.WithoutCancel(j.ctx))
			if err != nil {
				d.log.Debug().Err(err).
					Str("key", j.key).
					Int("worker_id", id).
					Msg("mutation failed")
			}
			j.done <- err
		}
	}
}
