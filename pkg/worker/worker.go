// Package worker runs catalog merges on a dedicated background goroutine.
// Requests and responses travel over channels so merge work never blocks
// the goroutine that produced the records; when the worker is not running,
// Merge falls back to executing synchronously with identical results.
package worker

import (
	"context"
	"sync"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/errors"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/reconcile"
)

const defaultQueueSize = 8

// Request describes one merge of incoming records into a working set.
type Request struct {
	Current  []catalogs.Model
	Incoming []catalogs.Model

	// AutoMergeDuplicates enables fuzzy name matching and name-based
	// duplicate collapsing during the merge.
	AutoMergeDuplicates bool

	reply chan Response
}

// Response is the outcome of one merge request.
type Response struct {
	Models  []catalogs.Model
	Added   int
	Updated int
}

// Merger owns the background merge goroutine.
type Merger struct {
	queue chan Request

	mu      sync.Mutex
	started bool
	done    chan struct{}

	// senders tracks in-flight queue sends so Stop never closes the
	// queue under one.
	senders sync.WaitGroup
}

// Option configures a Merger.
type Option func(*Merger)

// WithQueueSize sets the request queue depth.
func WithQueueSize(n int) Option {
	return func(m *Merger) {
		if n > 0 {
			m.queue = make(chan Request, n)
		}
	}
}

// New creates a Merger. Call Start to launch the background goroutine;
// without it, Merge runs synchronously.
func New(opts ...Option) *Merger {
	m := &Merger{
		queue: make(chan Request, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the background goroutine. Starting twice is a no-op.
func (m *Merger) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.done = make(chan struct{})
	go run(m.queue, m.done)
}

// Stop shuts the background goroutine down and waits for in-flight work.
// Subsequent Merge calls run synchronously until Start is called again.
func (m *Merger) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	done := m.done
	m.mu.Unlock()

	m.senders.Wait()
	close(m.queue)
	<-done

	m.mu.Lock()
	m.queue = make(chan Request, cap(m.queue))
	m.mu.Unlock()
}

// Running reports whether the background goroutine is active.
func (m *Merger) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Merge executes one merge request. When the worker is running the request
// is handed to the background goroutine and Merge waits for its reply;
// otherwise the merge runs inline. Cancellation while waiting returns
// errors.ErrCanceled.
func (m *Merger) Merge(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	started := m.started
	queue := m.queue
	if started {
		m.senders.Add(1)
	}
	m.mu.Unlock()

	if !started {
		return execute(req), nil
	}

	if err := ctx.Err(); err != nil {
		m.senders.Done()
		return Response{}, errors.WrapCanceled("merge", err)
	}

	req.reply = make(chan Response, 1)
	select {
	case queue <- req:
		m.senders.Done()
	case <-ctx.Done():
		m.senders.Done()
		return Response{}, errors.WrapCanceled("merge", ctx.Err())
	}

	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, errors.WrapCanceled("merge", ctx.Err())
	}
}

// run drains the queue until Stop closes it.
func run(queue chan Request, done chan struct{}) {
	defer close(done)
	for req := range queue {
		resp := execute(req)
		if req.reply != nil {
			req.reply <- resp
		}
	}
	logging.Debug().Msg("Merge worker stopped")
}

// execute performs the merge. Both the background and the synchronous path
// go through here so results are identical regardless of delivery.
func execute(req Request) Response {
	batch := reconcile.MergeBatch(req.Current, req.Incoming, req.AutoMergeDuplicates)
	return Response{
		Models:  batch.Models,
		Added:   batch.Added,
		Updated: batch.Updated,
	}
}
