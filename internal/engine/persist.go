package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/trailmark/internal/progress"
)

// PersistenceWarning reports a durable write that failed after the
// in-memory commit succeeded. The engine state is not rolled back.
type PersistenceWarning struct {
	Sequence int64
	Err      error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("persist progress (sequence %d): %v", w.Sequence, w.Err)
}

func (w *PersistenceWarning) Unwrap() error {
	return w.Err
}

// save writes one commit through the adapter. It returns a
// *PersistenceWarning on failure, or nil.
func (e *Engine) save(ctx context.Context, commit progress.Commit) error {
	if e.persist == nil {
		return nil
	}
	if err := e.persist.Save(ctx, commit); err != nil {
		w := &PersistenceWarning{Sequence: commit.Snapshot.Sequence, Err: err}
		e.log.Warn("progress not persisted", "sequence", w.Sequence, "error", err)
		return w
	}
	return nil
}

// persistCommit saves a commit and hands any failure to the error handler.
func (e *Engine) persistCommit(ctx context.Context, commit progress.Commit) {
	if err := e.save(ctx, commit); err != nil {
		e.reportPersistErr(err)
	}
}

func (e *Engine) reportPersistErr(err error) {
	if e.onPersist != nil {
		e.onPersist(err)
	}
}

// asyncWriter drains commits in order on a single goroutine.
type asyncWriter struct {
	write func(context.Context, progress.Commit)

	mu      sync.Mutex
	pending []progress.Commit

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newAsyncWriter(write func(context.Context, progress.Commit)) *asyncWriter {
	w := &asyncWriter{
		write: write,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *asyncWriter) enqueue(c progress.Commit) {
	w.mu.Lock()
	w.pending = append(w.pending, c)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *asyncWriter) drain() {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.mu.Unlock()
			return
		}
		batch := w.pending
		w.pending = nil
		w.mu.Unlock()

		for _, c := range batch {
			w.write(context.Background(), c)
		}
	}
}

// backlog returns the number of commits not yet handed to storage.
func (w *asyncWriter) backlog() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// close signals the writer to flush and waits for it to exit or for ctx
// to end.
func (w *asyncWriter) close(ctx context.Context) error {
	close(w.stop)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain persistence queue (%d pending): %w", w.backlog(), ctx.Err())
	}
}
