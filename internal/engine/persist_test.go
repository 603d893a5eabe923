package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncPersistenceDrainsOnClose(t *testing.T) {
	p := &memPersistence{}
	e := newTestEngine(t, p, WithAsyncPersistence())
	ctx := context.Background()

	for _, s := range []string{"bowline", "clove-hitch", "knots-quiz"} {
		out, err := e.CompleteStep(ctx, "knots", s)
		require.NoError(t, err)
		assert.NoError(t, out.PersistErr)
	}
	require.NoError(t, e.Close(ctx))

	commits := p.saved()
	require.Len(t, commits, 3)
	for i, c := range commits {
		assert.Equal(t, int64(i+1), c.Snapshot.Sequence)
	}
	assert.True(t, commits[2].Snapshot.User.CompletedModules.Has("knots"))
}

func TestAsyncPersistenceErrorHandler(t *testing.T) {
	boom := errors.New("disk full")
	var mu sync.Mutex
	var handled []error

	p := &memPersistence{saveErr: boom}
	e := newTestEngine(t, p, WithAsyncPersistence(), WithPersistErrorHandler(func(err error) {
		mu.Lock()
		handled = append(handled, err)
		mu.Unlock()
	}))

	_, err := e.CompleteStep(context.Background(), "fire", "fire-basics")
	require.NoError(t, err)
	require.NoError(t, e.Close(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	var w *PersistenceWarning
	require.ErrorAs(t, handled[0], &w)
	assert.ErrorIs(t, w, boom)
	assert.True(t, e.IsModuleCompleted("fire"))
}

func TestCloseDeadline(t *testing.T) {
	p := &memPersistence{gate: make(chan struct{})}
	e := newTestEngine(t, p, WithAsyncPersistence())

	_, err := e.CompleteStep(context.Background(), "fire", "fire-basics")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = e.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Let the writer finish so it exits before the leak check.
	close(p.gate)
	<-e.writer.done
	assert.Len(t, p.saved(), 1)
}

func TestCompleteStepAfterClose(t *testing.T) {
	e := newTestEngine(t, &memPersistence{}, WithAsyncPersistence())
	require.NoError(t, e.Close(context.Background()))
	require.NoError(t, e.Close(context.Background()), "close is idempotent")

	_, err := e.CompleteStep(context.Background(), "fire", "fire-basics")
	assert.ErrorIs(t, err, ErrClosed)
	// Queries still work.
	assert.False(t, e.IsModuleCompleted("fire"))
}

func TestSyncSaveDoesNotBlockQueries(t *testing.T) {
	p := &memPersistence{gate: make(chan struct{}), entered: make(chan struct{}, 2)}
	e := newTestEngine(t, p)
	ctx := context.Background()

	var wg sync.WaitGroup
	complete := func(moduleID, stepID string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.CompleteStep(ctx, moduleID, stepID)
			assert.NoError(t, err)
		}()
	}

	complete("knots", "bowline")
	<-p.entered
	// Queued behind the in-flight save.
	complete("fire", "fire-basics")

	queried := make(chan int)
	go func() {
		for e.TotalXP() != 50 {
			time.Sleep(time.Millisecond)
		}
		queried <- e.TotalXP()
	}()
	select {
	case xp := <-queried:
		assert.Equal(t, 50, xp)
	case <-time.After(2 * time.Second):
		close(p.gate)
		wg.Wait()
		<-queried
		t.Fatal("query blocked behind an in-flight save")
	}

	close(p.gate)
	wg.Wait()

	commits := p.saved()
	require.Len(t, commits, 2)
	assert.Equal(t, int64(1), commits[0].Snapshot.Sequence)
	assert.Equal(t, int64(2), commits[1].Snapshot.Sequence)
	assert.True(t, commits[1].Snapshot.User.CompletedModules.Has("fire"))
}

func TestPersistErrorHandlerMayQueryEngine(t *testing.T) {
	p := &memPersistence{
		saveErr: errors.New("disk full"),
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 2),
	}

	var (
		e    *Engine
		mu   sync.Mutex
		seen []int
	)
	e = newTestEngine(t, p, WithPersistErrorHandler(func(error) {
		xp := e.TotalXP()
		mu.Lock()
		seen = append(seen, xp)
		mu.Unlock()
	}))
	ctx := context.Background()

	var wg sync.WaitGroup
	complete := func(moduleID, stepID string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.CompleteStep(ctx, moduleID, stepID)
			assert.NoError(t, err)
			assert.Error(t, out.PersistErr)
		}()
	}

	complete("knots", "bowline")
	<-p.entered
	complete("fire", "fire-basics")
	require.Eventually(t, func() bool { return e.TotalXP() == 50 }, 2*time.Second, time.Millisecond)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	close(p.gate)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("completions did not finish after saves were released")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{50, 50}, seen)
}

func TestCloseWaitsForSyncSave(t *testing.T) {
	p := &memPersistence{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	e := newTestEngine(t, p)

	result := make(chan error, 1)
	go func() {
		_, err := e.CompleteStep(context.Background(), "fire", "fire-basics")
		result <- err
	}()
	<-p.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Close(ctx), context.DeadlineExceeded)

	close(p.gate)
	require.NoError(t, <-result)
	assert.Len(t, p.saved(), 1)
}
