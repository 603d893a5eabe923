package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/trailmark/internal/catalog"
	"github.com/abhisek/trailmark/internal/logger"
	"github.com/abhisek/trailmark/internal/progress"
)

// ErrClosed is returned by CompleteStep after Close.
var ErrClosed = errors.New("engine is closed")

// Persistence is the durable storage the engine writes its state to.
// Load returns nil and no error when nothing has been saved yet.
type Persistence interface {
	Load(ctx context.Context) (*progress.Snapshot, error)
	Save(ctx context.Context, commit progress.Commit) error
}

// Engine owns the progress store and user aggregate. All mutation goes
// through CompleteStep; everything else is a read-only query.
type Engine struct {
	catalog *catalog.Catalog
	persist Persistence
	log     *logger.Logger
	now     func() time.Time

	async     bool
	onPersist func(error)
	writer    *asyncWriter
	closeOnce sync.Once

	mu      sync.RWMutex
	modules map[string]*progress.ModuleProgress
	user    progress.UserProgress
	seq     int64
	savedAt time.Time
	closed  bool

	// lastSave is closed when the most recent synchronous save finishes.
	lastSave chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards output.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the time source used for progress timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithAsyncPersistence moves durable writes to a background writer.
// CompleteStep returns as soon as the in-memory commit is done; Close
// drains pending writes.
func WithAsyncPersistence() Option {
	return func(e *Engine) { e.async = true }
}

// WithPersistErrorHandler registers a callback for persistence failures.
// It is called from the writer goroutine in async mode. No engine lock is
// held during the call, so the handler may query the engine.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onPersist = fn }
}

// New creates an engine over cat, restoring state from p. A nil
// Persistence runs the engine purely in memory.
func New(ctx context.Context, cat *catalog.Catalog, p Persistence, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("engine requires a catalog")
	}
	e := &Engine{
		catalog: cat,
		persist: p,
		log:     logger.Nop(),
		now:     time.Now,
		modules: make(map[string]*progress.ModuleProgress),
		user:    progress.NewUserProgress(),
	}
	for _, opt := range opts {
		opt(e)
	}

	var snap *progress.Snapshot
	if p != nil {
		var err error
		snap, err = p.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
	}
	e.restore(snap)

	if e.async {
		e.writer = newAsyncWriter(e.persistCommit)
	}
	return e, nil
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Outcome describes the effects of one CompleteStep call.
type Outcome struct {
	ModuleID           string
	StepID             string
	StepNewlyCompleted bool
	ModuleCompleted    bool // true only on the module's first completion
	XPAwarded          int
	TotalXP            int
	Level              int
	LevelUp            bool
	UnlockedTracks     []string
	EarnedBadges       []string
	Events             []progress.Event

	// PersistErr is a *PersistenceWarning when the durable write failed.
	// The in-memory state is committed regardless. Always nil in async
	// mode; failures there go to the persist-error handler.
	PersistErr error
}

// CompleteStep marks stepID of moduleID completed and applies any rewards
// that follow: module XP, level, track unlocks, and the track badge.
//
// Unknown modules and steps (including a step that belongs to a different
// module) return an error matching catalog.ErrNotFound and change nothing.
// Repeating a completion is a no-op apart from the durable write.
func (e *Engine) CompleteStep(ctx context.Context, moduleID, stepID string) (Outcome, error) {
	mod, err := e.catalog.Module(moduleID)
	if err != nil {
		return Outcome{}, err
	}
	if _, err := e.catalog.Step(moduleID, stepID); err != nil {
		return Outcome{}, err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	out, commit := e.apply(mod, stepID)

	if e.writer != nil {
		e.writer.enqueue(commit)
		e.mu.Unlock()
		return out, nil
	}

	// Each save waits for the one before it so commits reach storage in
	// sequence order. The wait happens outside the state lock.
	prev, done := e.lastSave, make(chan struct{})
	e.lastSave = done
	e.mu.Unlock()

	if prev != nil {
		<-prev
	}
	err = e.save(ctx, commit)
	close(done)
	if err != nil {
		out.PersistErr = err
		e.reportPersistErr(err)
	}
	return out, nil
}

// apply records the step and any rewards it triggers against the live state and
// builds the commit to persist. Callers hold the write lock.
func (e *Engine) apply(mod catalog.Module, stepID string) (Outcome, progress.Commit) {
	now := e.now().UTC()
	out := Outcome{ModuleID: mod.ID, StepID: stepID}

	mp, ok := e.modules[mod.ID]
	if !ok {
		mp = progress.NewModuleProgress(mod.ID, now)
		e.modules[mod.ID] = mp
	}

	if mp.CompleteStep(stepID, now) {
		out.StepNewlyCompleted = true
		out.Events = append(out.Events, progress.Event{
			Kind:     progress.EventStepCompleted,
			ModuleID: mod.ID,
			StepID:   stepID,
			TrackID:  mod.TrackID,
			At:       now,
		})
	}

	if mp.AllCompleted(mod.StepIDs()) && mp.MarkCompleted(now) {
		out.ModuleCompleted = true
		out.XPAwarded = mod.XPReward
		out.LevelUp = e.user.AddXP(mod.XPReward)
		e.user.CompletedModules.Add(mod.ID)
		out.Events = append(out.Events, progress.Event{
			Kind:     progress.EventModuleCompleted,
			ModuleID: mod.ID,
			TrackID:  mod.TrackID,
			XP:       mod.XPReward,
			At:       now,
		})

		for _, trackID := range e.unlockTracks() {
			out.UnlockedTracks = append(out.UnlockedTracks, trackID)
			out.Events = append(out.Events, progress.Event{
				Kind:    progress.EventTrackUnlocked,
				TrackID: trackID,
				At:      now,
			})
		}
	}

	if badge, ok := e.awardTrackBadge(mod.TrackID); ok {
		out.EarnedBadges = append(out.EarnedBadges, badge.ID)
		out.Events = append(out.Events, progress.Event{
			Kind:    progress.EventBadgeEarned,
			TrackID: badge.TrackID,
			BadgeID: badge.ID,
			At:      now,
		})
	}

	out.TotalXP = e.user.TotalXP
	out.Level = e.user.CurrentLevel

	e.seq++
	e.savedAt = now
	commit := progress.Commit{Snapshot: e.snapshotLocked(), Events: out.Events}

	if out.ModuleCompleted {
		e.log.Info("module completed",
			"module", mod.ID, "xp", out.XPAwarded, "total_xp", out.TotalXP, "level", out.Level)
	}
	for _, id := range out.UnlockedTracks {
		e.log.Info("track unlocked", "track", id, "total_xp", out.TotalXP)
	}
	for _, id := range out.EarnedBadges {
		e.log.Info("badge earned", "badge", id, "track", mod.TrackID)
	}
	e.log.Debug("step completed",
		"module", mod.ID, "step", stepID, "new", out.StepNewlyCompleted, "sequence", e.seq)

	return out, commit
}

// Close waits for in-flight and queued writes until ctx is done, then
// stops the background writer. CompleteStep fails with ErrClosed
// afterwards; queries keep working.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		last := e.lastSave
		e.mu.Unlock()

		if e.writer != nil {
			err = e.writer.close(ctx)
			return
		}
		if last != nil {
			select {
			case <-last:
			case <-ctx.Done():
				err = fmt.Errorf("wait for in-flight save: %w", ctx.Err())
			}
		}
	})
	return err
}
