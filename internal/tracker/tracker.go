// Package tracker owns the authoritative in-memory aggregate and funnels
// every state change through a single commit path: replace the in-memory
// collections, save the full aggregate to the local store, and, when cloud
// sync is enabled, fire-and-forget a push to the mirror. There is no partial
// update and no transaction narrower than the whole aggregate.
package tracker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/internal/mirror"
	"github.com/protrack-ai/protrack/internal/store"
	"github.com/protrack-ai/protrack/pkg/types"
)

// Tracker is the mutation funnel plus the domain operations built on it.
type Tracker struct {
	mu        sync.RWMutex
	agg       types.Aggregate
	appConfig types.AppConfig

	store *store.Store
	log   *zap.Logger

	// Sync state, guarded by mu. generation increments on every sync
	// enable/disable so late pushes and stale subscription deliveries can
	// be detected and dropped.
	client     *mirror.Client
	syncCancel func()
	generation uint64

	// Overridable in tests.
	now func() time.Time
}

// New loads the persisted aggregate and app config and returns a tracker.
// Local reads tolerate absence and corruption, falling back to defaults.
func New(st *store.Store, log *zap.Logger) *Tracker {
	return &Tracker{
		agg:       st.LoadAggregate(),
		appConfig: st.LoadAppConfig(),
		store:     st,
		log:       log,
		now:       time.Now,
	}
}

// Close tears down the sync subscription if one is active.
func (t *Tracker) Close() {
	t.DisableSync()
}

// Snapshot returns a deep copy of the current aggregate.
func (t *Tracker) Snapshot() types.Aggregate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.agg.Clone()
}

// AppConfig returns the current app configuration.
func (t *Tracker) AppConfig() types.AppConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.appConfig
}

// SetAppConfig replaces and persists the app configuration.
func (t *Tracker) SetAppConfig(cfg types.AppConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appConfig = cfg
	return t.store.SaveAppConfig(cfg)
}

// mutate runs fn against a deep copy of the current aggregate and commits
// the result through the funnel. A non-nil error from fn leaves state
// untouched. Commits are strictly ordered: memory and local store are
// updated under the lock, in invocation order.
func (t *Tracker) mutate(fn func(types.Aggregate) (types.Aggregate, error)) error {
	t.mu.Lock()
	next, err := fn(t.agg.Clone())
	if err != nil {
		t.mu.Unlock()
		return err
	}
	next = next.Normalize()
	gen, client := t.commitLocked(next)
	t.mu.Unlock()

	if client != nil {
		go t.push(client, gen, next)
	}
	return nil
}

// commitLocked is the funnel tail: in-memory replace, then local save. The
// caller holds mu. Local save failures are logged and never block editing;
// the in-memory aggregate remains authoritative for the session.
func (t *Tracker) commitLocked(next types.Aggregate) (uint64, *mirror.Client) {
	t.agg = next
	if err := t.store.SaveAggregate(next); err != nil {
		t.log.Warn("saving aggregate failed", zap.Error(err))
	}
	return t.generation, t.client
}

// push uploads the aggregate best-effort. A generation bump since the
// commit means sync was torn down or reconfigured; the push is dropped
// rather than applied late.
func (t *Tracker) push(client *mirror.Client, gen uint64, agg types.Aggregate) {
	t.mu.RLock()
	stale := gen != t.generation
	t.mu.RUnlock()
	if stale {
		return
	}

	ctx, cancel := pushContext()
	defer cancel()
	if err := client.Push(ctx, agg); err != nil {
		t.log.Warn("cloud push failed", zap.Error(err))
	}
}
