package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/internal/mirror"
	"github.com/protrack-ai/protrack/pkg/types"
)

const pushTimeout = 30 * time.Second

func pushContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), pushTimeout)
}

// EnableSync validates cfg, persists it, and starts the mirror
// subscription. The subscription's initial fetch applies the remote
// aggregate immediately (remote-wins); after that the current local state is
// pushed once so a fresh remote document gets seeded. Setup failure tears
// sync back down and the tracker stays in local-only mode.
func (t *Tracker) EnableSync(cfg types.RemoteConfig) error {
	client, err := mirror.New(cfg, t.log)
	if err != nil {
		return err
	}
	if err := t.store.SaveRemoteConfig(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())

	t.mu.Lock()
	if t.syncCancel != nil {
		t.syncCancel()
	}
	t.generation++
	gen := t.generation
	t.client = client
	t.syncCancel = cancel
	t.mu.Unlock()

	err = client.Subscribe(ctx, func(remote types.Aggregate) {
		t.applyRemote(gen, remote)
	})
	if err != nil {
		t.log.Warn("sync subscription setup failed, staying local-only", zap.Error(err))
		t.teardownSync(gen)
		return err
	}

	go t.push(client, gen, t.Snapshot())
	return nil
}

// RestoreSync re-enables sync from the stored remote configuration, if any.
// Called at startup; a missing configuration is not an error.
func (t *Tracker) RestoreSync() error {
	cfg, ok := t.store.LoadRemoteConfig()
	if !ok {
		return nil
	}
	return t.EnableSync(cfg)
}

// DisableSync stops the subscription and bumps the generation so in-flight
// pushes and deliveries are dropped.
func (t *Tracker) DisableSync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.syncCancel != nil {
		t.syncCancel()
		t.syncCancel = nil
	}
	t.client = nil
	t.generation++
}

// teardownSync tears sync down only if the generation still matches, so a
// concurrent re-enable is not clobbered.
func (t *Tracker) teardownSync(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return
	}
	if t.syncCancel != nil {
		t.syncCancel()
		t.syncCancel = nil
	}
	t.client = nil
	t.generation++
}

// SyncStatus returns the observable sync indicator.
func (t *Tracker) SyncStatus() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.client == nil {
		return mirror.StatusDisabled
	}
	return t.client.Status()
}

// applyRemote replaces the whole aggregate with a remote snapshot and
// persists it locally. Remote-wins: whichever write reaches memory last
// wins, and a remote snapshot in flight before a local edit's push is
// acknowledged can clobber that edit. Deliveries from a torn-down
// subscription carry a stale generation and are dropped.
func (t *Tracker) applyRemote(gen uint64, remote types.Aggregate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return
	}
	remote = remote.Normalize()
	t.agg = remote
	if err := t.store.SaveAggregate(remote); err != nil {
		t.log.Warn("saving remote aggregate failed", zap.Error(err))
	}
}
