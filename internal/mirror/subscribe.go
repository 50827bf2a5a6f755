package mirror

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/pkg/types"
)

// Subscribe opens a standing listener on the remote document. The initial
// fetch runs synchronously; if it fails, Subscribe returns the error and the
// caller falls back to local-only mode. Otherwise a polling goroutine runs
// until ctx is cancelled, invoking onChange with the full remote aggregate
// whenever the document moves, whether from this client's own push or
// another client's. Poll errors flip the status indicator and are retried on
// the next tick; they never stop the listener.
func (c *Client) Subscribe(ctx context.Context, onChange func(types.Aggregate)) error {
	agg, revision, changed, err := c.fetch(ctx, "")
	if err != nil {
		c.setStatus(StatusError)
		return err
	}
	c.setStatus(StatusOK)
	if changed {
		onChange(agg)
	}

	go c.poll(ctx, revision, onChange)
	return nil
}

func (c *Client) poll(ctx context.Context, revision string, onChange func(types.Aggregate)) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.setStatus(StatusDisabled)
			return
		case <-ticker.C:
			agg, newRevision, changed, err := c.fetch(ctx, revision)
			if err != nil {
				if ctx.Err() != nil {
					c.setStatus(StatusDisabled)
					return
				}
				c.log.Warn("mirror poll failed", zap.Error(err))
				c.setStatus(StatusError)
				continue
			}
			c.setStatus(StatusOK)
			revision = newRevision
			if changed {
				onChange(agg)
			}
		}
	}
}
