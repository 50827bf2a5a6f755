// Package mirror implements the cloud side of replication: best-effort
// whole-document pushes of the aggregate to a remote document store, and a
// polling subscription that delivers the full remote aggregate whenever the
// document changes. Replication is remote-wins: there is no merge, no
// version vector, and no conflict detection.
package mirror

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/protrack-ai/protrack/pkg/types"
)

// Sync status values exposed through Status.
const (
	StatusDisabled = "disabled"
	StatusOK       = "ok"
	StatusError    = "error"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultPollInterval = 3 * time.Second
)

// Client talks to a single remote document addressed by a fixed identifier.
type Client struct {
	httpClient   *http.Client
	endpoint     string
	documentID   string
	apiKey       string
	pollInterval time.Duration
	log          *zap.Logger

	mu     sync.Mutex
	status string
}

// New validates the configuration and returns a client. A structurally
// invalid configuration fails fast before any network call.
func New(cfg types.RemoteConfig, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		endpoint:     cfg.Endpoint,
		documentID:   cfg.DocumentID,
		apiKey:       cfg.APIKey,
		pollInterval: defaultPollInterval,
		log:          log,
		status:       StatusDisabled,
	}, nil
}

// Status returns the observable sync status indicator.
func (c *Client) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) setStatus(s string) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Client) documentURL() string {
	return fmt.Sprintf("%s/documents/%s", c.endpoint, c.documentID)
}

// Push uploads the full aggregate, overwriting the remote document
// wholesale. Errors flip the status indicator; the caller is expected to
// treat them as best-effort and keep local state authoritative.
func (c *Client) Push(ctx context.Context, agg types.Aggregate) error {
	body, err := json.Marshal(agg.Normalize())
	if err != nil {
		return fmt.Errorf("encoding aggregate: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.documentURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setStatus(StatusError)
		return fmt.Errorf("pushing document: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		c.setStatus(StatusError)
		return fmt.Errorf("pushing document: remote returned %s", resp.Status)
	}
	c.setStatus(StatusOK)
	return nil
}

// fetch retrieves the remote document. revision is the server ETag when
// present, otherwise a content hash; passing the previous revision suppresses
// unchanged responses. changed is false when the document is absent or has
// not moved past the given revision.
func (c *Client) fetch(ctx context.Context, revision string) (agg types.Aggregate, newRevision string, changed bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentURL(), nil)
	if err != nil {
		return types.Aggregate{}, revision, false, fmt.Errorf("building fetch request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if revision != "" {
		req.Header.Set("If-None-Match", revision)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Aggregate{}, revision, false, fmt.Errorf("fetching document: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		io.Copy(io.Discard, resp.Body)
		return types.Aggregate{}, revision, false, nil
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return types.Aggregate{}, revision, false, nil
	case resp.StatusCode >= 300:
		io.Copy(io.Discard, resp.Body)
		return types.Aggregate{}, revision, false, fmt.Errorf("fetching document: remote returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Aggregate{}, revision, false, fmt.Errorf("reading document: %w", err)
	}

	newRevision = resp.Header.Get("ETag")
	if newRevision == "" {
		sum := sha256.Sum256(body)
		newRevision = fmt.Sprintf("%x", sum[:8])
	}
	if newRevision == revision {
		return types.Aggregate{}, revision, false, nil
	}

	if err := json.Unmarshal(body, &agg); err != nil {
		return types.Aggregate{}, revision, false, fmt.Errorf("decoding document: %w", err)
	}
	return agg.Normalize(), newRevision, true, nil
}
