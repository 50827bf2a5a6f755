// Integration tests for the protrack serve command.
package integration

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"
)

// freePort reserves an ephemeral port and releases it for the server to use.
func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// TestServeAnswersRequests starts the server process and verifies the HTTP
// API comes up and responds.
func TestServeAnswersRequests(t *testing.T) {
	env := NewTestEnv(t)
	addr := freePort(t)

	cmd := exec.Command(protrackBin,
		"--config-dir", env.Config, "--data-dir", env.DataDir,
		"serve", "--listen", addr)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start serve: %v", err)
	}
	defer func() {
		cmd.Process.Signal(os.Interrupt)
		cmd.Wait()
	}()

	var lastErr error
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/api/state")
		if err != nil {
			lastErr = err
			time.Sleep(100 * time.Millisecond)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("read state response: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET /api/state returned %d: %s", resp.StatusCode, body)
		}

		var state struct {
			Aggregate json.RawMessage `json:"aggregate"`
			SortMode  string          `json:"sort_mode"`
		}
		if err := json.Unmarshal(body, &state); err != nil {
			t.Fatalf("state response is not valid JSON: %v\n%s", err, body)
		}
		if state.SortMode == "" {
			t.Errorf("expected a sort mode in the state response, got %s", body)
		}
		return
	}
	t.Fatalf("serve never answered /api/state before the deadline: %v", lastErr)
}
