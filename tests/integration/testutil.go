// Package integration provides CLI integration tests for protrack.
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// protrackBin is the path to the built protrack binary.
	protrackBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetProtrackBin sets the path to the protrack binary (called from TestMain).
func SetProtrackBin(path string) {
	protrackBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data
// directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build protrack: %v", buildErr)
	}
	if protrackBin == "" {
		t.Fatal("protrack binary not built (protrackBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: disk\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a protrack command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunProtrack executes the protrack CLI with the given arguments.
func (e *TestEnv) RunProtrack(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(protrackBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run protrack: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunProtrack executes the protrack CLI and fails the test if it returns
// non-zero.
func (e *TestEnv) MustRunProtrack(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunProtrack(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("protrack %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}
