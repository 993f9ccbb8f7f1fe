// Package integration provides end-to-end tests for appdeck: the CLI binary
// run as a subprocess, and the server exercised through the REST client.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

var (
	// appdeckBin is the path to the built appdeck binary.
	appdeckBin string
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

// SetAppdeckBin sets the path to the appdeck binary (called from TestMain).
func SetAppdeckBin(path string) {
	appdeckBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data
// directory. Each test gets its own config.yaml so runs cannot interfere.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataDir   string

	// ServerURL is set by StartServer and overrides the remote base URL for
	// client commands.
	ServerURL string

	serverCmd *exec.Cmd
}

// NewTestEnv creates a new isolated test environment. The remote base URL
// points at a closed port so client commands fall back to local state unless
// StartServer is called.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build appdeck: %v", buildErr)
	}
	if appdeckBin == "" {
		t.Fatal("appdeck binary not built (appdeckBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}

	env := &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
		DataDir:   dataDir,
	}
	env.writeConfig("http://127.0.0.1:1", "127.0.0.1:0")
	return env
}

// writeConfig writes config.yaml with the sqlite backend and the given remote
// base URL and server address.
func (e *TestEnv) writeConfig(remoteURL, serverAddr string) {
	e.t.Helper()
	content := fmt.Sprintf(
		"backend: sqlite\ndata_dir: %s\nserver:\n  address: %q\nremote:\n  base_url: %s\n",
		e.DataDir, serverAddr, remoteURL,
	)
	if err := os.WriteFile(filepath.Join(e.ConfigDir, "config.yaml"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}
}

// StartServer picks a free port, launches `appdeck serve` as a subprocess,
// and waits for the health endpoint to come up. The server is stopped when
// the test finishes.
func (e *TestEnv) StartServer() string {
	e.t.Helper()

	addr := freeAddr(e.t)
	url := "http://" + addr
	e.writeConfig(url, addr)
	e.ServerURL = url

	cmd := exec.Command(appdeckBin, "--config-dir", e.ConfigDir, "--data-dir", e.DataDir, "serve")
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Start(); err != nil {
		e.t.Fatalf("failed to start server: %v", err)
	}
	e.serverCmd = cmd
	e.t.Cleanup(func() { e.StopServer() })

	waitForHealth(e.t, url)
	return url
}

// StopServer interrupts the server subprocess and waits for it to exit.
// Safe to call when no server is running.
func (e *TestEnv) StopServer() {
	if e.serverCmd == nil {
		return
	}
	e.serverCmd.Process.Signal(os.Interrupt)
	e.serverCmd.Wait()
	e.serverCmd = nil
}

// freeAddr reserves a loopback port and returns host:port.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

// waitForHealth polls /healthz until the server answers or the deadline
// passes.
func waitForHealth(t *testing.T, baseURL string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become healthy", baseURL)
}

// CmdResult holds the result of an appdeck command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunAppdeck executes the appdeck CLI with the given arguments.
func (e *TestEnv) RunAppdeck(args ...string) CmdResult {
	e.t.Helper()

	allArgs := []string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}
	if e.ServerURL != "" {
		allArgs = append(allArgs, "--server", e.ServerURL)
	}
	allArgs = append(allArgs, args...)
	cmd := exec.Command(appdeckBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run appdeck: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunAppdeck executes the appdeck CLI and fails the test if it returns
// non-zero.
func (e *TestEnv) MustRunAppdeck(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunAppdeck(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("appdeck %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}
