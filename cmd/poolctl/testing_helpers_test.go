package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/arenapool/cmd/poolctl/logger"
)

// testDataPath returns the path to a file under testdata
func testDataPath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test file not found: %s", path)
	}
	return path
}

// resetFlags restores global flags to their defaults after a test
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		verbose = false
		quiet = false
		jsonOut = false
		backing = ""
		logDir = ""
	})
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// captureStderr captures stderr while running a function
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	origStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = origStderr

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String()
}

// enableFileLogging runs setup with logs going to a temporary directory and
// returns a function reading everything logged so far
func enableFileLogging(t *testing.T) func() string {
	t.Helper()
	dir := t.TempDir()
	logDir = dir
	if err := setup(rootCmd, nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	t.Cleanup(func() { _ = logger.Init(logger.Options{}) })

	return func() string {
		t.Helper()
		files, err := filepath.Glob(filepath.Join(dir, "*.log"))
		if err != nil || len(files) != 1 {
			t.Fatalf("expected one log file in %s, got %v (%v)", dir, files, err)
		}
		data, err := os.ReadFile(files[0])
		if err != nil {
			t.Fatalf("failed to read log: %v", err)
		}
		return string(data)
	}
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
