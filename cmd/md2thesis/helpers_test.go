package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-md2thesis/internal/ooxml/ooxmltest"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pandoc and environment
// ---------------------------------------------------------------------------

// fakeRunner stands in for pandoc and its filters. Conversions write a
// fixture document to the -o path; --version prints a version line;
// missing names fail with exec.ErrNotFound.
type fakeRunner struct {
	t       testing.TB
	body    string
	missing []string
	fail    error

	mu    sync.Mutex
	calls [][]string
}

func newFakeRunner(t testing.TB) *fakeRunner {
	return &fakeRunner{
		t: t,
		body: ooxmltest.P("Heading1", "绪论") +
			ooxmltest.P("", "见图 1.1") +
			ooxmltest.Table(1, 1),
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if slices.Contains(f.missing, name) {
		return "", "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	if len(args) == 1 && args[0] == "--version" {
		return name + " 3.1.9\nCopyright (C) 2006-2023 John MacFarlane\n", "", nil
	}
	if f.fail != nil {
		return "", "Error running filter pandoc-crossref", f.fail
	}

	data := ooxmltest.Build(f.t, f.body)
	if len(args) > 0 && args[0] == "--print-default-data-file" {
		return string(data), "", nil
	}
	i := slices.Index(args, "-o")
	if i < 0 || i+1 >= len(args) {
		return "", "missing -o", errors.New("exit status 1")
	}
	if err := os.WriteFile(args[i+1], data, 0o644); err != nil {
		return "", err.Error(), err
	}
	return "", "", nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// testEnv returns an environment with captured output and the given
// variables.
func testEnv(runner *fakeRunner, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Runner: runner,
	}
	return env, stdout, stderr
}

// testConfigYAML selects passes a plain pandoc fixture satisfies.
const testConfigYAML = `profile: generic
pandoc:
  filters: []
format:
  passes: [tables, crossrefs, fields]
`

// writeTestConfig writes testConfigYAML plus extra to dir and returns its path.
func writeTestConfig(t *testing.T, dir, extra string) string {
	t.Helper()

	path := filepath.Join(dir, "md2thesis.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML+extra), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
