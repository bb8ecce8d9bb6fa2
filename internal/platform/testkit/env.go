package testkit

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var seamMu sync.Mutex

// Swap swaps a package-level variable for the duration of the test and restores it after
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial makes the entire test run under a global lock, preventing interference
// when tests mutate package-level seams
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(func() { seamMu.Unlock() })
}

// FakeTool writes an executable shell script named name into dir
// Codec tests use these in place of pbzip2/zstd so they run without the real binaries
func FakeTool(t *testing.T, dir, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\nPATH=\"$PATH:/usr/bin:/bin\"\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write fake tool %s: %v", p, err)
	}
	return p
}

// IsolatePath points PATH at dir only, so tool probing sees exactly the fakes placed there
// sh is reached through the shebang and FakeTool scripts extend PATH with the system dirs themselves
func IsolatePath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir)
}
