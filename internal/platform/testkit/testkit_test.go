package testkit

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var swapTarget = 10

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "alpha beta gamma", "beta")
}

func TestMustSameLines_IgnoresOrder(t *testing.T) {
	t.Parallel()
	MustSameLines(t, "Q1\ten\ta\t\nQ1\tfr\tb\t\n", "Q1\tfr\tb\t\nQ1\ten\ta\t\n")
	MustSameLines(t, "", "")
}

func TestSwap_Restores(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		Swap(t, &swapTarget, 42)
		if swapTarget != 42 {
			t.Fatalf("swap failed, got %d", swapTarget)
		}
	})
	if swapTarget != 10 {
		t.Fatalf("swap did not restore original, got %d", swapTarget)
	}
}

func TestFakeTool_RunsOnIsolatedPath(t *testing.T) {
	dir := t.TempDir()
	FakeTool(t, dir, "pbzip2", `echo fake "$@"`)
	IsolatePath(t, dir)

	p, err := exec.LookPath("pbzip2")
	if err != nil {
		t.Fatalf("LookPath: %v", err)
	}
	if filepath.Dir(p) != dir {
		t.Fatalf("resolved outside fake dir: %s", p)
	}
	out, err := exec.Command(p, "-dc", "x").Output()
	if err != nil {
		t.Fatalf("run fake: %v", err)
	}
	if strings.TrimSpace(string(out)) != "fake -dc x" {
		t.Fatalf("fake output = %q", out)
	}
}

func TestWriteFile(t *testing.T) {
	p := WriteFile(t, t.TempDir(), "a/b.txt", "hi")
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "hi" {
		t.Fatalf("WriteFile round trip: %q %v", b, err)
	}
}
