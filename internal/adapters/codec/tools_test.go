package codec

import (
	"slices"
	"testing"

	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/testkit"
)

func tools(cs []Command) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Tool
	}
	return out
}

func TestDecompressCandidates(t *testing.T) {
	cases := map[string][]string{
		"latest-all.json.bz2": {"pbzip2", "lbzip2", "bzip2"},
		"dump.json.gz":        {"pigz", "gzip"},
		"dump.json.ZST":       {"zstd"},
		"dump.json":           nil,
	}
	for path, want := range cases {
		if got := tools(DecompressCandidates(path, 8)); !slices.Equal(got, want) {
			t.Fatalf("%s: %v, want %v", path, got, want)
		}
	}
	bz := DecompressCandidates("x.bz2", 45)
	if bz[0].String() != "pbzip2 -p45 -dc" || bz[1].String() != "lbzip2 -n45 -dc" || bz[2].String() != "bzip2 -dc" {
		t.Fatalf("bz2 commands = %v", bz)
	}
	if DecompressCandidates("x.zst", 0)[0].String() != "zstd -T1 -dc" {
		t.Fatalf("zero threads should clamp to 1")
	}
}

func TestCompressCommand(t *testing.T) {
	if got := CompressCommand("out.tsv.zst", 19).String(); got != "zstd -T0 -19 -f -o out.tsv.zst" {
		t.Fatalf("got %q", got)
	}
	if got := CompressCommand("o.zst", 22).String(); got != "zstd -T0 --ultra -22 -f -o o.zst" {
		t.Fatalf("got %q", got)
	}
}

func TestPrefer(t *testing.T) {
	cands := DecompressCandidates("x.bz2", 4)
	got := tools(Prefer(cands, []string{"bzip2", "nope", "BUILTIN", "pbzip2"}))
	if !slices.Equal(got, []string{"bzip2", "builtin", "pbzip2"}) {
		t.Fatalf("got %v", got)
	}
	if len(Prefer(cands, nil)) != 3 {
		t.Fatalf("empty prefs should keep candidates")
	}
}

func TestResolve_FirstOnPath(t *testing.T) {
	dir := t.TempDir()
	testkit.FakeTool(t, dir, "lbzip2", "exit 0")
	testkit.FakeTool(t, dir, "bzip2", "exit 0")
	testkit.IsolatePath(t, dir)

	c, bin, err := Resolve(DecompressCandidates("x.bz2", 2))
	if err != nil {
		t.Fatal(err)
	}
	if c.Tool != "lbzip2" || bin == "" {
		t.Fatalf("resolved %v at %q", c, bin)
	}
}

func TestResolve_Missing(t *testing.T) {
	testkit.IsolatePath(t, t.TempDir())
	_, _, err := Resolve(DecompressCandidates("x.bz2", 2))
	if !perr.IsCode(err, perr.ErrorCodeMissingTool) {
		t.Fatalf("err = %v", err)
	}
	testkit.MustContain(t, err.Error(), "pbzip2, lbzip2, bzip2")

	if _, _, err := Resolve(nil); !perr.IsCode(err, perr.ErrorCodeMissingTool) {
		t.Fatalf("empty list err = %v", err)
	}
}
