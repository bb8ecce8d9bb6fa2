// Package manifest writes a YAML record of one extraction run next to its output.
// Downstream loaders read it to learn how the file was produced and whether it is complete
package manifest

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"wdlabels/internal/core/version"
	perr "wdlabels/internal/platform/errors"
)

// Status values
const (
	StatusOK         = "ok"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
	StatusIncomplete = "incomplete"
)

// Counts mirrors the run counters
type Counts struct {
	Lines           int64            `yaml:"lines"`
	EntitiesSeen    int64            `yaml:"entities_seen"`
	TuplesExtracted int64            `yaml:"tuples_extracted"`
	TuplesLost      int64            `yaml:"tuples_lost,omitempty"`
	Rewritten       int64            `yaml:"tuples_rewritten"`
	BytesIn         int64            `yaml:"input_bytes"`
	BytesOut        int64            `yaml:"formatted_bytes"`
	OutputSize      int64            `yaml:"output_file_bytes"`
	Skipped         map[string]int64 `yaml:"skipped,omitempty"`
}

// Manifest describes one run
type Manifest struct {
	Build      version.BuildInfo `yaml:"build"`
	RunID      string            `yaml:"run_id"`
	Dump       string            `yaml:"dump"`
	Output     string            `yaml:"output"`
	Format     string            `yaml:"format"`
	Escape     string            `yaml:"escape"`
	Tools      Tools             `yaml:"tools"`
	Threads    int               `yaml:"threads"`
	Level      int               `yaml:"level"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Elapsed    time.Duration     `yaml:"elapsed"`
	Status     string            `yaml:"status"`
	Error      string            `yaml:"error,omitempty"`
	Counts     Counts            `yaml:"counts"`
}

// Tools names the codecs and decoder used
type Tools struct {
	Decompressor string `yaml:"decompressor"`
	Compressor   string `yaml:"compressor"`
	Decoder      string `yaml:"decoder"`
}

// Columns is the fixed column order of every output line
const Columns = "entity_id\tlanguage\tlabel\tdescription"

// PathFor returns the manifest path for an output file
func PathFor(out string) string { return out + ".manifest.yaml" }

// StatusFor maps a run error to a status
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case perr.IsCode(err, perr.ErrorCodeCanceled):
		return StatusCanceled
	case perr.IsCode(err, perr.ErrorCodeBrokenPipe):
		return StatusIncomplete
	default:
		return StatusFailed
	}
}

// Write stores m at path via a temp file and rename so readers never see half a manifest
func Write(path string, m Manifest) error {
	if m.Format == "" {
		m.Format = Columns
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: marshal")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: write")
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: close")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: rename")
	}
	return nil
}

// Read loads a manifest
func Read(path string) (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: read")
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, perr.Wrap(err, perr.ErrorCodeUnknown, "manifest: parse")
	}
	return m, nil
}
