package codec

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/logger"
)

// SourceOptions configure OpenSource
type SourceOptions struct {
	Threads int
	// Tools overrides the candidate order by tool name; may include Builtin
	Tools []string
	// Stderr receives the tool's stderr; nil means os.Stderr
	Stderr io.Writer
}

// Source is the decompressed dump stream
type Source struct {
	desc   string
	r      io.Reader
	cmd    *exec.Cmd
	pipe   io.ReadCloser
	closeF []func() error
	closed bool
	err    error
}

// OpenSource starts decompressing path and returns the stream
// A missing file is a startup error; no usable tool is a missing-tool error
func OpenSource(path string, o SourceOptions) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStartup, "codec: dump %s", path)
	}
	format := FormatOf(path)
	cands := DecompressCandidates(path, o.Threads)
	if format == FormatPlain {
		cands = nil
	}
	cands = append(cands, Command{Tool: Builtin})
	if len(o.Tools) > 0 {
		cands = Prefer(cands, o.Tools)
	} else if format != FormatPlain {
		// builtin is opt in for compressed dumps
		cands = cands[:len(cands)-1]
	}
	cmd, bin, err := Resolve(cands)
	if err != nil {
		return nil, err
	}
	if cmd.Tool == Builtin {
		return openBuiltinSource(path, format, o.Threads)
	}
	return startSource(cmd, bin, path, o.Stderr)
}

func startSource(c Command, bin, path string, stderr io.Writer) (*Source, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	cmd := exec.Command(bin, append(append([]string{}, c.Args...), path)...)
	cmd.Stderr = stderr
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeSubprocess, "codec: %s stdout", c.Tool)
	}
	if err := cmd.Start(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeSubprocess, "codec: start %s", c.Tool)
	}
	logger.Named("codec").Debug().Str("tool", bin).Strs("args", c.Args).Int("pid", cmd.Process.Pid).Msg("codec: decompressor started")
	return &Source{desc: c.String(), r: pipe, cmd: cmd, pipe: pipe}, nil
}

func openBuiltinSource(path string, format Format, threads int) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStartup, "codec: open %s", path)
	}
	s := &Source{desc: Builtin + " " + string(format), closeF: []func() error{f.Close}}
	br := bufio.NewReaderSize(f, 1<<20)
	switch format {
	case FormatGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, perr.Wrapf(err, perr.ErrorCodeStartup, "codec: gzip header %s", path)
		}
		s.r = zr
		s.closeF = append([]func() error{zr.Close}, s.closeF...)
	case FormatZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(max(threads, 1)))
		if err != nil {
			_ = f.Close()
			return nil, perr.Wrapf(err, perr.ErrorCodeStartup, "codec: zstd reader %s", path)
		}
		s.r = zr
		s.closeF = append([]func() error{func() error { zr.Close(); return nil }}, s.closeF...)
	case FormatBzip2:
		s.r = bzip2.NewReader(br)
	default:
		s.r = br
	}
	return s, nil
}

// Read reads decompressed bytes
func (s *Source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && !s.closed {
		err = perr.Wrap(err, perr.ErrorCodeRead, "codec: read "+s.desc)
	}
	return n, err
}

// Describe names the tool or builtin codec in use
func (s *Source) Describe() string { return s.desc }

// Close closes our end of the pipe and waits for the tool. Safe to call more than once
func (s *Source) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	for _, fn := range s.closeF {
		if err := fn(); err != nil && s.err == nil {
			s.err = err
		}
	}
	if s.cmd == nil {
		return s.err
	}
	_ = s.pipe.Close()
	s.err = waitErr(s.cmd.Wait(), "decompressor", s.desc, true)
	return s.err
}

// waitErr classifies a tool's exit; sigpipeOK tolerates death by SIGPIPE
func waitErr(err error, role, desc string, sigpipeOK bool) error {
	if err == nil {
		return nil
	}
	if sigpipeOK && perr.KilledBy(err, syscall.SIGPIPE) {
		logger.Named("codec").Debug().Str("tool", desc).Msg("codec: " + role + " stopped by SIGPIPE after early close")
		return nil
	}
	if code, ok := perr.ExitStatus(err); ok {
		return perr.Newf(perr.ErrorCodeSubprocess, "codec: %s %q exited with status %d", role, desc, code)
	}
	return perr.Wrapf(err, perr.ErrorCodeSubprocess, "codec: %s %q", role, desc)
}
