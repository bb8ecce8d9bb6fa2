package codec

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/logger"
)

// SinkOptions configure OpenSink
type SinkOptions struct {
	// Tool is "zstd" (default) or Builtin
	Tool    string
	Level   int
	Threads int
	Stderr  io.Writer
}

// Sink is the compressor input
type Sink struct {
	desc   string
	w      io.Writer
	cmd    *exec.Cmd
	pipe   io.WriteCloser
	closeF []func() error
	closed bool
	err    error
}

// OpenSink starts the compressor writing out
func OpenSink(out string, o SinkOptions) (*Sink, error) {
	if o.Level == 0 {
		o.Level = 19
	}
	tool := strings.ToLower(strings.TrimSpace(o.Tool))
	if tool == Builtin {
		return openBuiltinSink(out, o)
	}
	if tool != "" && tool != "zstd" {
		return nil, perr.Configf("codec: unsupported compressor %q", o.Tool)
	}
	c := CompressCommand(out, o.Level)
	_, bin, err := Resolve([]Command{c})
	if err != nil {
		return nil, err
	}
	stderr := o.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	cmd := exec.Command(bin, c.Args...)
	cmd.Stderr = stderr
	pipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeSubprocess, "codec: zstd stdin")
	}
	if err := cmd.Start(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeSubprocess, "codec: start zstd")
	}
	logger.Named("codec").Debug().Str("tool", bin).Strs("args", c.Args).Int("pid", cmd.Process.Pid).Msg("codec: compressor started")
	return &Sink{desc: c.String(), w: pipe, cmd: cmd, pipe: pipe}, nil
}

func openBuiltinSink(out string, o SinkOptions) (*Sink, error) {
	f, err := os.Create(out)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStartup, "codec: create %s", out)
	}
	format := FormatOf(out)
	s := &Sink{desc: Builtin + " " + string(format), closeF: []func() error{f.Close}}
	switch format {
	case FormatGzip:
		zw, err := gzip.NewWriterLevel(f, min(max(o.Level, gzip.BestSpeed), gzip.BestCompression))
		if err != nil {
			_ = f.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeConfig, "codec: gzip level")
		}
		s.w = zw
		s.closeF = append([]func() error{zw.Close}, s.closeF...)
	case FormatPlain:
		s.w = f
	default:
		zw, err := zstd.NewWriter(f,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(o.Level)),
			zstd.WithEncoderConcurrency(max(o.Threads, 1)),
		)
		if err != nil {
			_ = f.Close()
			return nil, perr.Wrap(err, perr.ErrorCodeConfig, "codec: zstd writer")
		}
		s.w = zw
		s.closeF = append([]func() error{zw.Close}, s.closeF...)
	}
	return s, nil
}

// Write hands bytes to the compressor
// A vanished reader surfaces as perr.ErrorCodeBrokenPipe
func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil && perr.IsBrokenPipe(err) {
		return n, perr.Wrap(err, perr.ErrorCodeBrokenPipe, "codec: compressor input closed")
	}
	return n, err
}

// Describe names the tool or builtin codec in use
func (s *Sink) Describe() string { return s.desc }

// Close ends the compressor input and waits for it to finish the file. Safe to call more than once
func (s *Sink) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	for _, fn := range s.closeF {
		if err := fn(); err != nil && s.err == nil {
			s.err = perr.Wrap(err, perr.ErrorCodeSubprocess, "codec: close "+s.desc)
		}
	}
	if s.cmd == nil {
		return s.err
	}
	cerr := s.pipe.Close()
	s.err = waitErr(s.cmd.Wait(), "compressor", s.desc, false)
	if s.err == nil && cerr != nil && !perr.IsBrokenPipe(cerr) {
		s.err = perr.Wrap(cerr, perr.ErrorCodeSubprocess, "codec: close compressor input")
	}
	return s.err
}
