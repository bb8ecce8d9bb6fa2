package service

import (
	"bytes"
	"io"
	"strings"
	"syscall"

	"wdlabels/internal/adapters/decode"
	"wdlabels/internal/core/entity"
	"wdlabels/internal/services/extract/domain"
)

// journal records the order codec ends were closed in
type journal struct{ events []string }

func (j *journal) add(e string) { j.events = append(j.events, e) }

type memSource struct {
	r      io.Reader
	j      *journal
	closes int
	err    error
}

func (s *memSource) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *memSource) Describe() string           { return "mem source" }
func (s *memSource) Close() error {
	s.closes++
	s.j.add("source")
	return s.err
}

// memSink accepts limit bytes then fails like a closed pipe; limit < 0 means unlimited
type memSink struct {
	buf      bytes.Buffer
	limit    int
	j        *journal
	closes   int
	atClose  int
	closeErr error
}

func (s *memSink) Write(p []byte) (int, error) {
	if s.limit >= 0 && s.buf.Len()+len(p) > s.limit {
		n := s.limit - s.buf.Len()
		s.buf.Write(p[:n])
		return n, syscall.EPIPE
	}
	return s.buf.Write(p)
}
func (s *memSink) Describe() string { return "mem sink" }
func (s *memSink) Close() error {
	s.closes++
	s.atClose = s.buf.Len()
	s.j.add("sink")
	return s.closeErr
}

type memCodecs struct {
	src     *memSource
	sink    *memSink
	srcErr  error
	sinkErr error
	opened  []string
}

func newCodecs(input string) *memCodecs {
	j := &journal{}
	return &memCodecs{
		src:  &memSource{r: strings.NewReader(input), j: j},
		sink: &memSink{limit: -1, j: j},
	}
}

func (c *memCodecs) OpenSource(in string) (domain.Source, error) {
	c.opened = append(c.opened, "source:"+in)
	if c.srcErr != nil {
		return nil, c.srcErr
	}
	return c.src, nil
}

func (c *memCodecs) OpenSink(out string) (domain.Sink, error) {
	c.opened = append(c.opened, "sink:"+out)
	if c.sinkErr != nil {
		return nil, c.sinkErr
	}
	return c.sink, nil
}

// countingDecoder wraps a real backend and counts calls
type countingDecoder struct {
	decode.Decoder
	calls int
}

func (d *countingDecoder) Decode(line string) (entity.Entity, error) {
	d.calls++
	return d.Decoder.Decode(line)
}

// panickyDecoder panics on lines containing "boom"
type panickyDecoder struct{ decode.Decoder }

func (d panickyDecoder) Decode(line string) (entity.Entity, error) {
	if strings.Contains(line, "boom") {
		panic("decoder exploded")
	}
	return d.Decoder.Decode(line)
}
