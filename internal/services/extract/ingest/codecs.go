// Package ingest adapts the codec and decode adapters to the extract domain ports
package ingest

import (
	"io"

	"wdlabels/internal/adapters/codec"
	"wdlabels/internal/services/extract/domain"
)

// Codecs opens external or builtin codecs per the run options
type Codecs struct {
	Threads       int
	Level         int
	Decompressors []string // empty = by dump extension
	Compressor    string
	Stderr        io.Writer // tool stderr; nil = os.Stderr
}

var _ domain.Codecs = Codecs{}

// OpenSource starts the decompressor for in
func (c Codecs) OpenSource(in string) (domain.Source, error) {
	src, err := codec.OpenSource(in, codec.SourceOptions{
		Threads: c.Threads,
		Tools:   c.Decompressors,
		Stderr:  c.Stderr,
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

// OpenSink starts the compressor writing out
func (c Codecs) OpenSink(out string) (domain.Sink, error) {
	sink, err := codec.OpenSink(out, codec.SinkOptions{
		Tool:    c.Compressor,
		Level:   c.Level,
		Threads: c.Threads,
		Stderr:  c.Stderr,
	})
	if err != nil {
		return nil, err
	}
	return sink, nil
}
