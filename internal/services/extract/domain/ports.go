package domain

import (
	"context"
	"io"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context, in, out string) (Stats, error)
	State() State
	Tools() Tools
}

// Tools names what actually ran, for the summary and the run manifest
type Tools struct {
	Decompressor string
	Compressor   string
	Decoder      string
}

// Source is the decompressed dump stream; Close waits for the producer
type Source interface {
	io.ReadCloser
	Describe() string
}

// Sink is the compressor input; Close waits for the compressed file to be complete
type Sink interface {
	io.WriteCloser
	Describe() string
}

// Codecs opens both ends of the pipeline
type Codecs interface {
	OpenSource(in string) (Source, error)
	OpenSink(out string) (Sink, error)
}
