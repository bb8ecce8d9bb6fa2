// Package module provides the extract module implementation
package module

import (
	"wdlabels/internal/modkit"

	"wdlabels/internal/adapters/decode"
	"wdlabels/internal/core/tsv"
	"wdlabels/internal/services/extract/domain"
	"wdlabels/internal/services/extract/ingest"
	"wdlabels/internal/services/extract/service"
)

// Ports defines the extract module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the extract module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the extract module from WDL_* config in deps.Cfg
// It validates options, selects the decoder backend and wires the codecs.
// A domain.Codecs passed with modkit.WithPorts replaces the external tools
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	o := FromConfig(deps.Cfg)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	mode, err := tsv.ParseMode(o.Escape)
	if err != nil {
		return nil, err
	}
	dec, err := decode.Select(o.Decoders)
	if err != nil {
		return nil, err
	}

	b := modkit.Build(opts...)
	codecs, ok := modkit.Injected[domain.Codecs](b)
	if !ok {
		codecs = ingest.Codecs{
			Threads:       o.Threads,
			Level:         o.Level,
			Decompressors: o.Decompressors,
			Compressor:    o.Compressor,
		}
	}

	svc := service.New(codecs, dec, service.Config{
		Escape:          mode,
		ProgressEvery:   o.ProgressEvery,
		MaxLineBytes:    int(o.MaxLineBytes),
		MetricsTextfile: o.MetricsTextfile,
	}, deps.Metrics)

	return &Module{deps: deps, opts: o, ports: Ports{Runner: svc}}, nil
}

// Name returns the module name
func (m *Module) Name() string { return "extract" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the validated options the module was built with
func (m *Module) Options() Options { return m.opts }
