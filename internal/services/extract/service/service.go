// Package service provides the extraction pipeline: one sequential loop between
// the decompressor and the compressor, with a shutdown contract on every exit path
package service

import (
	"context"
	stderrs "errors"
	"io"
	"sync/atomic"
	"time"

	"wdlabels/internal/adapters/decode"
	"wdlabels/internal/adapters/dump"
	"wdlabels/internal/core/entity"
	"wdlabels/internal/core/linenorm"
	"wdlabels/internal/core/skip"
	"wdlabels/internal/core/tsv"
	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/logger"
	"wdlabels/internal/platform/metrics"
	"wdlabels/internal/services/extract/domain"
)

// Config holds configuration options for the extraction service
type Config struct {
	Escape        tsv.Mode
	ProgressEvery int64 // entities between progress lines; <=0 -> 1,000,000
	MaxLineBytes  int   // <=0 -> dump.DefaultMaxLine
	WriteBuffer   int   // bytes buffered in front of the compressor; <=0 -> 1 MiB

	// MetricsTextfile is rewritten on every progress tick when set
	MetricsTextfile string
}

// Service implements domain.RunnerPort
type Service struct {
	Codecs  domain.Codecs
	Decoder decode.Decoder
	Cfg     Config
	Metrics *metrics.Pipeline // optional

	state atomic.Uint32
	tools domain.Tools
	now   func() time.Time
}

// New constructs the extraction service
func New(codecs domain.Codecs, dec decode.Decoder, cfg Config, m *metrics.Pipeline) *Service {
	if codecs == nil {
		panic("extract.Service requires non nil Codecs")
	}
	if dec == nil {
		panic("extract.Service requires a non nil Decoder")
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 1_000_000
	}
	return &Service{Codecs: codecs, Decoder: dec, Cfg: cfg, Metrics: m, now: time.Now}
}

// Tools returns the codecs and decoder of the last Run; empty before it starts them
func (s *Service) Tools() domain.Tools { return s.tools }

// State returns the current lifecycle state
func (s *Service) State() domain.State { return domain.State(s.state.Load()) }

func (s *Service) setState(ctx context.Context, st domain.State) {
	s.state.Store(uint32(st))
	if s.Metrics != nil {
		s.Metrics.SetState(st.String(), domain.StateNames()...)
	}
	logger.C(ctx).Debug().Str("state", st.String()).Msg("extract: state")
}

// Run streams in through the pipeline into out and returns the counters
// A Service runs once. Stats are valid on every return path, including errors
func (s *Service) Run(ctx context.Context, in, out string) (stats domain.Stats, err error) {
	if !s.state.CompareAndSwap(uint32(domain.StateNotStarted), uint32(domain.StateRunning)) {
		return stats, perr.Newf(perr.ErrorCodeStartup, "extract: service already in state %s", s.State())
	}
	start := s.now()
	log := logger.C(ctx)

	src, err := s.Codecs.OpenSource(in)
	if err != nil {
		s.setState(ctx, domain.StateClosed)
		return stats, err
	}
	sink, err := s.Codecs.OpenSink(out)
	if err != nil {
		_ = src.Close()
		s.setState(ctx, domain.StateClosed)
		return stats, err
	}
	s.tools = domain.Tools{Decompressor: src.Describe(), Compressor: sink.Describe(), Decoder: s.Decoder.Name()}
	s.setState(ctx, domain.StateRunning)
	log.Info().
		Str("decompressor", src.Describe()).
		Str("compressor", sink.Describe()).
		Str("decoder", s.Decoder.Name()).
		Str("escape", s.Cfg.Escape.String()).
		Msg("extract: pipeline started")

	rd := dump.NewReader(src, s.Cfg.MaxLineBytes)
	w := tsv.NewWriter(sink, s.Cfg.Escape, s.Cfg.WriteBuffer)
	warned := false
	warnPipe := func(e error) {
		if warned {
			return
		}
		warned = true
		log.Warn().Err(e).Str("compressor", sink.Describe()).Msg("extract: compressor input closed early; remaining tuples are lost")
	}

	defer func() {
		s.setState(ctx, domain.StateDraining)

		// decompressor first: close its stdout then wait
		srcErr := src.Close()

		// then the compressor: flush, close its stdin, wait
		flushErr := w.Flush()
		if flushErr != nil && perr.IsBrokenPipe(flushErr) {
			warnPipe(flushErr)
		}
		sinkErr := sink.Close()

		stats.BytesOut = w.DeliveredBytes()
		if d := w.Delivered(); d < stats.TuplesExtracted {
			stats.TuplesLost = stats.TuplesExtracted - d
			stats.TuplesExtracted = d
			log.Warn().Int64("lost", stats.TuplesLost).Int64("delivered", d).Msg("extract: buffered tuples never reached the compressor")
		}
		_, stats.BytesIn, _ = rd.Stats()
		stats.Elapsed = s.now().Sub(start)
		s.observe(stats)
		s.setState(ctx, domain.StateClosed)

		switch {
		case err != nil:
			// the loop error wins; codec failures on the way down are still worth a line
			if sinkErr != nil {
				log.Error().Err(sinkErr).Msg("extract: compressor failed during shutdown")
			}
			if srcErr != nil {
				log.Error().Err(srcErr).Msg("extract: decompressor failed during shutdown")
			}
		case flushErr != nil && perr.IsBrokenPipe(flushErr):
			err = perr.Wrap(flushErr, perr.ErrorCodeBrokenPipe, "extract: output incomplete")
			if sinkErr != nil {
				log.Error().Err(sinkErr).Msg("extract: compressor failed during shutdown")
			}
		case flushErr != nil:
			err = perr.Wrap(flushErr, perr.ErrorCodeSubprocess, "extract: flush")
		case sinkErr != nil:
			err = sinkErr
		case srcErr != nil:
			err = srcErr
		}
	}()

	prog := newProgress(s.Cfg.ProgressEvery, start, s.now, log, s.Metrics, s.Cfg.MetricsTextfile)
	panicLog := logger.Burst(log, 5, time.Minute)
	done := ctx.Done()

	for {
		select {
		case <-done:
			log.Warn().Err(ctx.Err()).Int64("entities", stats.EntitiesSeen).Msg("extract: canceled, draining")
			return stats, perr.Wrap(context.Cause(ctx), perr.ErrorCodeCanceled, "extract: canceled")
		default:
		}

		line, oversize, rerr := rd.Next()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return stats, rerr
		}
		stats.Lines++
		if oversize {
			stats.Skipped.Add(skip.Oversize)
			continue
		}

		before := stats.EntitiesSeen
		if werr := s.processLine(line, &stats, w, panicLog); werr != nil {
			if perr.IsBrokenPipe(werr) {
				warnPipe(werr)
				return stats, perr.Wrap(werr, perr.ErrorCodeBrokenPipe, "extract: output incomplete")
			}
			return stats, perr.Wrap(werr, perr.ErrorCodeSubprocess, "extract: write")
		}
		if stats.EntitiesSeen != before {
			_, stats.BytesIn, _ = rd.Stats()
			prog.tick(stats)
		}
	}

	prog.final(stats)
	return stats, nil
}

// processLine runs one line through normalize, decode, extract and format
// Only a sink write error is returned; everything else is a counted skip
func (s *Service) processLine(line []byte, stats *domain.Stats, w *tsv.Writer, panicLog *logger.Logger) (werr error) {
	defer func() {
		if r := recover(); r != nil {
			stats.Skipped.Add(skip.Panic)
			panicLog.Error().
				Err(perr.PanicErrf("%v", r)).
				Int64("line", stats.Lines).
				Msg("extract: recovered panic on line; continuing")
		}
	}()

	cand, reason := linenorm.Normalize(linenorm.Text(line))
	if reason != skip.None {
		stats.Skipped.Add(reason)
		return nil
	}
	e, err := s.Decoder.Decode(cand)
	if err != nil {
		if stderrs.Is(err, decode.ErrNotObject) {
			stats.Skipped.Add(skip.NotRecord)
		} else {
			stats.Skipped.Add(skip.Malformed)
		}
		return nil
	}
	if !entity.IsEntityID(e.ID) {
		stats.Skipped.Add(skip.NotEntity)
		return nil
	}
	stats.EntitiesSeen++
	for t := range entity.Tuples(e) {
		rewritten, err := w.Write(t)
		if err != nil {
			return err
		}
		stats.TuplesExtracted++
		if rewritten {
			stats.Rewritten++
		}
	}
	return nil
}

func (s *Service) observe(stats domain.Stats) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.Observe(snapshot(stats))
}

func snapshot(stats domain.Stats) metrics.Snapshot {
	return metrics.Snapshot{
		Lines:     stats.Lines,
		Entities:  stats.EntitiesSeen,
		Tuples:    stats.TuplesExtracted,
		Rewritten: stats.Rewritten,
		Lost:      stats.TuplesLost,
		BytesIn:   stats.BytesIn,
		Skipped:   stats.Skipped.Map(),
	}
}
