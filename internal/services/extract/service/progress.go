package service

import (
	"strconv"
	"time"

	"wdlabels/internal/platform/logger"
	"wdlabels/internal/platform/metrics"
	"wdlabels/internal/services/extract/domain"
)

// progress emits a snapshot every n entities; observational only
type progress struct {
	every    int64
	next     int64
	start    time.Time
	now      func() time.Time
	log      *logger.Logger
	metrics  *metrics.Pipeline
	textfile string
	ticks    int
}

func newProgress(every int64, start time.Time, now func() time.Time, log *logger.Logger, m *metrics.Pipeline, textfile string) *progress {
	return &progress{every: every, next: every, start: start, now: now, log: log, metrics: m, textfile: textfile}
}

// tick is called after every entity; it only does work on the boundary
func (p *progress) tick(stats domain.Stats) {
	if stats.EntitiesSeen < p.next {
		return
	}
	p.next += p.every
	p.ticks++
	p.emit(stats, "extract: progress")
}

// final emits one last snapshot at stream end
func (p *progress) final(stats domain.Stats) {
	p.emit(stats, "extract: stream exhausted")
}

func (p *progress) emit(stats domain.Stats, msg string) {
	elapsed := p.now().Sub(p.start)
	stats.Elapsed = elapsed
	p.log.Info().
		Int64("entities", stats.EntitiesSeen).
		Int64("extracted", stats.TuplesExtracted).
		Int64("skipped", stats.Skipped.Total()).
		Str("rate", formatRate(stats.Rate())).
		Dur("elapsed", elapsed).
		Msg(msg)
	if p.metrics == nil {
		return
	}
	p.metrics.Observe(snapshot(stats))
	if err := p.metrics.WriteTextfile(p.textfile); err != nil {
		p.log.Warn().Err(err).Str("path", p.textfile).Msg("extract: metrics textfile write failed")
	}
}

func formatRate(r float64) string {
	switch {
	case r >= 1e6:
		return strconv.FormatFloat(r/1e6, 'f', 2, 64) + "M/s"
	case r >= 1e3:
		return strconv.FormatFloat(r/1e3, 'f', 1, 64) + "k/s"
	default:
		return strconv.FormatFloat(r, 'f', 0, 64) + "/s"
	}
}
