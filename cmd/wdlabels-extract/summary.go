package main

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wdlabels/internal/core/skip"
	extractdom "wdlabels/internal/services/extract/domain"
)

// printSummary writes the operator-facing end of run report
func printSummary(w io.Writer, stats extractdom.Stats, outSize int64, out string) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "extracted %d tuples from %d entities (%d lines) in %s\n",
		stats.TuplesExtracted, stats.EntitiesSeen, stats.Lines, stats.Elapsed.Round(time.Millisecond))
	_, _ = p.Fprintf(w, "output %s: %s (%s formatted, %s read)\n",
		out, humanize.IBytes(uint64(outSize)), humanize.IBytes(uint64(stats.BytesOut)), humanize.IBytes(uint64(stats.BytesIn)))
	if stats.TuplesLost > 0 {
		_, _ = p.Fprintf(w, "lost %d tuples still buffered when the compressor input closed\n", stats.TuplesLost)
	}
	if stats.Rewritten > 0 {
		_, _ = p.Fprintf(w, "rewritten %d tuples containing tabs or newlines\n", stats.Rewritten)
	}
	for _, r := range skip.All {
		if n := stats.Skipped.Get(r); n > 0 {
			_, _ = p.Fprintf(w, "skipped %-10s %d\n", r.String(), n)
		}
	}
}
