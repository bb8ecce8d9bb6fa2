// Package metrics exposes pipeline counters through a private Prometheus registry.
// Batch runs have no scrape endpoint, so the registry is written to a node_exporter
// textfile collector path on every progress tick and once at exit
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wdlabels"

// Snapshot is a point-in-time copy of the pipeline counters
type Snapshot struct {
	Lines     int64
	Entities  int64
	Tuples    int64
	Rewritten int64
	Lost      int64
	BytesIn   int64
	Skipped   map[string]int64
}

// Pipeline owns the registry and the collectors for one run
type Pipeline struct {
	mu   sync.Mutex
	reg  *prometheus.Registry
	last Snapshot

	lines     prometheus.Counter
	entities  prometheus.Counter
	tuples    prometheus.Counter
	rewritten prometheus.Counter
	lost      prometheus.Counter
	bytesIn   prometheus.Counter
	skipped   *prometheus.CounterVec
	state     *prometheus.GaugeVec
	lastTick  prometheus.Gauge
}

// NewPipeline builds a registry labelled with the run id
func NewPipeline(runID string) *Pipeline {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"run_id": runID}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: constLabels,
		})
	}

	p := &Pipeline{
		reg:       reg,
		last:      Snapshot{Skipped: map[string]int64{}},
		lines:     counter("lines_total", "Lines read from the decompressed stream."),
		entities:  counter("entities_seen_total", "Entity records that passed the id check."),
		tuples:    counter("tuples_extracted_total", "Label/description tuples formatted for the compressor; buffered ones lost on a closed pipe are in tuples_lost_total."),
		rewritten: counter("tuples_rewritten_total", "Tuples whose text had tabs or newlines rewritten."),
		lost:      counter("tuples_lost_total", "Tuples still buffered when the compressor input closed."),
		bytesIn:   counter("input_bytes_total", "Decompressed bytes consumed."),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "lines_skipped_total", Help: "Lines skipped, by reason.", ConstLabels: constLabels,
		}, []string{"reason"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pipeline_state", Help: "1 for the current pipeline state.", ConstLabels: constLabels,
		}, []string{"state"}),
		lastTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_update_timestamp_seconds", Help: "Unix time of the last metrics update.", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(p.lines, p.entities, p.tuples, p.rewritten, p.lost, p.bytesIn, p.skipped, p.state, p.lastTick)
	return p
}

// Registry returns the underlying gatherer, mainly for tests
func (p *Pipeline) Registry() *prometheus.Registry { return p.reg }

// Observe advances the counters to s; counters never go backwards so only positive deltas apply
func (p *Pipeline) Observe(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	add := func(c prometheus.Counter, now, before int64) {
		if d := now - before; d > 0 {
			c.Add(float64(d))
		}
	}
	add(p.lines, s.Lines, p.last.Lines)
	add(p.entities, s.Entities, p.last.Entities)
	add(p.tuples, s.Tuples, p.last.Tuples)
	add(p.rewritten, s.Rewritten, p.last.Rewritten)
	add(p.lost, s.Lost, p.last.Lost)
	add(p.bytesIn, s.BytesIn, p.last.BytesIn)

	skipped := make(map[string]int64, len(s.Skipped))
	for reason, n := range s.Skipped {
		add(p.skipped.WithLabelValues(reason), n, p.last.Skipped[reason])
		skipped[reason] = n
	}
	p.last = s
	p.last.Skipped = skipped
	p.lastTick.SetToCurrentTime()
}

// SetState marks state as the current one and clears the others
func (p *Pipeline) SetState(state string, all ...string) {
	for _, s := range all {
		p.state.WithLabelValues(s).Set(0)
	}
	p.state.WithLabelValues(state).Set(1)
}

// WriteTextfile atomically writes the registry in text exposition format
// An empty path is a no-op so callers need not branch on configuration
func (p *Pipeline) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, p.reg)
}
