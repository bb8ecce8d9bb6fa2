package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"wdlabels/internal/adapters/manifest"
	"wdlabels/internal/core/version"
	"wdlabels/internal/modkit"
	"wdlabels/internal/modkit/module"
	"wdlabels/internal/platform/config"
	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/logger"
	"wdlabels/internal/platform/metrics"

	extractdom "wdlabels/internal/services/extract/domain"
	extractmod "wdlabels/internal/services/extract/module"
)

// flag name -> env key read by the extract module
var flagEnv = map[string]string{
	"dump":             "WDL_DUMP",
	"out":              "WDL_OUT",
	"threads":          "WDL_THREADS",
	"level":            "WDL_LEVEL",
	"escape":           "WDL_ESCAPE",
	"decoders":         "WDL_DECODERS",
	"decompressors":    "WDL_DECOMPRESSORS",
	"compressor":       "WDL_COMPRESSOR",
	"progress":         "WDL_PROGRESS_EVERY",
	"metrics-textfile": "WDL_METRICS_TEXTFILE",
	"manifest":         "WDL_MANIFEST",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("wdlabels-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("dump", "", "compressed dump path (.json.bz2, .json.gz, .json.zst or plain .json)")
	fs.String("out", "", "output path; zstd compressed tab separated lines")
	fs.Int("threads", 0, "decompressor threads (default: number of CPUs)")
	fs.Int("level", 0, "zstd compression level (default 19)")
	fs.String("escape", "", "tab/newline handling inside text: escape | space | raw (default escape)")
	fs.String("decoders", "", "decoder preference list (default gjson,jsoniter,std)")
	fs.String("decompressors", "", "decompressor preference list, may include builtin (default by extension)")
	fs.String("compressor", "", "zstd | builtin (default zstd)")
	fs.Int("progress", 0, "entities between progress lines (default 1000000)")
	fs.String("metrics-textfile", "", "write Prometheus metrics to this textfile on every progress line")
	fs.Bool("manifest", true, "write <out>.manifest.yaml")
	fEnvFile := fs.String("env-file", ".env", "dotenv file loaded before reading WDL_* settings")
	fVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *fVersion {
		_, _ = fmt.Fprintln(stderr, version.Info().String())
		return 0
	}

	// flags override env; .env only fills what neither set
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagEnv[f.Name]; ok {
			_ = os.Setenv(key, f.Value.String())
		}
	})
	loaded, err := config.LoadDotenv(*fEnvFile)

	logger.Init(logger.FromEnv())
	l := logger.Get()
	if err != nil {
		l.Error().Err(err).Str("path", *fEnvFile).Msg("failed to load env file")
		return 2
	}

	root := config.New()
	wdl := root.Prefix("WDL_")
	dump := wdl.MayString("DUMP", "")
	out := wdl.MayString("OUT", "")
	if dump == "" || out == "" {
		l.Error().Msg("both -dump and -out (or WDL_DUMP and WDL_OUT) are required")
		fs.Usage()
		return 2
	}

	runID := uuid.NewString()
	ctx := logger.WithRun(context.Background(), runID, filepath.Base(dump))
	log := logger.C(ctx)
	log.Info().Str("build", version.Info().String()).Strs("env_files", loaded).Str("out", out).Msg("wdlabels-extract starting")

	// nothing is created on disk for a dump that is not there
	if _, err := os.Stat(dump); err != nil {
		err = perr.Wrapf(err, perr.ErrorCodeStartup, "dump %s", dump)
		log.Error().Err(err).Msg("dump not found")
		return perr.ExitCode(err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		log.Error().Err(err).Msg("cannot create output directory")
		return perr.ExitCode(perr.Wrap(err, perr.ErrorCodeStartup, "mkdir output"))
	}

	reg := metrics.NewPipeline(runID)
	deps := modkit.Deps{
		Log:     *l,
		Cfg:     root,
		Metrics: reg,
		RunID:   runID,
	}

	ex, err := extractmod.New(deps)
	if err != nil {
		log.Error().Err(err).Str("field", fieldOf(err)).Msg("invalid configuration")
		return perr.ExitCode(err)
	}
	module.Register(ex.Name(), ex.Ports())
	opts := ex.Options()
	runner := module.MustPortsAs[extractmod.Ports](ex.Name()).Runner

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	stats, runErr := runner.Run(ctx, dump, out)
	finished := time.Now()
	outSize := fileSize(out)

	printSummary(stderr, stats, outSize, out)
	log.Info().
		Int64("entities", stats.EntitiesSeen).
		Int64("extracted", stats.TuplesExtracted).
		Int64("lost", stats.TuplesLost).
		Int64("rewritten", stats.Rewritten).
		Int64("skipped", stats.Skipped.Total()).
		Interface("skipped_by_reason", stats.Skipped.Map()).
		Dur("elapsed", stats.Elapsed).
		Int64("output_bytes", outSize).
		Msg("wdlabels-extract finished")

	if err := reg.WriteTextfile(opts.MetricsTextfile); err != nil {
		log.Warn().Err(err).Msg("final metrics textfile write failed")
	}

	tools := runner.Tools()
	if opts.Manifest && tools.Compressor != "" {
		mf := buildManifest(runID, dump, out, opts, tools, stats, outSize, started, finished, runErr)
		if err := manifest.Write(manifest.PathFor(out), mf); err != nil {
			log.Warn().Err(err).Msg("manifest write failed")
		}
	}

	if runErr != nil {
		log.Error().Err(runErr).Str("code", perr.CodeOf(runErr).String()).Msg("run failed")
		return perr.ExitCode(runErr)
	}
	return 0
}

func buildManifest(
	runID, dump, out string,
	opts extractmod.Options,
	tools extractdom.Tools,
	stats extractdom.Stats,
	outSize int64,
	started, finished time.Time,
	runErr error,
) manifest.Manifest {
	m := manifest.Manifest{
		Build:      version.Info(),
		RunID:      runID,
		Dump:       dump,
		Output:     out,
		Escape:     opts.Escape,
		Tools:      manifest.Tools{Decompressor: tools.Decompressor, Compressor: tools.Compressor, Decoder: tools.Decoder},
		Threads:    opts.Threads,
		Level:      opts.Level,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Elapsed:    stats.Elapsed,
		Status:     manifest.StatusFor(runErr),
		Counts: manifest.Counts{
			Lines:           stats.Lines,
			EntitiesSeen:    stats.EntitiesSeen,
			TuplesExtracted: stats.TuplesExtracted,
			TuplesLost:      stats.TuplesLost,
			Rewritten:       stats.Rewritten,
			BytesIn:         stats.BytesIn,
			BytesOut:        stats.BytesOut,
			OutputSize:      outSize,
			Skipped:         stats.Skipped.Map(),
		},
	}
	if runErr != nil {
		m.Error = runErr.Error()
	}
	return m
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func fieldOf(err error) string {
	if e, ok := perr.As(err); ok {
		return e.Field()
	}
	return ""
}
