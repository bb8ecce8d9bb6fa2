package module

import (
	"runtime"
	"slices"
	"strings"

	"wdlabels/internal/adapters/codec"
	"wdlabels/internal/adapters/decode"
	"wdlabels/internal/adapters/dump"
	"wdlabels/internal/core/tsv"
	"wdlabels/internal/platform/config"
	"wdlabels/internal/platform/validate"
)

// Options holds configuration options for the extract service
type Options struct {
	Threads       int      `env:"THREADS" validate:"gte=1,lte=4096"`
	Level         int      `env:"LEVEL" validate:"gte=1,lte=22"`
	Decompressors []string `env:"DECOMPRESSORS" validate:"dive,codec_tool"`
	Compressor    string   `env:"COMPRESSOR" validate:"oneof=zstd builtin"`
	Decoders      []string `env:"DECODERS" validate:"min=1,dive,required"`
	Escape        string   `env:"ESCAPE" validate:"oneof=space raw escape"`
	ProgressEvery int64    `env:"PROGRESS_EVERY" validate:"gte=1"`
	MaxLineBytes  int64    `env:"MAX_LINE_BYTES" validate:"gte=1024,lte=4294967296"`

	MetricsTextfile string `env:"METRICS_TEXTFILE"`
	Manifest        bool   `env:"MANIFEST"`
}

// Tools accepted in the decompressor preference list
var knownTools = []string{"pbzip2", "lbzip2", "bzip2", "pigz", "gzip", "zstd", codec.Builtin}

func init() {
	_ = validate.RegisterValidation("codec_tool", func(fl validate.FieldLevel) bool {
		return slices.Contains(knownTools, fl.Field().String())
	}, "{0} has unknown tool {1}")
}

// FromConfig reads the extract options from config with WDL_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WDL_")
	return Options{
		Threads:         c.MayInt("THREADS", runtime.NumCPU()),
		Level:           c.MayInt("LEVEL", 19),
		Decompressors:   lower(c.MayCSV("DECOMPRESSORS", nil)),
		Compressor:      strings.ToLower(c.MayString("COMPRESSOR", "zstd")),
		Decoders:        c.MayCSV("DECODERS", decode.Default),
		Escape:          strings.ToLower(c.MayString("ESCAPE", tsv.ModeEscape.String())),
		ProgressEvery:   int64(c.MayInt("PROGRESS_EVERY", 1_000_000)),
		MaxLineBytes:    c.MayBytes("MAX_LINE_BYTES", dump.DefaultMaxLine),
		MetricsTextfile: c.MayString("METRICS_TEXTFILE", ""),
		Manifest:        c.MayBool("MANIFEST", true),
	}
}

// Validate checks every option; the error carries the env key of the first bad field
func (o Options) Validate() error {
	return validate.Struct(o)
}

func lower(in []string) []string {
	for i, v := range in {
		in[i] = strings.ToLower(v)
	}
	return in
}
