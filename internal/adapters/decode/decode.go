package decode

import (
	stderrs "errors"
	"slices"
	"strings"

	"wdlabels/internal/core/entity"
	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/logger"
)

// Sentinel causes; the pipeline counts them as malformed and not_record skips
var (
	ErrMalformed = stderrs.New("decode: malformed json")
	ErrNotObject = stderrs.New("decode: top level value is not an object")
)

// Decoder parses one normalized line
// Implementations must be safe for sequential reuse; they are not shared across goroutines
type Decoder interface {
	Name() string
	Decode(line string) (entity.Entity, error)
}

// Default preference order
var Default = []string{"gjson", "jsoniter", "std"}

var registry = map[string]func() Decoder{
	"gjson":    func() Decoder { return newGJSON() },
	"jsoniter": func() Decoder { return newJSONIter() },
	"std":      func() Decoder { return newStd() },
}

// Names lists every known backend, sorted
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

const canary = `{"type":"item","id":"Q42","labels":{"en":{"language":"en","value":"Douglas Adams"},"de":{"language":"de","value":"Douglas\tAdams"}},"descriptions":{"en":{"language":"en","value":"English writer"}},"claims":{}}`

func selfTest(d Decoder) error {
	e, err := d.Decode(canary)
	if err != nil {
		return err
	}
	if e.ID != "Q42" || len(e.Labels) != 2 || e.Description("en") != "English writer" {
		return perr.Newf(perr.ErrorCodeStartup, "decode: %s failed canary record", d.Name())
	}
	for _, l := range e.Labels {
		if l.Lang == "de" && l.Value != "Douglas\tAdams" {
			return perr.Newf(perr.ErrorCodeStartup, "decode: %s mangled escapes in canary record", d.Name())
		}
	}
	if _, err := d.Decode(`{"id":"Q1", bad`); err == nil {
		return perr.Newf(perr.ErrorCodeStartup, "decode: %s accepted truncated json", d.Name())
	}
	return nil
}

// Select returns the first backend in prefs that exists and passes its self test
// Unknown names are logged and skipped; an empty prefs means Default
func Select(prefs []string) (Decoder, error) {
	if len(prefs) == 0 {
		prefs = Default
	}
	l := logger.Named("decode")
	var tried []string
	for _, p := range prefs {
		name := strings.ToLower(strings.TrimSpace(p))
		mk, ok := registry[name]
		if !ok {
			l.Warn().Str("decoder", p).Msg("decode: unknown backend, skipping")
			continue
		}
		tried = append(tried, name)
		d := mk()
		if err := selfTest(d); err != nil {
			l.Warn().Err(err).Str("decoder", name).Msg("decode: backend failed self test, skipping")
			continue
		}
		l.Debug().Str("decoder", name).Msg("decode: backend selected")
		return d, nil
	}
	return nil, perr.Newf(perr.ErrorCodeStartup, "decode: no usable backend among %v (known: %v)", prefs, Names())
}

// MustGet returns the named backend without a self test; panics on an unknown name
func MustGet(name string) Decoder {
	mk, ok := registry[name]
	if !ok {
		panic("decode: unknown backend " + name)
	}
	return mk()
}

// termsFromMap flattens a language -> value map into Terms sorted by language
func termsFromMap(m map[string]string) []entity.Term {
	if len(m) == 0 {
		return nil
	}
	out := make([]entity.Term, 0, len(m))
	for lang, v := range m {
		out = append(out, entity.Term{Lang: lang, Value: v})
	}
	slices.SortFunc(out, func(a, b entity.Term) int { return strings.Compare(a.Lang, b.Lang) })
	return out
}
