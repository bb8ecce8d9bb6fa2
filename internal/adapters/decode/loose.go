package decode

import (
	"strings"

	"wdlabels/internal/core/entity"
)

// looseRecord is the shared target for the map based backends
// Fields are untyped so a labels value of the wrong shape cannot fail the whole line
type looseRecord struct {
	ID           any `json:"id"`
	Labels       any `json:"labels"`
	Descriptions any `json:"descriptions"`
}

func (r looseRecord) entity() entity.Entity {
	var e entity.Entity
	if s, ok := r.ID.(string); ok {
		e.ID = s
	}
	e.Labels = termsFromMap(termMap(r.Labels))
	if m := termMap(r.Descriptions); len(m) > 0 {
		e.Descriptions = m
	}
	return e
}

// termMap keeps entries shaped like {"<lang>": {"value": "<string>"}}
func termMap(v any) map[string]string {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil
	}
	out := make(map[string]string, len(obj))
	for lang, sub := range obj {
		rec, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := rec["value"].(string); ok {
			out[lang] = s
		}
	}
	return out
}

func startsObject(line string) bool {
	s := strings.TrimLeft(line, " \t\r\n")
	return s != "" && s[0] == '{'
}
