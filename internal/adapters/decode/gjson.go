package decode

import (
	"github.com/tidwall/gjson"

	"wdlabels/internal/core/entity"
)

// gjsonDecoder validates then walks the raw line without building a tree
// Labels keep source order
type gjsonDecoder struct{}

func newGJSON() *gjsonDecoder { return &gjsonDecoder{} }

func (gjsonDecoder) Name() string { return "gjson" }

func (gjsonDecoder) Decode(line string) (entity.Entity, error) {
	if !gjson.Valid(line) {
		return entity.Entity{}, ErrMalformed
	}
	root := gjson.Parse(line)
	if !root.IsObject() {
		return entity.Entity{}, ErrNotObject
	}
	var e entity.Entity
	if id := root.Get("id"); id.Type == gjson.String {
		e.ID = id.Str
	}
	if labels := root.Get("labels"); labels.IsObject() {
		labels.ForEach(func(k, v gjson.Result) bool {
			if s, ok := termValue(v); ok {
				e.Labels = append(e.Labels, entity.Term{Lang: k.Str, Value: s})
			}
			return true
		})
	}
	if descs := root.Get("descriptions"); descs.IsObject() {
		descs.ForEach(func(k, v gjson.Result) bool {
			if s, ok := termValue(v); ok {
				if e.Descriptions == nil {
					e.Descriptions = make(map[string]string)
				}
				e.Descriptions[k.Str] = s
			}
			return true
		})
	}
	return e, nil
}

func termValue(v gjson.Result) (string, bool) {
	if !v.IsObject() {
		return "", false
	}
	val := v.Get("value")
	if val.Type != gjson.String {
		return "", false
	}
	return val.Str, true
}
