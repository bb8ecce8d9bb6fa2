package decode

import (
	jsoniter "github.com/json-iterator/go"

	"wdlabels/internal/core/entity"
)

// jsoniterDecoder unmarshals into a loose record; unknown fields are skipped, not built
type jsoniterDecoder struct {
	api jsoniter.API
}

func newJSONIter() *jsoniterDecoder {
	return &jsoniterDecoder{api: jsoniter.ConfigFastest}
}

func (d *jsoniterDecoder) Name() string { return "jsoniter" }

func (d *jsoniterDecoder) Decode(line string) (entity.Entity, error) {
	if !startsObject(line) {
		if d.api.Valid([]byte(line)) {
			return entity.Entity{}, ErrNotObject
		}
		return entity.Entity{}, ErrMalformed
	}
	var rec looseRecord
	if err := d.api.UnmarshalFromString(line, &rec); err != nil {
		return entity.Entity{}, ErrMalformed
	}
	return rec.entity(), nil
}
