package decode

import (
	"encoding/json"

	"wdlabels/internal/core/entity"
)

// stdDecoder is the encoding/json baseline; always available
type stdDecoder struct{}

func newStd() *stdDecoder { return &stdDecoder{} }

func (stdDecoder) Name() string { return "std" }

func (stdDecoder) Decode(line string) (entity.Entity, error) {
	if !startsObject(line) {
		if json.Valid([]byte(line)) {
			return entity.Entity{}, ErrNotObject
		}
		return entity.Entity{}, ErrMalformed
	}
	var rec looseRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return entity.Entity{}, ErrMalformed
	}
	return rec.entity(), nil
}
