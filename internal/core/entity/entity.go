// Package entity holds the decoded entity record and the label/description extractor
package entity

import "iter"

// Term is one language-tagged string from a labels or descriptions mapping
type Term struct {
	Lang  string
	Value string
}

// Entity is the subset of a dump record we read. It lives for one line only.
// Labels keep source order when the decoder can see it; Descriptions is keyed by language
type Entity struct {
	ID           string
	Labels       []Term
	Descriptions map[string]string
}

// Tuple is the unit written to the sink
type Tuple struct {
	EntityID    string
	Lang        string
	Label       string
	Description string
}

// IsEntityID reports whether id names an item (Q...) or a property (P...)
func IsEntityID(id string) bool {
	return id != "" && (id[0] == 'Q' || id[0] == 'P')
}

// Description returns the description for lang, or "" when absent
func (e Entity) Description(lang string) string {
	if e.Descriptions == nil {
		return ""
	}
	return e.Descriptions[lang]
}

// Tuples yields one Tuple per language with a non-empty label.
// Records without a Q/P id yield nothing. The sequence is single pass and finite
func Tuples(e Entity) iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		if !IsEntityID(e.ID) {
			return
		}
		for _, l := range e.Labels {
			if l.Value == "" || l.Lang == "" {
				continue
			}
			t := Tuple{
				EntityID:    e.ID,
				Lang:        l.Lang,
				Label:       l.Value,
				Description: e.Description(l.Lang),
			}
			if !yield(t) {
				return
			}
		}
	}
}
