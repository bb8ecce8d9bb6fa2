package entity

import (
	"slices"
	"testing"
)

func TestIsEntityID(t *testing.T) {
	cases := map[string]bool{
		"Q42":  true,
		"P31":  true,
		"L1":   false,
		"M5":   false,
		"q42":  false,
		"":     false,
		"Q":    true,
		" Q42": false,
	}
	for id, want := range cases {
		if got := IsEntityID(id); got != want {
			t.Fatalf("IsEntityID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestTuples_LabelAndDescription(t *testing.T) {
	e := Entity{
		ID:           "Q42",
		Labels:       []Term{{Lang: "en", Value: "Douglas Adams"}},
		Descriptions: map[string]string{"en": "English writer"},
	}
	got := slices.Collect(Tuples(e))
	want := []Tuple{{EntityID: "Q42", Lang: "en", Label: "Douglas Adams", Description: "English writer"}}
	if !slices.Equal(got, want) {
		t.Fatalf("Tuples = %+v, want %+v", got, want)
	}
}

func TestTuples_MissingDescriptionIsEmpty(t *testing.T) {
	e := Entity{ID: "Q42", Labels: []Term{{Lang: "fr", Value: "Douglas Adams"}}}
	got := slices.Collect(Tuples(e))
	if len(got) != 1 || got[0].Description != "" || got[0].Lang != "fr" {
		t.Fatalf("Tuples = %+v", got)
	}
}

func TestTuples_RejectsNonEntityIDs(t *testing.T) {
	labels := []Term{{Lang: "en", Value: "x"}}
	for _, id := range []string{"", "L123", "M9", "foo"} {
		if n := len(slices.Collect(Tuples(Entity{ID: id, Labels: labels}))); n != 0 {
			t.Fatalf("id %q yielded %d tuples, want 0", id, n)
		}
	}
}

func TestTuples_SkipsEmptyLabels(t *testing.T) {
	e := Entity{
		ID: "P31",
		Labels: []Term{
			{Lang: "en", Value: "instance of"},
			{Lang: "de", Value: ""},
			{Lang: "", Value: "orphan"},
		},
		Descriptions: map[string]string{"de": "ignored without a label"},
	}
	got := slices.Collect(Tuples(e))
	if len(got) != 1 || got[0].Lang != "en" {
		t.Fatalf("Tuples = %+v", got)
	}
	for _, tp := range got {
		if tp.Label == "" || tp.EntityID == "" || tp.Lang == "" {
			t.Fatalf("emitted tuple with empty required field: %+v", tp)
		}
	}
}

func TestTuples_NoLabels(t *testing.T) {
	if n := len(slices.Collect(Tuples(Entity{ID: "P31"}))); n != 0 {
		t.Fatalf("got %d tuples for entity without labels", n)
	}
}

func TestTuples_EarlyStop(t *testing.T) {
	e := Entity{ID: "Q1", Labels: []Term{{"en", "a"}, {"fr", "b"}, {"de", "c"}}}
	n := 0
	for range Tuples(e) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d, want 2", n)
	}
}
