package linenorm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"wdlabels/internal/core/skip"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		skip skip.Reason
	}{
		{"open bracket", "[", "", skip.Delimiter},
		{"close bracket", "]", "", skip.Delimiter},
		{"bracket with whitespace", "  ]\n", "", skip.Delimiter},
		{"blank", "   \t\n", "", skip.Blank},
		{"empty", "", "", skip.Blank},
		{"object with comma", `{"id":"Q42"},`, `{"id":"Q42"}`, skip.None},
		{"object with comma and newline", "{\"id\":\"Q42\"},\r\n", `{"id":"Q42"}`, skip.None},
		{"object with space before comma", `{"id":"Q42"}  ,`, `{"id":"Q42"}`, skip.None},
		{"last object without comma", `{"id":"Q42"}`, `{"id":"Q42"}`, skip.None},
		{"only one comma stripped", `{"id":"Q42"},,`, `{"id":"Q42"},`, skip.None},
		{"array element", `[1,2],`, `[1,2]`, skip.None},
		{"lone comma", ",", "", skip.NotObject},
		{"close bracket comma", "],", "", skip.NotObject},
		{"scalar", `"Q42",`, "", skip.NotObject},
		{"truncated object still a candidate", `{"id":"Q1", bad json`, `{"id":"Q1", bad json`, skip.None},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, r := Normalize(c.in)
			if got != c.want || r != c.skip {
				t.Fatalf("Normalize(%q) = (%q, %v), want (%q, %v)", c.in, got, r, c.want, c.skip)
			}
		})
	}
}

func TestNormalize_CandidateAlwaysOpensObjectOrArray(t *testing.T) {
	inputs := []string{"{}", " {} ,", "[", "]", "x", "{,", "[],", "  ", "{\"a\":1},\n"}
	for _, in := range inputs {
		got, r := Normalize(in)
		if r != skip.None {
			if got != "" {
				t.Fatalf("skip for %q returned non-empty %q", in, got)
			}
			continue
		}
		if got == "" || (got[0] != '{' && got[0] != '[') {
			t.Fatalf("candidate %q from %q does not open an object or array", got, in)
		}
		if strings.HasSuffix(got, " ") {
			t.Fatalf("candidate %q not trimmed", got)
		}
	}
}

func TestText_ReplacesInvalidUTF8(t *testing.T) {
	raw := []byte("{\"id\":\"Q1\",\"x\":\"a\xffb\"},")
	s := Text(raw)
	if !utf8.ValidString(s) {
		t.Fatalf("Text returned invalid UTF-8: %q", s)
	}
	if !strings.Contains(s, "a�b") {
		t.Fatalf("expected replacement char in %q", s)
	}
}

func TestText_ValidPassThrough(t *testing.T) {
	raw := []byte(`{"id":"Q42","labels":{"ja":{"value":"ダグラス・アダムズ"}}}`)
	if got := Text(raw); got != string(raw) {
		t.Fatalf("Text changed valid input: %q", got)
	}
}
