// Package linenorm turns one raw line of a pretty-printed JSON array dump into a
// candidate object string, or a typed skip.
//
// The dump is one big JSON array with one entity per line:
//
//	[
//	{"id":"Q1",...},
//	{"id":"Q2",...}
//	]
//
// so a line is made decodable on its own by dropping the brackets and the element
// separator, without ever parsing the array
package linenorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"wdlabels/internal/core/skip"

	xunicode "golang.org/x/text/encoding/unicode"
)

// Text converts a raw line to a string, replacing invalid UTF-8 with U+FFFD
// Valid input (nearly every line) is converted without a transform pass
func Text(line []byte) string {
	if utf8.Valid(line) {
		return string(line)
	}
	out, err := xunicode.UTF8.NewDecoder().Bytes(line)
	if err != nil {
		return strings.ToValidUTF8(string(line), "�")
	}
	return string(out)
}

// Normalize trims s, drops array delimiters and one trailing comma, and checks the
// result opens an object or array. It returns the candidate or the skip reason
func Normalize(s string) (string, skip.Reason) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", skip.Blank
	}
	if s == "[" || s == "]" {
		return "", skip.Delimiter
	}
	if strings.HasSuffix(s, ",") {
		s = strings.TrimRightFunc(s[:len(s)-1], unicode.IsSpace)
	}
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return "", skip.NotObject
	}
	return s, skip.None
}
