// Package tsv formats label/description tuples as tab-separated lines:
//
//	entity_id \t language \t label \t description \n
//
// Label and description text comes straight from the dump and may itself contain
// tabs or newlines, which would break the four-field line. Mode decides what to do
package tsv

import (
	"bufio"
	"io"
	"strings"

	"wdlabels/internal/core/entity"
	perr "wdlabels/internal/platform/errors"
)

// Mode selects how tab, CR and LF inside a field are written
type Mode uint8

const (
	// ModeEscape uses PostgreSQL COPY text escapes (\\ \t \n \r); reversible with Unescape
	ModeEscape Mode = iota
	// ModeSpace replaces each tab, CR or LF inside a field with a space; every line keeps four fields
	ModeSpace
	// ModeRaw writes fields untouched; embedded separators corrupt the line
	ModeRaw
)

// Modes lists the accepted mode names, default first
var Modes = []string{"escape", "space", "raw"}

// String returns the config name of the mode
func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeSpace:
		return "space"
	default:
		return "escape"
	}
}

// ParseMode maps a config name to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "escape":
		return ModeEscape, nil
	case "space":
		return ModeSpace, nil
	case "raw":
		return ModeRaw, nil
	default:
		return ModeEscape, perr.Configf("tsv: unknown escape mode %q (want one of %s)", s, strings.Join(Modes, ", "))
	}
}

func needsRewrite(s string, m Mode) bool {
	switch m {
	case ModeRaw:
		return false
	case ModeEscape:
		return strings.ContainsAny(s, "\\\t\n\r")
	default:
		return strings.ContainsAny(s, "\t\n\r")
	}
}

func appendField(dst []byte, s string, m Mode) []byte {
	if !needsRewrite(s, m) {
		return append(dst, s...)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case m == ModeSpace && (c == '\t' || c == '\n' || c == '\r'):
			dst = append(dst, ' ')
		case m == ModeEscape && c == '\\':
			dst = append(dst, '\\', '\\')
		case m == ModeEscape && c == '\t':
			dst = append(dst, '\\', 't')
		case m == ModeEscape && c == '\n':
			dst = append(dst, '\\', 'n')
		case m == ModeEscape && c == '\r':
			dst = append(dst, '\\', 'r')
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// AppendTuple appends the formatted line for t to dst
// rewritten reports whether any field had to be changed to fit the line format
func AppendTuple(dst []byte, t entity.Tuple, m Mode) (out []byte, rewritten bool) {
	fields := [4]string{t.EntityID, t.Lang, t.Label, t.Description}
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, '\t')
		}
		if needsRewrite(f, m) {
			rewritten = true
		}
		dst = appendField(dst, f, m)
	}
	return append(dst, '\n'), rewritten
}

// Format returns the formatted line for t
func Format(t entity.Tuple, m Mode) (string, bool) {
	b, rw := AppendTuple(make([]byte, 0, 64+len(t.Label)+len(t.Description)), t, m)
	return string(b), rw
}

// Unescape reverses ModeEscape for one field
func Unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Parse splits one formatted line back into a Tuple; ok is false when it has not exactly four fields
func Parse(line string, m Mode) (entity.Tuple, bool) {
	line = strings.TrimSuffix(line, "\n")
	parts := strings.Split(line, "\t")
	if len(parts) != 4 {
		return entity.Tuple{}, false
	}
	if m == ModeEscape {
		for i := range parts {
			parts[i] = Unescape(parts[i])
		}
	}
	return entity.Tuple{EntityID: parts[0], Lang: parts[1], Label: parts[2], Description: parts[3]}, true
}

// Writer buffers formatted tuples in front of a sink
// The first write error is sticky: later calls return it without writing
type Writer struct {
	bw    *bufio.Writer
	sink  *countingWriter
	mode  Mode
	buf   []byte
	err   error
	bytes int64

	// end offsets of tuples the sink has not fully accepted yet
	ends      []int64
	delivered int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// NewWriter wraps w with a size-byte buffer; size <= 0 uses 1 MiB
func NewWriter(w io.Writer, m Mode, size int) *Writer {
	if size <= 0 {
		size = 1 << 20
	}
	cw := &countingWriter{w: w}
	return &Writer{bw: bufio.NewWriterSize(cw, size), sink: cw, mode: m, buf: make([]byte, 0, 4096)}
}

// Write formats t and writes it
func (w *Writer) Write(t entity.Tuple) (rewritten bool, err error) {
	if w.err != nil {
		return false, w.err
	}
	w.buf, rewritten = AppendTuple(w.buf[:0], t, w.mode)
	n, err := w.bw.Write(w.buf)
	w.bytes += int64(n)
	if err != nil {
		w.err = err
		w.settle()
		return rewritten, err
	}
	w.ends = append(w.ends, w.bytes)
	w.settle()
	return rewritten, nil
}

// Flush pushes buffered lines to the sink
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.bw.Flush(); err != nil {
		w.err = err
	}
	w.settle()
	return w.err
}

// settle moves tuples whose last byte reached the sink from ends to delivered
func (w *Writer) settle() {
	i := 0
	for i < len(w.ends) && w.ends[i] <= w.sink.n {
		i++
	}
	if i == 0 {
		return
	}
	w.delivered += int64(i)
	w.ends = append(w.ends[:0], w.ends[i:]...)
}

// DeliveredBytes returns how many bytes the sink accepted
func (w *Writer) DeliveredBytes() int64 { return w.sink.n }

// Delivered returns how many written tuples the sink has fully accepted
// It trails the successful Write count by whatever is still buffered or was lost to a sink error
func (w *Writer) Delivered() int64 { return w.delivered }

// Err returns the sticky error, if any
func (w *Writer) Err() error { return w.err }

// Bytes returns the number of formatted bytes accepted so far
func (w *Writer) Bytes() int64 { return w.bytes }
