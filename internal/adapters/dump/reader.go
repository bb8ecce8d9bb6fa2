package dump

import (
	"bufio"
	stderrs "errors"
	"io"

	perr "wdlabels/internal/platform/errors"
	"wdlabels/internal/platform/logger"
)

const (
	// DefaultMaxLine is the default cap for one line; the largest real entities are a few MiB
	DefaultMaxLine = 256 << 20
	readBufSize    = 1 << 20
	sampleRawMax   = 512 // max bytes of the first line to log at debug
)

// Reader yields lines from a decompressed dump
type Reader struct {
	br       *bufio.Reader
	max      int
	buf      []byte
	err      error
	lines    int64
	bytes    int64
	oversize int64
	sampled  bool
}

// NewReader wraps r; maxLine <= 0 uses DefaultMaxLine
func NewReader(r io.Reader, maxLine int) *Reader {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	size := readBufSize
	if maxLine+1 < size {
		size = max(maxLine+1, 16)
	}
	return &Reader{br: bufio.NewReaderSize(r, size), max: maxLine}
}

// Next returns the next line without its trailing newline
// oversize is true when the line exceeded the cap; its bytes were consumed and line is nil.
// Next returns io.EOF once the stream is exhausted; read failures carry perr.ErrorCodeRead
func (rd *Reader) Next() (line []byte, oversize bool, err error) {
	if rd.err != nil {
		return nil, false, rd.err
	}
	rd.buf = rd.buf[:0]
	var n int
	for {
		frag, rerr := rd.br.ReadSlice('\n')
		n += len(frag)
		rd.bytes += int64(len(frag))
		if !oversize {
			if len(rd.buf)+len(frag) > rd.max+1 {
				oversize = true
				rd.buf = rd.buf[:0]
			} else {
				rd.buf = append(rd.buf, frag...)
			}
		}
		if stderrs.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		if rerr == io.EOF {
			rd.err = io.EOF
			if n == 0 {
				return nil, false, io.EOF
			}
			break
		}
		if rerr != nil {
			rd.err = perr.Wrap(rerr, perr.ErrorCodeRead, "dump: read")
			return nil, false, rd.err
		}
		break
	}
	rd.lines++

	if k := len(rd.buf); k > 0 && rd.buf[k-1] == '\n' {
		rd.buf = rd.buf[:k-1]
	}
	if !oversize && len(rd.buf) > rd.max {
		oversize = true
	}
	if oversize {
		rd.oversize++
		return nil, true, nil
	}

	if !rd.sampled {
		rd.sampled = true
		logger.Named("dump").Debug().
			Int("line_bytes", len(rd.buf)).
			Str("sample_raw", truncateUTF8(rd.buf, sampleRawMax)).
			Msg("dump: first line")
	}
	return rd.buf, false, nil
}

// Stats returns lines read (oversize included), raw bytes consumed and oversize lines discarded
func (rd *Reader) Stats() (lines, bytes, oversize int64) {
	return rd.lines, rd.bytes, rd.oversize
}

// truncateUTF8 returns at most max bytes of b as a string, backing up to a rune boundary
func truncateUTF8(b []byte, max int) string {
	if max <= 0 || len(b) <= max {
		return string(b)
	}
	i := max
	for i > 0 && (b[i]&0xC0) == 0x80 {
		i--
	}
	if i <= 0 {
		i = max
	}
	return string(b[:i]) + "..."
}
