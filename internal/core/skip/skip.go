// Package skip defines the typed "skip" outcome shared by every per-line stage.
// A line either produces tuples or is skipped for exactly one Reason; nothing per-record is an error
package skip

// Reason says why a line produced no tuples
type Reason uint8

const (
	// None means the line was not skipped
	None Reason = iota
	// Blank is an empty or whitespace-only line
	Blank
	// Delimiter is a bare "[" or "]" line of the outer array
	Delimiter
	// NotObject is a line that does not start with an object or array opener after cleanup
	NotObject
	// Malformed is a candidate that failed to decode
	Malformed
	// NotRecord is JSON that decoded to something other than an object
	NotRecord
	// NotEntity is an object without a Q or P prefixed id
	NotEntity
	// Oversize is a line longer than the configured maximum, discarded unread
	Oversize
	// Panic is a line whose processing panicked and was recovered
	Panic
)

// All lists every skip reason in declaration order, None excluded
var All = []Reason{Blank, Delimiter, NotObject, Malformed, NotRecord, NotEntity, Oversize, Panic}

// String returns the stable name used in logs, metrics and the run manifest
func (r Reason) String() string {
	switch r {
	case None:
		return "none"
	case Blank:
		return "blank"
	case Delimiter:
		return "delimiter"
	case NotObject:
		return "not_object"
	case Malformed:
		return "malformed"
	case NotRecord:
		return "not_record"
	case NotEntity:
		return "not_entity"
	case Oversize:
		return "oversize"
	case Panic:
		return "panic"
	default:
		return "unknown"
	}
}

// Counts tallies skips by reason; the zero value is ready to use
type Counts [Panic + 1]int64

// Add records one skip for r; None is ignored
func (c *Counts) Add(r Reason) {
	if r == None || int(r) >= len(c) {
		return
	}
	c[r]++
}

// Get returns the tally for r
func (c *Counts) Get(r Reason) int64 {
	if int(r) >= len(c) {
		return 0
	}
	return c[r]
}

// Total sums all reasons
func (c *Counts) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

// Map returns the non-zero tallies keyed by reason name
func (c *Counts) Map() map[string]int64 {
	out := make(map[string]int64, len(All))
	for _, r := range All {
		if v := c[r]; v > 0 {
			out[r.String()] = v
		}
	}
	return out
}
