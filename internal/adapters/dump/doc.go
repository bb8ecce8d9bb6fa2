// Package dump reads the decompressed dump stream line by line
//
// Design choices:
//   - bufio.Reader with ReadSlice rather than bufio.Scanner, so a line longer than the
//     cap is discarded and reading continues instead of ending the stream.
//   - The returned slice is reused by the next call; callers copy what they keep.
//   - Byte and line counters include discarded lines so progress matches the input.
package dump
