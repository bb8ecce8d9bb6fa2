// Package codec starts the decompressor feeding the pipeline and the compressor draining it
//
// Design choices:
//   - External tools first: parallel bzip2/gzip/zstd binaries outrun anything in-process,
//     and the OS pipe gives us decompression, parsing and compression on separate cores.
//   - Candidates are tried in order with exec.LookPath; the first present one wins.
//   - "builtin" runs klauspost/compress in-process for hosts without the tools.
//   - Close is the shutdown contract for each end: close our side of the pipe, then wait.
//     A decompressor killed by SIGPIPE because we stopped reading early is not a failure.
package codec
