// Package compress provides the general-purpose block codecs applied to a
// transformed stream after the Codec Pipeline flushes it (spec.md §4.5
// "Block Codec & Streaming"): the second of the container's two compression
// stages, after the numeric transform.
//
// # Supported codecs
//
//   - lossless (format.BlockCodecLossless): pass-through, no compression
//   - zstd (format.BlockCodecZstd): best ratio, moderate speed
//   - s2 (format.BlockCodecS2): fast, good ratio, a Snappy-compatible
//     alternative
//   - lz4 (format.BlockCodecLZ4): very fast decompression
//
// Each is reachable through the shared Codec interface, selected by
// CreateCodec/GetCodec from its format.BlockCodec accession so the
// container header alone determines which codec a reader must use.
package compress
