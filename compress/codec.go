package compress

import (
	"fmt"

	"github.com/chrisagrams/mscompress/format"
)

// Compressor provides general-purpose compression of one transformed stream
// block (spec.md §4.5 "Block Codec").
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller; it is newly allocated except
	//     for NoOpCompressor, which returns the input slice itself
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor provides general-purpose decompression for a stream block.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use
// or document their thread safety requirements clearly.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with an incompatible algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// BlockStats provides compression ratio information about one flushed block
// (spec.md §4.5 "CompressedBlock"), useful for monitoring and choosing
// between block codecs.
type BlockStats struct {
	Algorithm      format.BlockCodec
	OriginalSize   int64
	CompressedSize int64
}

// CompressionRatio returns compressed size / original size. Values less
// than 1.0 indicate successful compression.
func (s BlockStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s BlockStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a Codec for the given
// block-codec accession (spec.md §4.5).
func CreateCodec(codec format.BlockCodec, target string) (Codec, error) {
	switch codec {
	case format.BlockCodecLossless:
		return NewNoOpCompressor(), nil
	case format.BlockCodecZstd:
		return NewZstdCompressor(), nil
	case format.BlockCodecS2:
		return NewS2Compressor(), nil
	case format.BlockCodecLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s block codec: %s", target, codec)
	}
}

var builtinCodecs = map[format.BlockCodec]Codec{
	format.BlockCodecLossless: NewNoOpCompressor(),
	format.BlockCodecZstd:     NewZstdCompressor(),
	format.BlockCodecS2:       NewS2Compressor(),
	format.BlockCodecLZ4:      NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified block-codec
// accession.
func GetCodec(codec format.BlockCodec) (Codec, error) {
	if c, ok := builtinCodecs[codec]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("unsupported block codec: %s", codec)
}
