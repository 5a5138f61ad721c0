package container

import (
	"encoding/binary"

	"github.com/chrisagrams/mscompress/errs"
)

// BlockLengthEntry is one record of a block-length table (§6 "Block-length
// tables"): the uncompressed and compressed size of a single compressed
// block, in stream order.
type BlockLengthEntry struct {
	OriginalSize   uint64
	CompressedSize uint64
}

const blockLengthEntrySize = 16

// EncodeBlockLengthTable serialises a stream's block-length table as a flat
// sequence of {u64 original_size, u64 compressed_size} pairs.
func EncodeBlockLengthTable(entries []BlockLengthEntry) []byte {
	buf := make([]byte, len(entries)*blockLengthEntrySize)
	for i, e := range entries {
		o := i * blockLengthEntrySize
		binary.LittleEndian.PutUint64(buf[o:], e.OriginalSize)
		binary.LittleEndian.PutUint64(buf[o+8:], e.CompressedSize)
	}

	return buf
}

// DecodeBlockLengthTable parses a byte range holding `n` consecutive
// entries, as addressed via a trailer offset and the known number of
// blocks a stream was split into.
func DecodeBlockLengthTable(buf []byte, n int) ([]BlockLengthEntry, error) {
	want := n * blockLengthEntrySize
	if len(buf) < want {
		return nil, errs.CorruptF("container.DecodeBlockLengthTable", "short table: got %d bytes, want %d for %d entries", len(buf), want, n)
	}

	out := make([]BlockLengthEntry, n)
	for i := range out {
		o := i * blockLengthEntrySize
		out[i] = BlockLengthEntry{
			OriginalSize:   binary.LittleEndian.Uint64(buf[o:]),
			CompressedSize: binary.LittleEndian.Uint64(buf[o+8:]),
		}
	}

	return out, nil
}

// Sum returns the total compressed byte length covered by entries, i.e. the
// byte length of the corresponding stream in the container.
func Sum(entries []BlockLengthEntry) uint64 {
	var sum uint64
	for _, e := range entries {
		sum += e.CompressedSize
	}

	return sum
}
