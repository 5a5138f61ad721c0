package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockLengthTable_RoundTrip(t *testing.T) {
	entries := []BlockLengthEntry{
		{OriginalSize: 1024, CompressedSize: 256},
		{OriginalSize: 0, CompressedSize: 0},
		{OriginalSize: 65536, CompressedSize: 1000},
	}

	buf := EncodeBlockLengthTable(entries)
	require.Len(t, buf, len(entries)*blockLengthEntrySize)

	decoded, err := DecodeBlockLengthTable(buf, len(entries))
	require.NoError(t, err)
	require.Equal(t, entries, decoded)
}

func TestDecodeBlockLengthTable_ShortBuffer(t *testing.T) {
	_, err := DecodeBlockLengthTable(make([]byte, 8), 2)
	require.Error(t, err)
}

func TestSum(t *testing.T) {
	entries := []BlockLengthEntry{
		{OriginalSize: 10, CompressedSize: 3},
		{OriginalSize: 20, CompressedSize: 7},
	}

	require.Equal(t, uint64(10), Sum(entries))
}
