package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/internal/pool"
	"github.com/chrisagrams/mscompress/partition"
)

func TestSplitChunks_SingleChunkWhenUnderLimit(t *testing.T) {
	raw := []byte("hello world")
	chunks := splitChunks(raw, 1024)

	require.Len(t, chunks, 1)
	require.Equal(t, raw, chunks[0])
}

func TestSplitChunks_ZeroBlockSizeMeansNoSplit(t *testing.T) {
	raw := make([]byte, 100)
	chunks := splitChunks(raw, 0)

	require.Len(t, chunks, 1)
}

func TestSplitChunks_SplitsAtBoundary(t *testing.T) {
	raw := make([]byte, 25)
	for i := range raw {
		raw[i] = byte(i)
	}

	chunks := splitChunks(raw, 10)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 10)
	require.Len(t, chunks[1], 10)
	require.Len(t, chunks[2], 5)

	var rejoined []byte
	for _, c := range chunks {
		rejoined = append(rejoined, c...)
	}
	require.Equal(t, raw, rejoined)
}

func TestSplitChunks_EmptyInputYieldsOneChunk(t *testing.T) {
	chunks := splitChunks(nil, 10)

	require.Len(t, chunks, 1)
	require.Empty(t, chunks[0])
}

func TestConcatSpans(t *testing.T) {
	doc := []byte("0123456789ABCDEF")
	var t1 partition.PositionTable
	t1.Append(0, 4)
	t1.Append(8, 12)

	buf := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf)

	got := concatSpans(buf, doc, t1)
	require.Equal(t, []byte("012389AB"), got)
}

func TestConcatSpans_ReusesBuffer(t *testing.T) {
	doc := []byte("0123456789")
	var t1 partition.PositionTable
	t1.Append(0, 3)

	buf := pool.GetBlobBuffer()
	first := concatSpans(buf, doc, t1)
	require.Equal(t, []byte("012"), first)

	pool.PutBlobBuffer(buf)

	buf2 := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(buf2)
	second := concatSpans(buf2, doc, t1)
	require.Equal(t, []byte("012"), second)
}
