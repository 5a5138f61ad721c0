package container

import (
	"github.com/chrisagrams/mscompress/compress"
	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
	"github.com/chrisagrams/mscompress/mmapfile"
)

// Container bundles a parsed header, trailer, and partition table: opening a
// .msz file for decode or extraction resolves exactly these three pieces
// before any stream byte is touched (§4.7 "Decoder").
type Container struct {
	Header  Header
	Trailer Trailer
	Records []PartitionRecord

	src *mmapfile.Source
}

// Open parses the header, trailer, and partition table of an
// already-memory-mapped container.
func Open(src *mmapfile.Source) (*Container, error) {
	if src.Len() < format.HeaderSize+TrailerSize {
		return nil, errs.CorruptF("container.Open", "file too small to be a container: %d bytes", src.Len())
	}

	h, err := ParseHeader(src.Slice(0, format.HeaderSize))
	if err != nil {
		return nil, err
	}

	trailerStart := int64(src.Len()) - TrailerSize
	t, err := ParseTrailer(src.Slice(trailerStart, int64(src.Len())))
	if err != nil {
		return nil, err
	}

	records, err := DecodePartitionTable(src.Slice(int64(t.PartitionTableOffset), trailerStart), int(t.DivisionCount), int64(t.OriginalSize))
	if err != nil {
		return nil, err
	}

	return &Container{Header: h, Trailer: t, Records: records, src: src}, nil
}

// streamIndex maps a stream's flat block-length table onto byte offsets
// within the container file, so a block can be sliced directly from the
// memory-mapped source.
type streamIndex struct {
	entries []BlockLengthEntry
	offsets []uint64
}

func buildStreamIndex(entries []BlockLengthEntry, streamStart uint64) streamIndex {
	offsets := make([]uint64, len(entries))
	cur := streamStart
	for i, e := range entries {
		offsets[i] = cur
		cur += e.CompressedSize
	}

	return streamIndex{entries: entries, offsets: offsets}
}

func (s streamIndex) slice(src *mmapfile.Source, i int) []byte {
	start := int64(s.offsets[i])
	end := start + int64(s.entries[i].CompressedSize)

	return src.Slice(start, end)
}

// streamLayout precomputes, for one stream, the cumulative block-count
// prefix sums per division and the stream's byte-offset index, so callers
// can address "division d's j-th block" directly.
type streamLayout struct {
	index  streamIndex
	prefix []int // prefix[d] = number of blocks preceding division d
}

func (c *Container) layoutFor(blockTableOffset uint64, streamStart uint64, blocksOf func(PartitionRecord) uint32) (streamLayout, error) {
	prefix := make([]int, len(c.Records)+1)
	for i, r := range c.Records {
		prefix[i+1] = prefix[i] + int(blocksOf(r))
	}
	n := prefix[len(c.Records)]

	entries, err := DecodeBlockLengthTable(c.src.Slice(int64(blockTableOffset), int64(c.src.Len())), n)
	if err != nil {
		return streamLayout{}, err
	}

	return streamLayout{index: buildStreamIndex(entries, streamStart), prefix: prefix}, nil
}

// xmlLayout, mzLayout, and intensityLayout build the three streams'
// block-offset indices. Each call re-decodes the relevant block-length
// table; callers that need more than one division typically call these
// once and reuse the result.
func (c *Container) xmlLayout() (streamLayout, error) {
	return c.layoutFor(c.Trailer.XMLBlockTableOffset, c.Trailer.XMLStreamOffset, func(r PartitionRecord) uint32 { return r.XMLBlocks })
}

func (c *Container) mzLayout() (streamLayout, error) {
	return c.layoutFor(c.Trailer.MzBlockTableOffset, c.Trailer.MzStreamOffset, func(r PartitionRecord) uint32 { return r.MzBlocks })
}

func (c *Container) intensityLayout() (streamLayout, error) {
	return c.layoutFor(c.Trailer.IntensityBlockTableOffset, c.Trailer.IntensityStreamOffset, func(r PartitionRecord) uint32 { return r.IntBlocks })
}

// decompressBlock decompresses division d's j-th block of a stream
// (j is local to the division, 0-based) using codec.
func (c *Container) decompressBlock(layout streamLayout, codec compress.Decompressor, d, j int) ([]byte, error) {
	i := layout.prefix[d] + j
	return codec.Decompress(layout.index.slice(c.src, i))
}

// decompressDivisionXML decompresses and concatenates all of division d's
// xml blocks, in order. The xml stream's growable buffer (§4.5) may flush
// more than one block per division when its fill exceeds the configured
// block size, unlike the m/z and intensity streams, which are always one
// block per spectrum (see PartitionRecord).
func (c *Container) decompressDivisionXML(layout streamLayout, codec compress.Decompressor, d int, blocks uint32) ([]byte, error) {
	if blocks == 1 {
		return c.decompressBlock(layout, codec, d, 0)
	}

	var buf []byte
	for j := 0; j < int(blocks); j++ {
		seg, err := c.decompressBlock(layout, codec, d, j)
		if err != nil {
			return nil, err
		}
		buf = append(buf, seg...)
	}

	return buf, nil
}
