package container

import (
	"encoding/binary"

	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
)

// TrailerSize is the fixed on-disk size of the trailer (§6 "Trailer, fixed
// size"): 7 stream/table u64 offsets, 1 u32 spectrum count, 1 u64 filesize,
// 1 u32 division count, 1 u32 magic, 2 u32 transform ids.
const TrailerSize = 7*8 + 4 + 8 + 4*4

// Trailer is written last so a reader can seek to filesize-TrailerSize and
// recover everything needed to locate the rest of the container (§4.6
// "Writer", §4.7 "Decoder").
type Trailer struct {
	XMLStreamOffset       uint64
	MzStreamOffset        uint64
	IntensityStreamOffset uint64

	XMLBlockTableOffset       uint64
	MzBlockTableOffset        uint64
	IntensityBlockTableOffset uint64

	PartitionTableOffset uint64

	SpectrumCount  uint32
	OriginalSize   uint64
	DivisionCount  uint32
	Magic          uint32

	MzTransform        format.TransformID
	IntensityTransform format.TransformID
}

// Bytes serialises the trailer to its fixed TrailerSize-byte layout.
func (t Trailer) Bytes() []byte {
	buf := make([]byte, TrailerSize)
	o := 0

	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[o:], v)
		o += 8
	}
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[o:], v)
		o += 4
	}

	putU64(t.XMLStreamOffset)
	putU64(t.MzStreamOffset)
	putU64(t.IntensityStreamOffset)
	putU64(t.XMLBlockTableOffset)
	putU64(t.MzBlockTableOffset)
	putU64(t.IntensityBlockTableOffset)
	putU64(t.PartitionTableOffset)
	putU32(t.SpectrumCount)
	putU64(t.OriginalSize)
	putU32(t.DivisionCount)
	putU32(t.Magic)
	putU32(uint32(t.MzTransform))
	putU32(uint32(t.IntensityTransform))

	return buf
}

// ParseTrailer decodes a TrailerSize-byte buffer, validating its magic tag.
func ParseTrailer(buf []byte) (Trailer, error) {
	if len(buf) < TrailerSize {
		return Trailer{}, errs.CorruptF("container.ParseTrailer", "short trailer: got %d bytes, want %d", len(buf), TrailerSize)
	}

	var t Trailer
	o := 0

	getU64 := func() uint64 {
		v := binary.LittleEndian.Uint64(buf[o:])
		o += 8
		return v
	}
	getU32 := func() uint32 {
		v := binary.LittleEndian.Uint32(buf[o:])
		o += 4
		return v
	}

	t.XMLStreamOffset = getU64()
	t.MzStreamOffset = getU64()
	t.IntensityStreamOffset = getU64()
	t.XMLBlockTableOffset = getU64()
	t.MzBlockTableOffset = getU64()
	t.IntensityBlockTableOffset = getU64()
	t.PartitionTableOffset = getU64()
	t.SpectrumCount = getU32()
	t.OriginalSize = getU64()
	t.DivisionCount = getU32()
	t.Magic = getU32()
	t.MzTransform = format.TransformID(getU32())
	t.IntensityTransform = format.TransformID(getU32())

	if t.Magic != format.Magic {
		return Trailer{}, errs.CorruptF("container.ParseTrailer", "bad trailer magic 0x%X, want 0x%X", t.Magic, format.Magic)
	}

	return t, nil
}
