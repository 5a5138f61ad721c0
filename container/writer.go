package container

import (
	"github.com/chrisagrams/mscompress/format"
	"github.com/chrisagrams/mscompress/mmapfile"
)

// StreamBlocks is one stream's compressed bytes plus the block-length table
// describing how they split into blocks (spec.md §3 "Compressed block",
// "Block-length table").
type StreamBlocks struct {
	Compressed []byte
	Lengths    []BlockLengthEntry
}

// WriteInput gathers everything the Writer needs: the descriptor, the
// division set, and the three streams' already-compressed bytes, as
// produced by the codec pipeline.
type WriteInput struct {
	Descriptor         format.Descriptor
	MzTransform        format.TransformID
	IntensityTransform format.TransformID
	Identification     string
	OriginalSize       uint64
	Divisions          []PartitionRecord

	XML       StreamBlocks
	Mz        StreamBlocks
	Intensity StreamBlocks
}

// Write emits the container to out in the order fixed by §4.6: header,
// three compressed streams, three block-length tables, partition table,
// trailer — recording each section's offset for the trailer as it goes.
func Write(out *mmapfile.AppendWriter, in WriteInput) error {
	h := FromDescriptor(in.Descriptor)
	h.Identification = in.Identification
	h.Checksum = checksum(in.XML.Compressed, in.Mz.Compressed, in.Intensity.Compressed)

	if _, err := out.Write(h.Bytes()); err != nil {
		return err
	}

	xmlStreamOffset := uint64(out.Offset())
	if _, err := out.Write(in.XML.Compressed); err != nil {
		return err
	}

	mzStreamOffset := uint64(out.Offset())
	if _, err := out.Write(in.Mz.Compressed); err != nil {
		return err
	}

	intensityStreamOffset := uint64(out.Offset())
	if _, err := out.Write(in.Intensity.Compressed); err != nil {
		return err
	}

	xmlBlockTableOffset := uint64(out.Offset())
	if _, err := out.Write(EncodeBlockLengthTable(in.XML.Lengths)); err != nil {
		return err
	}

	mzBlockTableOffset := uint64(out.Offset())
	if _, err := out.Write(EncodeBlockLengthTable(in.Mz.Lengths)); err != nil {
		return err
	}

	intensityBlockTableOffset := uint64(out.Offset())
	if _, err := out.Write(EncodeBlockLengthTable(in.Intensity.Lengths)); err != nil {
		return err
	}

	partitionTableOffset := uint64(out.Offset())
	if _, err := out.Write(EncodePartitionTable(in.Divisions)); err != nil {
		return err
	}

	t := Trailer{
		XMLStreamOffset:           xmlStreamOffset,
		MzStreamOffset:            mzStreamOffset,
		IntensityStreamOffset:     intensityStreamOffset,
		XMLBlockTableOffset:       xmlBlockTableOffset,
		MzBlockTableOffset:        mzBlockTableOffset,
		IntensityBlockTableOffset: intensityBlockTableOffset,
		PartitionTableOffset:      partitionTableOffset,
		SpectrumCount:             h.SourceSpectrumCount,
		OriginalSize:              in.OriginalSize,
		DivisionCount:             uint32(len(in.Divisions)),
		Magic:                     format.Magic,
		MzTransform:               in.MzTransform,
		IntensityTransform:        in.IntensityTransform,
	}

	_, err := out.Write(t.Bytes())

	return err
}
