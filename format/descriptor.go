package format

// Descriptor is the data-format descriptor (§3 "Data-format descriptor"):
// the written contract produced once during compression and reconstructed
// verbatim on decode. It is persisted directly into the container header.
type Descriptor struct {
	// Source side, discovered by the Pattern Detector.
	SourceMzElement        ElementType
	SourceIntensityElement ElementType
	SourcePayloadCompress  SourceCompression
	SpectrumCount          uint32

	// Target side, chosen by the caller (or defaulted) before compression.
	MzTransform        TransformID
	IntensityTransform TransformID
	XMLCodec           BlockCodec
	MzCodec            BlockCodec
	IntensityCodec     BlockCodec

	MzScale        float32
	IntensityScale float32

	BlockSize uint64
}

// Validate checks that every field of the descriptor names a value this
// implementation recognizes, without checking transform/element
// compatibility (that is the selection matrix's job, resolved once at
// pipeline setup per §4.4).
func (d Descriptor) Validate() error {
	if _, err := d.SourceMzElement.ByteWidth(); err != nil {
		return err
	}
	if _, err := d.SourceIntensityElement.ByteWidth(); err != nil {
		return err
	}
	switch d.SourcePayloadCompress {
	case SourceCompressionZlib, SourceCompressionNone:
	default:
		return ErrUnsupportedAccession
	}
	for _, c := range []BlockCodec{d.XMLCodec, d.MzCodec, d.IntensityCodec} {
		switch c {
		case BlockCodecLossless, BlockCodecZstd, BlockCodecS2, BlockCodecLZ4:
		default:
			return ErrUnsupportedAccession
		}
	}

	return nil
}
