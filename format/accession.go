// Package format defines the on-disk vocabulary shared by the scanner, the
// codec pipeline, and the container reader/writer: controlled-vocabulary
// accessions, the enumerations they map to, and the data-format descriptor
// that is persisted verbatim in the container header.
package format

import "fmt"

// ElementType is the source numeric element width of an m/z or intensity
// binary array, as declared by an mzML cvParam accession.
type ElementType uint32

// Source payload element-type accessions (mzML CV).
const (
	Element32Float ElementType = 1000521 // "32-bit float"
	Element64Double ElementType = 1000523 // "64-bit float"
)

func (e ElementType) String() string {
	switch e {
	case Element32Float:
		return "32f"
	case Element64Double:
		return "64d"
	default:
		return fmt.Sprintf("ElementType(%d)", uint32(e))
	}
}

// ByteWidth returns the size in bytes of a single element of this type.
func (e ElementType) ByteWidth() (int, error) {
	switch e {
	case Element32Float:
		return 4, nil
	case Element64Double:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: unknown element type accession %d", ErrUnsupportedAccession, uint32(e))
	}
}

// SourceCompression is the compression applied to a binary payload in the
// source mzML document, as declared by its cvParam accession.
type SourceCompression uint32

const (
	SourceCompressionZlib SourceCompression = 1000574 // "zlib compression"
	SourceCompressionNone SourceCompression = 1000576 // "no compression"
)

func (c SourceCompression) String() string {
	switch c {
	case SourceCompressionZlib:
		return "zlib"
	case SourceCompressionNone:
		return "none"
	default:
		return fmt.Sprintf("SourceCompression(%d)", uint32(c))
	}
}

// StreamLabel identifies one of the three independent streams the container
// carries. Values match the mzML CV accessions for the corresponding binary
// data array concepts; xml has no mzML analogue and is assigned a private
// accession in the same numeric family.
type StreamLabel uint32

const (
	StreamXML       StreamLabel = 1000513
	StreamMz        StreamLabel = 1000514
	StreamIntensity StreamLabel = 1000515
)

func (s StreamLabel) String() string {
	switch s {
	case StreamXML:
		return "xml"
	case StreamMz:
		return "mz"
	case StreamIntensity:
		return "intensity"
	default:
		return fmt.Sprintf("StreamLabel(%d)", uint32(s))
	}
}

// BlockCodec identifies the general-purpose compressor applied to the
// transformed bytes of one stream.
type BlockCodec uint32

const (
	BlockCodecLossless BlockCodec = 4700000 // pass-through, no compression
	BlockCodecZstd     BlockCodec = 4700001 // general-purpose; encoder's default level, not configurable
	// BlockCodecS2 and BlockCodecLZ4 extend the spec's two named codec
	// accessions (see SPEC_FULL.md "private accession extension") to give
	// the s2 and lz4 third-party codecs a home in the container format.
	BlockCodecS2  BlockCodec = 4700020
	BlockCodecLZ4 BlockCodec = 4700021
)

func (b BlockCodec) String() string {
	switch b {
	case BlockCodecLossless:
		return "lossless"
	case BlockCodecZstd:
		return "zstd"
	case BlockCodecS2:
		return "s2"
	case BlockCodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("BlockCodec(%d)", uint32(b))
	}
}

// TransformID identifies a numeric transform applied to a decoded binary
// array before block compression.
type TransformID uint32

const (
	TransformLossless  TransformID = 4699999 // identity; recorded in the trailer like every other transform id
	TransformCast32    TransformID = 4700002 // cast64→32: float64 -> float32
	TransformLog2      TransformID = 4700003 // log2 quantise: float32/float64 -> uint16
	TransformDelta16   TransformID = 4700004 // delta quantise: float64 -> uint16
	TransformDelta24   TransformID = 4700005 // delta quantise: float64 -> uint24 (packed in 3 bytes)
	TransformDelta32   TransformID = 4700006 // delta quantise: float64 -> uint32
	TransformVBR       TransformID = 4700007 // variable-byte real
	TransformBitpack   TransformID = 4700008 // bit-packed delta
	TransformVDelta16  TransformID = 4700009 // variable-width delta, 16-bit base
	TransformVDelta24  TransformID = 4700010 // variable-width delta, 24-bit base
	TransformCast16    TransformID = 4700011 // cast64→16: float64 -> uint16 (scaled)
)

func (t TransformID) String() string {
	switch t {
	case TransformLossless:
		return "lossless"
	case TransformCast32:
		return "cast64to32"
	case TransformLog2:
		return "log2"
	case TransformDelta16:
		return "delta16"
	case TransformDelta24:
		return "delta24"
	case TransformDelta32:
		return "delta32"
	case TransformVBR:
		return "vbr"
	case TransformBitpack:
		return "bitpack"
	case TransformVDelta16:
		return "vdelta16"
	case TransformVDelta24:
		return "vdelta24"
	case TransformCast16:
		return "cast64to16"
	default:
		return fmt.Sprintf("TransformID(%d)", uint32(t))
	}
}

// ErrUnsupportedAccession is the sentinel wrapped by format-level lookup
// failures; callers generally want errs.Unsupported, which wraps this.
var ErrUnsupportedAccession = fmt.Errorf("unsupported accession")

// Magic is the container's fixed 4-byte identifier (§6 header offset 0).
const Magic uint32 = 0x035F51B5

// FormatVersionMajor and FormatVersionMinor are the container revision
// written by this implementation. Non-goals (spec.md §1) exclude backward
// compatibility with prior revisions, so readers reject any other major.
const (
	FormatVersionMajor uint32 = 1
	FormatVersionMinor uint32 = 0
)

// HeaderSize is the fixed on-disk size of the container header (§6).
const HeaderSize = 512

// IndexedMzMLMarker is searched for within the first HeaderSize bytes of an
// input that does not begin with Magic, to classify it as source mzML
// (§6 "File-type probe").
const IndexedMzMLMarker = "indexedmzML"
