// Package container implements the on-disk container format (spec.md §6):
// the fixed-size header and trailer, the block-length tables, and the
// partition-table codec, plus the Writer (§4.6), Decoder (§4.7), and
// Extractor (§4.8) built on top of them.
package container

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
)

const (
	offMagic          = 0
	offVersionMajor   = 4
	offVersionMinor   = 8
	offIdent          = 12
	identSize         = 128
	offSourceMz       = 140
	offSourceInten    = 144
	offSourceCompress = 148
	offSourceSpecCnt  = 152
	offXMLCodec       = 156
	offMzCodec        = 160
	offIntenCodec     = 164
	offMzScale        = 168
	offIntenScale     = 172
	offBlockSize      = 176
	offChecksum       = 184
	checksumSize      = 32
	offReserved       = 216
	reservedSize      = 296
)

// Header is the container's 512-byte preamble (spec.md §6 "Header"): the
// data-format descriptor plus the fields needed to validate and locate the
// rest of the file.
type Header struct {
	VersionMajor uint32
	VersionMinor uint32
	// Identification is an arbitrary caller-supplied label, zero-padded to
	// identSize on disk and trimmed of trailing zero bytes on read.
	Identification string

	SourceMzElement        format.ElementType
	SourceIntensityElement format.ElementType
	SourcePayloadCompress  format.SourceCompression
	SourceSpectrumCount    uint32

	XMLCodec       format.BlockCodec
	MzCodec        format.BlockCodec
	IntensityCodec format.BlockCodec

	MzScale        float32
	IntensityScale float32

	BlockSize uint64

	// Checksum is the xxhash64 digest of the three compressed streams,
	// formatted as a hex string and zero-padded to checksumSize.
	Checksum string
}

// FromDescriptor builds a Header from a data-format descriptor, filling in
// the current format version and leaving Identification/Checksum for the
// caller to set.
func FromDescriptor(d format.Descriptor) Header {
	return Header{
		VersionMajor:           format.FormatVersionMajor,
		VersionMinor:           format.FormatVersionMinor,
		SourceMzElement:        d.SourceMzElement,
		SourceIntensityElement: d.SourceIntensityElement,
		SourcePayloadCompress:  d.SourcePayloadCompress,
		SourceSpectrumCount:    d.SpectrumCount,
		XMLCodec:               d.XMLCodec,
		MzCodec:                d.MzCodec,
		IntensityCodec:         d.IntensityCodec,
		MzScale:                d.MzScale,
		IntensityScale:         d.IntensityScale,
		BlockSize:              d.BlockSize,
	}
}

// Descriptor reconstructs the data-format descriptor this header carries,
// leaving the target transform ids to be filled in from the trailer (§6
// assigns them to the trailer, not the header).
func (h Header) Descriptor() format.Descriptor {
	return format.Descriptor{
		SourceMzElement:        h.SourceMzElement,
		SourceIntensityElement: h.SourceIntensityElement,
		SourcePayloadCompress:  h.SourcePayloadCompress,
		SpectrumCount:          h.SourceSpectrumCount,
		XMLCodec:               h.XMLCodec,
		MzCodec:                h.MzCodec,
		IntensityCodec:         h.IntensityCodec,
		MzScale:                h.MzScale,
		IntensityScale:         h.IntensityScale,
		BlockSize:              h.BlockSize,
	}
}

// Bytes serialises the header to the fixed format.HeaderSize-byte layout.
func (h Header) Bytes() []byte {
	buf := make([]byte, format.HeaderSize)

	binary.LittleEndian.PutUint32(buf[offMagic:], format.Magic)
	binary.LittleEndian.PutUint32(buf[offVersionMajor:], h.VersionMajor)
	binary.LittleEndian.PutUint32(buf[offVersionMinor:], h.VersionMinor)
	copy(buf[offIdent:offIdent+identSize], h.Identification)

	binary.LittleEndian.PutUint32(buf[offSourceMz:], uint32(h.SourceMzElement))
	binary.LittleEndian.PutUint32(buf[offSourceInten:], uint32(h.SourceIntensityElement))
	binary.LittleEndian.PutUint32(buf[offSourceCompress:], uint32(h.SourcePayloadCompress))
	binary.LittleEndian.PutUint32(buf[offSourceSpecCnt:], h.SourceSpectrumCount)

	binary.LittleEndian.PutUint32(buf[offXMLCodec:], uint32(h.XMLCodec))
	binary.LittleEndian.PutUint32(buf[offMzCodec:], uint32(h.MzCodec))
	binary.LittleEndian.PutUint32(buf[offIntenCodec:], uint32(h.IntensityCodec))

	binary.LittleEndian.PutUint32(buf[offMzScale:], math.Float32bits(h.MzScale))
	binary.LittleEndian.PutUint32(buf[offIntenScale:], math.Float32bits(h.IntensityScale))

	binary.LittleEndian.PutUint64(buf[offBlockSize:], h.BlockSize)
	copy(buf[offChecksum:offChecksum+checksumSize], h.Checksum)
	// buf[offReserved:offReserved+reservedSize] is already zero.

	return buf
}

// ParseHeader validates and decodes a format.HeaderSize-byte buffer.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < format.HeaderSize {
		return Header{}, errs.CorruptF("container.ParseHeader", "short header: got %d bytes, want %d", len(buf), format.HeaderSize)
	}
	if magic := binary.LittleEndian.Uint32(buf[offMagic:]); magic != format.Magic {
		return Header{}, errs.CorruptF("container.ParseHeader", "bad magic 0x%X, want 0x%X", magic, format.Magic)
	}

	h := Header{
		VersionMajor:           binary.LittleEndian.Uint32(buf[offVersionMajor:]),
		VersionMinor:           binary.LittleEndian.Uint32(buf[offVersionMinor:]),
		Identification:         trimZero(buf[offIdent : offIdent+identSize]),
		SourceMzElement:        format.ElementType(binary.LittleEndian.Uint32(buf[offSourceMz:])),
		SourceIntensityElement: format.ElementType(binary.LittleEndian.Uint32(buf[offSourceInten:])),
		SourcePayloadCompress:  format.SourceCompression(binary.LittleEndian.Uint32(buf[offSourceCompress:])),
		SourceSpectrumCount:    binary.LittleEndian.Uint32(buf[offSourceSpecCnt:]),
		XMLCodec:               format.BlockCodec(binary.LittleEndian.Uint32(buf[offXMLCodec:])),
		MzCodec:                format.BlockCodec(binary.LittleEndian.Uint32(buf[offMzCodec:])),
		IntensityCodec:         format.BlockCodec(binary.LittleEndian.Uint32(buf[offIntenCodec:])),
		MzScale:                math.Float32frombits(binary.LittleEndian.Uint32(buf[offMzScale:])),
		IntensityScale:         math.Float32frombits(binary.LittleEndian.Uint32(buf[offIntenScale:])),
		BlockSize:              binary.LittleEndian.Uint64(buf[offBlockSize:]),
		Checksum:               trimZero(buf[offChecksum : offChecksum+checksumSize]),
	}

	if h.VersionMajor != format.FormatVersionMajor {
		return Header{}, errs.UnsupportedF("container.ParseHeader", "container version %d.%d, this build only reads major version %d", h.VersionMajor, h.VersionMinor, format.FormatVersionMajor)
	}
	if err := h.Descriptor().Validate(); err != nil {
		return Header{}, errs.UnsupportedF("container.ParseHeader", "unrecognized descriptor field: %v", err)
	}

	return h, nil
}

func trimZero(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return string(b)
	}

	return string(b[:i])
}
