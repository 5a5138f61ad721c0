package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/format"
)

func sampleDescriptor() format.Descriptor {
	return format.Descriptor{
		SourceMzElement:        format.Element64Double,
		SourceIntensityElement: format.Element32Float,
		SourcePayloadCompress:  format.SourceCompressionZlib,
		SpectrumCount:          42,
		MzTransform:            format.TransformLossless,
		IntensityTransform:     format.TransformLossless,
		XMLCodec:               format.BlockCodecZstd,
		MzCodec:                format.BlockCodecZstd,
		IntensityCodec:         format.BlockCodecZstd,
		MzScale:                1000,
		IntensityScale:         1000,
		BlockSize:              1 << 20,
	}
}

func TestHeader_RoundTrip(t *testing.T) {
	h := FromDescriptor(sampleDescriptor())
	h.Identification = "test-run"
	h.Checksum = "deadbeef"

	parsed, err := ParseHeader(h.Bytes())
	require.NoError(t, err)

	require.Equal(t, h.Identification, parsed.Identification)
	require.Equal(t, h.Checksum, parsed.Checksum)
	require.Equal(t, h.Descriptor(), parsed.Descriptor())
}

func TestParseHeader_BadMagic(t *testing.T) {
	buf := FromDescriptor(sampleDescriptor()).Bytes()
	buf[0] ^= 0xFF

	_, err := ParseHeader(buf)
	require.Error(t, err)
}

func TestParseHeader_ShortBuffer(t *testing.T) {
	_, err := ParseHeader(make([]byte, 10))
	require.Error(t, err)
}

func TestParseHeader_UnsupportedVersion(t *testing.T) {
	h := FromDescriptor(sampleDescriptor())
	h.VersionMajor = format.FormatVersionMajor + 1

	_, err := ParseHeader(h.Bytes())
	require.Error(t, err)
}
