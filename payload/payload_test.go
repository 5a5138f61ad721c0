package payload

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/format"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		raw         []byte
		compression format.SourceCompression
	}{
		{"none_empty", []byte{}, format.SourceCompressionNone},
		{"none_short", []byte{0x01, 0x02, 0x03, 0x04}, format.SourceCompressionNone},
		{"zlib_short", []byte{0x01, 0x02, 0x03, 0x04}, format.SourceCompressionZlib},
		{"zlib_repeated", repeatBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 256), format.SourceCompressionZlib},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := Encode(tt.raw, tt.compression)
			require.NoError(t, err)

			back, err := Decode(wire, tt.compression)
			require.NoError(t, err)
			require.Equal(t, tt.raw, back)
		})
	}
}

func TestDecode_InvalidBase64(t *testing.T) {
	_, err := Decode([]byte("not base64!!"), format.SourceCompressionNone)
	require.Error(t, err)
}

func TestDecode_InvalidZlib(t *testing.T) {
	wire, err := Encode([]byte{0x01, 0x02, 0x03}, format.SourceCompressionNone)
	require.NoError(t, err)

	_, err = Decode(wire, format.SourceCompressionZlib)
	require.Error(t, err)
}

func TestDecode_UnsupportedCompression(t *testing.T) {
	_, err := Decode([]byte("AAAA"), format.SourceCompression(0xFF))
	require.Error(t, err)
}

func TestEncode_UnsupportedCompression(t *testing.T) {
	_, err := Encode([]byte{0x01}, format.SourceCompression(0xFF))
	require.Error(t, err)
}

func repeatBytes(pattern []byte, n int) []byte {
	out := make([]byte, 0, len(pattern)*n)
	for i := 0; i < n; i++ {
		out = append(out, pattern...)
	}

	return out
}
