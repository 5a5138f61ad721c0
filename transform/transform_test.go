package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/format"
)

func sampleValues() []float64 {
	return []float64{412.345, 412.350, 412.412, 500.0, 499.999, 1000.1234, 0.5, 50000.0}
}

func encodeDecodeRoundTrip(t *testing.T, id format.TransformID, elem format.ElementType, param float32, vals []float64) []float64 {
	t.Helper()

	tr, err := Select(id, elem)
	require.NoError(t, err)

	raw, err := writeFloats(vals, elem)
	require.NoError(t, err)

	p := Params{SourceElement: elem, Param: param}

	encoded, err := tr.Encode(raw, p)
	require.NoError(t, err)

	decodedRaw, err := tr.Decode(encoded, p)
	require.NoError(t, err)

	decoded, err := readFloats(decodedRaw, elem)
	require.NoError(t, err)
	require.Len(t, decoded, len(vals))

	return decoded
}

func TestLosslessRoundTrip(t *testing.T) {
	vals := sampleValues()
	decoded := encodeDecodeRoundTrip(t, format.TransformLossless, format.Element64Double, 0, vals)
	require.Equal(t, vals, decoded)
}

func TestLosslessRoundTrip32(t *testing.T) {
	vals := []float64{1.5, 2.25, -3.5}
	decoded := encodeDecodeRoundTrip(t, format.TransformLossless, format.Element32Float, 0, vals)
	require.Equal(t, vals, decoded)
}

func TestCast32RoundTripWithinTolerance(t *testing.T) {
	vals := sampleValues()
	decoded := encodeDecodeRoundTrip(t, format.TransformCast32, format.Element64Double, 0, vals)
	for i, v := range vals {
		require.InEpsilon(t, v, decoded[i], 1e-6)
	}
}

func TestCast16RoundTripWithinTolerance(t *testing.T) {
	// cast16 codes are uint16, so at scale 100 inputs stay within [0, 655.35].
	vals := []float64{412.345, 412.350, 412.412, 500.0, 499.999, 0.5, 655.0}
	decoded := encodeDecodeRoundTrip(t, format.TransformCast16, format.Element64Double, 100, vals)
	for i, v := range vals {
		require.InDelta(t, v, decoded[i], 0.01)
	}
}

func TestLog2RoundTripWithinMultiplicativeTolerance(t *testing.T) {
	vals := sampleValues()
	decoded := encodeDecodeRoundTrip(t, format.TransformLog2, format.Element64Double, 0, vals)
	bound := math.Exp2(1.0 / 100)
	for i, v := range vals {
		ratio := decoded[i] / v
		require.GreaterOrEqual(t, ratio, 1/bound)
		require.LessOrEqual(t, ratio, bound)
	}
}

func TestDeltaRoundTripAllWidths(t *testing.T) {
	vals := sampleValues()
	for _, id := range []format.TransformID{format.TransformDelta16, format.TransformDelta24, format.TransformDelta32} {
		decoded := encodeDecodeRoundTrip(t, id, format.Element64Double, 1000, vals)
		for i, v := range vals {
			require.InDelta(t, v, decoded[i], 0.01)
		}
	}
}

func TestVDeltaRoundTrip(t *testing.T) {
	for _, id := range []format.TransformID{format.TransformVDelta16, format.TransformVDelta24} {
		vals := sampleValues()
		decoded := encodeDecodeRoundTrip(t, id, format.Element64Double, 0, vals)
		for i, v := range vals {
			require.InDelta(t, v, decoded[i], 0.01)
		}
	}
}

func TestVBRRoundTrip(t *testing.T) {
	vals := append(sampleValues(), 1e9, -1e9) // force the escape path on large jumps
	decoded := encodeDecodeRoundTrip(t, format.TransformVBR, format.Element64Double, 1000, vals)
	for i, v := range vals {
		require.InDelta(t, v, decoded[i], 0.01)
	}
}

func TestBitpackRoundTrip(t *testing.T) {
	vals := sampleValues()
	decoded := encodeDecodeRoundTrip(t, format.TransformBitpack, format.Element64Double, 1000, vals)
	for i, v := range vals {
		require.InDelta(t, v, decoded[i], 0.01)
	}
}

func TestBitpackAllZeroDeltas(t *testing.T) {
	vals := []float64{1.0, 1.0, 1.0, 1.0}
	decoded := encodeDecodeRoundTrip(t, format.TransformBitpack, format.Element64Double, 1000, vals)
	require.Equal(t, vals, decoded)
}

func TestSelectRejectsMismatchedElementType(t *testing.T) {
	_, err := Select(format.TransformCast32, format.Element32Float)
	require.Error(t, err)

	_, err = Select(format.TransformDelta16, format.Element32Float)
	require.Error(t, err)
}

func TestSelectRejectsUnknownTransform(t *testing.T) {
	_, err := Select(format.TransformID(999999), format.Element64Double)
	require.Error(t, err)
}

func TestLosslessToleranceIsLossless(t *testing.T) {
	tr, err := Select(format.TransformLossless, format.Element64Double)
	require.NoError(t, err)
	require.True(t, tr.Tolerance().Lossless)
}

func TestEmptySequenceRoundTrips(t *testing.T) {
	for _, id := range []format.TransformID{
		format.TransformLossless, format.TransformCast32, format.TransformLog2,
		format.TransformDelta16, format.TransformVDelta16, format.TransformVBR, format.TransformBitpack,
	} {
		decoded := encodeDecodeRoundTrip(t, id, format.Element64Double, 1000, nil)
		require.Empty(t, decoded)
	}
}
