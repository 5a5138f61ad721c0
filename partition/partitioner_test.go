package partition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildEncDivision constructs a synthetic whole-document division with n
// spectra, laid out the way the Position Scanner emits one: 2n+1 xml spans
// (head, then a mid/tail pair per spectrum, the last tail being the document
// footer), one m/z and one intensity span per spectrum, and one spectra span
// per spectrum.
func buildEncDivision(n int, mzLen, intenLen int64) Division {
	var d Division
	var cursor int64

	appendSpan := func(t *PositionTable, length int64) {
		t.Append(cursor, cursor+length)
		cursor += length
	}

	appendSpan(&d.XML, 5) // document head, before first spectrum
	for i := 0; i < n; i++ {
		specStart := cursor
		appendSpan(&d.Mz, mzLen)
		appendSpan(&d.XML, 3) // mid span between m/z and intensity
		appendSpan(&d.Intensity, intenLen)
		d.Spectra.Append(specStart, cursor)
		appendSpan(&d.XML, 3) // tail span after this spectrum (or doc footer for the last)
		d.Meta.Append(int32(i), 1, float64(i))
	}
	d.recomputeSize()

	return d
}

func TestPartition_BySpectrumCount_EvenSplit(t *testing.T) {
	enc := buildEncDivision(10, 100, 100)

	set, err := Partition(enc, 2, BySpectrumCount)
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	require.Len(t, set.Divisions, 3) // 2 worker divisions + trailing
	require.Equal(t, 5, set.Divisions[0].SpectrumCount())
	require.Equal(t, 5, set.Divisions[1].SpectrumCount())
	require.Equal(t, 0, set.Divisions[2].SpectrumCount())
	require.Equal(t, 10, set.TotalSpectrumCount())
}

func TestPartition_BySpectrumCount_UnevenSplit(t *testing.T) {
	enc := buildEncDivision(10, 50, 50)

	set, err := Partition(enc, 3, BySpectrumCount)
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	require.Equal(t, 3, set.Divisions[0].SpectrumCount())
	require.Equal(t, 3, set.Divisions[1].SpectrumCount())
	require.Equal(t, 4, set.Divisions[2].SpectrumCount())
}

func TestPartition_ByBinaryVolume(t *testing.T) {
	enc := buildEncDivision(8, 200, 200)

	set, err := Partition(enc, 4, ByBinaryVolume)
	require.NoError(t, err)
	require.NoError(t, set.Validate())
	require.Equal(t, 8, set.TotalSpectrumCount())
}

func TestPartition_WorkersExceedSpectrumCount(t *testing.T) {
	enc := buildEncDivision(2, 10, 10)

	set, err := Partition(enc, 8, BySpectrumCount)
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	// One division per spectrum, plus the trailing division.
	require.Len(t, set.Divisions, 3)
}

func TestPartition_NoSpectra(t *testing.T) {
	var d Division
	d.XML.Append(0, 20)
	d.recomputeSize()

	set, err := Partition(d, 4, BySpectrumCount)
	require.NoError(t, err)
	require.Len(t, set.Divisions, 1)
	require.Equal(t, 0, set.TotalSpectrumCount())
}

func TestPartition_InvalidWorkers(t *testing.T) {
	enc := buildEncDivision(1, 10, 10)

	_, err := Partition(enc, 0, BySpectrumCount)
	require.Error(t, err)
}
