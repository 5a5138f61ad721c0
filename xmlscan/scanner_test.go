package xmlscan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/format"
)

// spectrumBlock renders one <spectrum> element with the scan number, ms
// level, retention time, and m/z/intensity binary payloads the Position
// Scanner's marker search expects.
func spectrumBlock(scanNum, msLevel int, rt float64, mz, inten string) string {
	return fmt.Sprintf(`<spectrum index="0" id="scan=%d" defaultArrayLength="2">
<cvParam accession="MS:1000511" name="ms level" value="%d"/>
<cvParam name="scan start time" accession="MS:1000016" value="%g"/>
<binaryDataArrayList count="2">
<binaryDataArray><binary>%s</binary></binaryDataArray>
<binaryDataArray><binary>%s</binary></binaryDataArray>
</binaryDataArrayList>
</spectrum>`, scanNum, msLevel, rt, mz, inten)
}

func scannerDoc(specs []string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><indexedmzML><mzML><run><spectrumList count="`)
	fmt.Fprintf(&sb, "%d", len(specs))
	sb.WriteString(`">`)
	for _, s := range specs {
		sb.WriteString(s)
	}
	sb.WriteString(`</spectrumList></run></mzML></indexedmzML>`)

	return sb.String()
}

func TestScan_Basic(t *testing.T) {
	specs := []string{
		spectrumBlock(1, 1, 10.5, "bW9ja21h", "bW9ja2lu"),
		spectrumBlock(2, 2, 11.5, "c2Vjb25k", "c2Vjb25p"),
	}
	doc := []byte(scannerDoc(specs))

	d := format.Descriptor{SpectrumCount: 2}
	div, err := Scan(doc, d)
	require.NoError(t, err)
	require.NoError(t, div.Validate())

	require.Equal(t, 2, div.Mz.Len())
	require.Equal(t, 2, div.Intensity.Len())
	require.Equal(t, 5, div.XML.Len()) // 2n+1

	require.Equal(t, "bW9ja21h", string(doc[div.Mz.Start[0]:div.Mz.End[0]]))
	require.Equal(t, "bW9ja2lu", string(doc[div.Intensity.Start[0]:div.Intensity.End[0]]))
	require.Equal(t, "c2Vjb25k", string(doc[div.Mz.Start[1]:div.Mz.End[1]]))
	require.Equal(t, "c2Vjb25p", string(doc[div.Intensity.Start[1]:div.Intensity.End[1]]))

	require.Equal(t, []int32{1, 2}, div.Meta.ScanNumber)
	require.Equal(t, []int8{1, 2}, div.Meta.MSLevel)
	require.InDelta(t, 10.5, div.Meta.RetentionTime[0], 1e-9)
	require.InDelta(t, 11.5, div.Meta.RetentionTime[1], 1e-9)

	require.Equal(t, int64(0), div.XML.Start[0])
	require.Equal(t, int64(len(doc)), div.XML.End[div.XML.Len()-1])
}

func TestScan_MissingRetentionTime(t *testing.T) {
	spec := `<spectrum index="0" id="scan=7" defaultArrayLength="1">
<cvParam accession="MS:1000511" name="ms level" value="1"/>
<binaryDataArrayList count="2">
<binaryDataArray><binary>bW9ja21h</binary></binaryDataArray>
<binaryDataArray><binary>bW9ja2lu</binary></binaryDataArray>
</binaryDataArrayList>
</spectrum>`
	doc := []byte(scannerDoc([]string{spec}))

	div, err := Scan(doc, format.Descriptor{SpectrumCount: 1})
	require.NoError(t, err)
	require.Equal(t, float64(0), div.Meta.RetentionTime[0])
	require.Equal(t, int32(7), div.Meta.ScanNumber[0])
}

func TestScan_MissingSpectrum(t *testing.T) {
	doc := []byte(scannerDoc(nil))

	_, err := Scan(doc, format.Descriptor{SpectrumCount: 1})
	require.Error(t, err)
}

func TestScan_MissingBinary(t *testing.T) {
	spec := `<spectrum index="0" id="scan=1" defaultArrayLength="1">
<cvParam accession="MS:1000511" name="ms level" value="1"/>
</spectrum>`
	doc := []byte(scannerDoc([]string{spec}))

	_, err := Scan(doc, format.Descriptor{SpectrumCount: 1})
	require.Error(t, err)
}

func TestIndexFrom(t *testing.T) {
	doc := []byte("hello world")
	require.Equal(t, 6, indexFrom(doc, 0, "world"))
	require.Equal(t, -1, indexFrom(doc, 0, "nope"))
	require.Equal(t, -1, indexFrom(doc, 100, "world"))
}
