package xmlscan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/format"
)

// binaryDataArrayBlock renders one mzML <binaryDataArray> element carrying
// the type marker, element-type, and compression cvParams the detector
// looks for, in the order a real mzML writer emits them.
func binaryDataArrayBlock(typeAcc, elementAcc, compressionAcc int) string {
	return fmt.Sprintf(`<binaryDataArray>
<cvParam accession="MS:%07d"/>
<cvParam accession="MS:%07d"/>
<cvParam accession="MS:%07d"/>
<binary>AAAA</binary>
</binaryDataArray>`, typeAcc, elementAcc, compressionAcc)
}

func minimalDoc(spectrumCount int, mzElementAcc, intenElementAcc, compressionAcc int) string {
	return fmt.Sprintf(`<?xml version="1.0"?><indexedmzML><mzML><run><spectrumList count="%d">
<spectrum index="0" id="scan=1">
%s
%s
</spectrum>
</spectrumList></run></mzML></indexedmzML>`,
		spectrumCount,
		binaryDataArrayBlock(accMass, mzElementAcc, compressionAcc),
		binaryDataArrayBlock(accIntensity, intenElementAcc, compressionAcc),
	)
}

func TestDetect_Basic(t *testing.T) {
	doc := minimalDoc(2, int(format.Element64Double), int(format.Element32Float), accZlib)

	d, err := Detect([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, format.Element64Double, d.SourceMzElement)
	require.Equal(t, format.Element32Float, d.SourceIntensityElement)
	require.Equal(t, format.SourceCompressionZlib, d.SourcePayloadCompress)
	require.Equal(t, uint32(2), d.SpectrumCount)
}

func TestDetect_NoCompression(t *testing.T) {
	doc := minimalDoc(1, int(format.Element64Double), int(format.Element64Double), accNoComp)

	d, err := Detect([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, format.SourceCompressionNone, d.SourcePayloadCompress)
}

func TestDetect_MissingElementType(t *testing.T) {
	doc := `<?xml version="1.0"?><mzML><spectrumList count="1">
<spectrum index="0" id="scan=1">
<binaryDataArray><cvParam accession="MS:1000574"/></binaryDataArray>
</spectrum></spectrumList></mzML>`

	_, err := Detect([]byte(doc))
	require.Error(t, err)
}

func TestDetect_MissingCompression(t *testing.T) {
	doc := fmt.Sprintf(`<?xml version="1.0"?><mzML><spectrumList count="1">
<spectrum index="0" id="scan=1">
<binaryDataArray>
<cvParam accession="MS:%07d"/>
<cvParam accession="MS:%07d"/>
</binaryDataArray>
<binaryDataArray>
<cvParam accession="MS:%07d"/>
<cvParam accession="MS:%07d"/>
</binaryDataArray>
</spectrum></spectrumList></mzML>`, accMass, int(format.Element64Double), accIntensity, int(format.Element32Float))

	_, err := Detect([]byte(doc))
	require.Error(t, err)
}

func TestDetect_MalformedXML(t *testing.T) {
	_, err := Detect([]byte("not xml at all <<<"))
	require.Error(t, err)
}

func TestParseAccession(t *testing.T) {
	n, ok := parseAccession("MS:1000523")
	require.True(t, ok)
	require.Equal(t, 1000523, n)

	_, ok = parseAccession("x")
	require.False(t, ok)

	_, ok = parseAccession("MS:notanumber")
	require.False(t, ok)
}
