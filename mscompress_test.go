package mscompress

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrisagrams/mscompress/container"
)

// fixtureSpectrum holds the values one synthetic spectrum is built from, so
// the test can assert the round-tripped document reproduces them exactly.
type fixtureSpectrum struct {
	scanNum  int
	msLevel  int
	rt       float64
	mz       []float64
	inten    []float64
}

func encodeFloat64Payload(vals []float64) string {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}

	return base64.StdEncoding.EncodeToString(buf)
}

func buildFixtureMzML(specs []fixtureSpectrum) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><indexedmzML><mzML><run><spectrumList count="`)
	fmt.Fprintf(&sb, "%d", len(specs))
	sb.WriteString(`">`)

	for _, s := range specs {
		fmt.Fprintf(&sb, `<spectrum index="0" id="scan=%d" defaultArrayLength="%d">
<cvParam accession="MS:1000511" name="ms level" value="%d"/>
<cvParam name="scan start time" accession="MS:1000016" value="%g"/>
<binaryDataArrayList count="2">
<binaryDataArray>
<cvParam accession="MS:1000514"/>
<cvParam accession="MS:1000523"/>
<cvParam accession="MS:1000576"/>
<binary>%s</binary>
</binaryDataArray>
<binaryDataArray>
<cvParam accession="MS:1000515"/>
<cvParam accession="MS:1000523"/>
<cvParam accession="MS:1000576"/>
<binary>%s</binary>
</binaryDataArray>
</binaryDataArrayList>
</spectrum>`, s.scanNum, len(s.mz), s.msLevel, s.rt, encodeFloat64Payload(s.mz), encodeFloat64Payload(s.inten))
	}

	sb.WriteString(`</spectrumList></run></mzML></indexedmzML>`)

	return sb.String()
}

func sampleSpectra() []fixtureSpectrum {
	return []fixtureSpectrum{
		{scanNum: 1, msLevel: 1, rt: 10.1, mz: []float64{100.5, 200.25, 300.125}, inten: []float64{10, 20, 30}},
		{scanNum: 2, msLevel: 2, rt: 10.2, mz: []float64{150.5, 250.25}, inten: []float64{15, 25}},
		{scanNum: 3, msLevel: 1, rt: 10.3, mz: []float64{400, 500, 600, 700}, inten: []float64{40, 50, 60, 70}},
	}
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "run.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	outPath := filepath.Join(dir, "run.msz")
	require.NoError(t, Compress(inPath, outPath, WithWorkers(2)))

	kind, err := Probe(outPath)
	require.NoError(t, err)
	require.Equal(t, container.KindContainer, kind)

	decodedPath := filepath.Join(dir, "round-trip.mzML")
	require.NoError(t, Decompress(outPath, decodedPath))

	got, err := os.ReadFile(decodedPath)
	require.NoError(t, err)
	require.Equal(t, doc, string(got))
}

func TestCompress_DefaultOutputNaming(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "sample.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	require.NoError(t, Compress(inPath, ""))
	_, err := os.Stat(filepath.Join(dir, "sample.msz"))
	require.NoError(t, err)

	require.NoError(t, Decompress(filepath.Join(dir, "sample.msz"), ""))
	_, err = os.Stat(filepath.Join(dir, "sample.mzML"))
	require.NoError(t, err)
}

func TestProbe_SourceMzML(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "raw.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	kind, err := Probe(inPath)
	require.NoError(t, err)
	require.Equal(t, container.KindSourceMzML, kind)
}

func TestExtractByScan(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "run.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	outPath := filepath.Join(dir, "run.msz")
	require.NoError(t, Compress(inPath, outPath, WithWorkers(2)))

	extractedPath := filepath.Join(dir, "extracted.mzML")
	require.NoError(t, ExtractByScan(outPath, extractedPath, []int32{2}))

	got, err := os.ReadFile(extractedPath)
	require.NoError(t, err)
	require.Contains(t, string(got), `id="scan=2"`)
	require.NotContains(t, string(got), `id="scan=1"`)
	require.NotContains(t, string(got), `id="scan=3"`)
}

func TestExtractByMSLevel(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "run.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	outPath := filepath.Join(dir, "run.msz")
	require.NoError(t, Compress(inPath, outPath, WithWorkers(3)))

	extractedPath := filepath.Join(dir, "extracted.mzML")
	require.NoError(t, ExtractByMSLevel(outPath, extractedPath, 1))

	got, err := os.ReadFile(extractedPath)
	require.NoError(t, err)
	require.Contains(t, string(got), `id="scan=1"`)
	require.Contains(t, string(got), `id="scan=3"`)
	require.NotContains(t, string(got), `id="scan=2"`)
}

func TestExtract_ByIndex(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "run.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	outPath := filepath.Join(dir, "run.msz")
	require.NoError(t, Compress(inPath, outPath, WithWorkers(1)))

	extractedPath := filepath.Join(dir, "extracted.mzML")
	require.NoError(t, Extract(outPath, extractedPath, []int{0, 2}))

	got, err := os.ReadFile(extractedPath)
	require.NoError(t, err)
	require.Contains(t, string(got), `id="scan=1"`)
	require.Contains(t, string(got), `id="scan=3"`)
	require.NotContains(t, string(got), `id="scan=2"`)
}

func TestCompress_RejectsUnknownXMLCodec(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "run.mzML")
	doc := buildFixtureMzML(sampleSpectra())
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	outPath := filepath.Join(dir, "run.msz")
	err := Compress(inPath, outPath,
		WithWorkers(2),
		WithXMLCodec(0xDEADBEEF),
	)
	require.Error(t, err)
}
