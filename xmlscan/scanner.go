package xmlscan

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
	"github.com/chrisagrams/mscompress/partition"
)

const (
	markerScan            = "scan="
	markerMSLevel         = `"ms level"`
	markerScanStartTime   = `"scan start time"`
	markerBinaryOpen      = "<binary>"
	markerBinaryEnd       = "</binary>"
	markerSpectrumOpen    = "<spectrum "
	markerSpectrumEnd     = "</spectrum>"
)

// Scan runs the Position Scanner (spec.md §4.2): after pattern detection,
// the document's structure is assumed regular, so the scanner walks
// linearly using substring search rather than a full XML parser, producing
// a single encapsulating Division with 2N+1 xml spans, N m/z spans, and N
// intensity spans, where N is the declared spectrum count.
func Scan(doc []byte, d format.Descriptor) (partition.Division, error) {
	n := int(d.SpectrumCount)

	var div partition.Division
	div.XML.Start = make([]int64, 0, 2*n+1)
	div.XML.End = make([]int64, 0, 2*n+1)
	div.Mz.Start = make([]int64, 0, n)
	div.Mz.End = make([]int64, 0, n)
	div.Intensity.Start = make([]int64, 0, n)
	div.Intensity.End = make([]int64, 0, n)
	div.Spectra.Start = make([]int64, 0, n)
	div.Spectra.End = make([]int64, 0, n)

	pos := 0
	xmlHeadStart := int64(0)

	for i := 0; i < n; i++ {
		spectrumStart, err := findSpectrumStart(doc, pos, i)
		if err != nil {
			return partition.Division{}, err
		}

		scanNum, msLevel, rt, newPos, err := scanSpectrumAttrs(doc, pos, i)
		if err != nil {
			return partition.Division{}, err
		}
		pos = newPos

		mzStart, mzEnd, newPos, err := scanBinarySpan(doc, pos, i, "m/z")
		if err != nil {
			return partition.Division{}, err
		}
		pos = newPos

		div.XML.Append(xmlHeadStart, mzStart)
		div.Mz.Append(mzStart, mzEnd)

		intenStart, intenEnd, newPos, err := scanBinarySpan(doc, pos, i, "intensity")
		if err != nil {
			return partition.Division{}, err
		}
		pos = newPos

		div.XML.Append(mzEnd, intenStart)
		div.Intensity.Append(intenStart, intenEnd)

		spectrumEnd, err := findSpectrumEnd(doc, intenEnd, i)
		if err != nil {
			return partition.Division{}, err
		}
		div.Spectra.Append(spectrumStart, spectrumEnd)

		xmlHeadStart = intenEnd
		div.Meta.Append(int32(scanNum), int8(msLevel), rt)
	}

	// Final xml tail span, end-of-file.
	div.XML.Append(xmlHeadStart, int64(len(doc)))

	if div.Mz.Len() != n || div.Intensity.Len() != n {
		return partition.Division{}, errs.MalformedF("scanner.Scan", "found %d/%d m/z spans and %d/%d intensity spans, expected %d", div.Mz.Len(), n, div.Intensity.Len(), n, n)
	}

	div.XML.Start[0] = 0
	div.Size = div.XML.Total() + div.Mz.Total() + div.Intensity.Total()

	if err := div.Validate(); err != nil {
		return partition.Division{}, errs.MalformedWrap("scanner.Scan", err, "structure violation")
	}

	return div, nil
}

// findSpectrumStart locates the opening `<spectrum ` tag of spectrum index
// i, searching forward from pos (the end of the previous spectrum's
// content, or document start for i == 0). This is the true element
// boundary used by the Extractor (spec.md §4.8) to trim a requested range
// that does not begin at a division boundary; it is distinct from, and lies
// after, the xml-head span's own start, which runs from the previous
// spectrum's intensity end and so also carries that spectrum's closing
// tags.
func findSpectrumStart(doc []byte, pos, i int) (int64, error) {
	idx := indexFrom(doc, pos, markerSpectrumOpen)
	if idx < 0 {
		return 0, errs.MalformedF("scanner.findSpectrumStart", "spectrum %d: could not find %q marker", i, markerSpectrumOpen)
	}

	return int64(idx), nil
}

// findSpectrumEnd locates the closing `</spectrum>` tag of spectrum index i,
// searching forward from pos (the end of its intensity binary span).
func findSpectrumEnd(doc []byte, pos int64, i int) (int64, error) {
	idx := indexFrom(doc, int(pos), markerSpectrumEnd)
	if idx < 0 {
		return 0, errs.MalformedF("scanner.findSpectrumEnd", "spectrum %d: could not find %q marker", i, markerSpectrumEnd)
	}

	return int64(idx) + int64(len(markerSpectrumEnd)), nil
}

// scanSpectrumAttrs locates the scan= and "ms level" attributes of spectrum
// index i, starting the search at pos. It returns the parsed values and the
// byte offset immediately after the ms level value, ready for binary span
// scanning.
func scanSpectrumAttrs(doc []byte, pos, i int) (scanNum, msLevel int, retentionTime float64, next int, err error) {
	idx := indexFrom(doc, pos, markerScan)
	if idx < 0 {
		return 0, 0, 0, 0, errs.MalformedF("scanner.scanSpectrumAttrs", "spectrum %d: could not find %q marker", i, markerScan)
	}
	p := idx + len(markerScan)

	scanNum, p, err = parseQuotedInt(doc, p)
	if err != nil {
		return 0, 0, 0, 0, errs.MalformedWrap("scanner.scanSpectrumAttrs", err, "spectrum %d: invalid scan number", i)
	}

	idx = indexFrom(doc, p, markerMSLevel)
	if idx < 0 {
		return 0, 0, 0, 0, errs.MalformedF("scanner.scanSpectrumAttrs", "spectrum %d: could not find %s marker", i, markerMSLevel)
	}
	p = idx + len(markerMSLevel)
	// skip past `="` up to the opening quote of the value attribute.
	eq := indexFrom(doc, p, "=\"")
	if eq < 0 {
		return 0, 0, 0, 0, errs.MalformedF("scanner.scanSpectrumAttrs", "spectrum %d: malformed ms level cvParam", i)
	}
	p = eq + len("=\"")

	msLevel, p, err = parseQuotedInt(doc, p)
	if err != nil {
		return 0, 0, 0, 0, errs.MalformedWrap("scanner.scanSpectrumAttrs", err, "spectrum %d: invalid ms level", i)
	}

	// Retention time is optional in structure-assuming scan mode: the
	// "scan start time" cvParam is searched for only within the remainder
	// of this spectrum's head (bounded by the next <binary> open), so a
	// spectrum missing it does not cost a document-wide scan.
	retentionTime = scanRetentionTime(doc, p)

	return scanNum, msLevel, retentionTime, p, nil
}

// scanRetentionTime looks for a "scan start time" cvParam's value attribute
// between pos and the next <binary> tag, returning 0 if absent.
func scanRetentionTime(doc []byte, pos int) float64 {
	limit := indexFrom(doc, pos, markerBinaryOpen)
	if limit < 0 {
		limit = len(doc)
	}
	idx := indexFrom(doc, pos, markerScanStartTime)
	if idx < 0 || idx > limit {
		return 0
	}
	valIdx := indexFrom(doc, idx+len(markerScanStartTime), `value="`)
	if valIdx < 0 || valIdx > limit {
		return 0
	}
	p := valIdx + len(`value="`)
	end := indexFrom(doc, p, "\"")
	if end < 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(doc[p:end])), 64)
	if err != nil {
		return 0
	}

	return v
}

// scanBinarySpan locates the next <binary>...</binary> pair starting at
// pos, returning the inner span (the payload, excluding the tags) and the
// offset immediately after the closing tag.
func scanBinarySpan(doc []byte, pos, i int, which string) (start, end int64, next int, err error) {
	idx := indexFrom(doc, pos, markerBinaryOpen)
	if idx < 0 {
		return 0, 0, 0, errs.MalformedF("scanner.scanBinarySpan", "spectrum %d: could not find start of %s binary", i, which)
	}
	s := idx + len(markerBinaryOpen)

	idx = indexFrom(doc, s, markerBinaryEnd)
	if idx < 0 {
		return 0, 0, 0, errs.MalformedF("scanner.scanBinarySpan", "spectrum %d: could not find end of %s binary", i, which)
	}

	return int64(s), int64(idx), idx + len(markerBinaryEnd), nil
}

// parseQuotedInt parses a base-10 integer starting at pos, up to (but not
// including) the next `"`, returning the value and the offset of that
// closing quote.
func parseQuotedInt(doc []byte, pos int) (int, int, error) {
	end := indexFrom(doc, pos, "\"")
	if end < 0 {
		return 0, 0, errFormat("missing closing quote")
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(doc[pos:end])))
	if err != nil {
		return 0, 0, err
	}

	return v, end, nil
}

func indexFrom(doc []byte, pos int, marker string) int {
	if pos < 0 || pos > len(doc) {
		return -1
	}
	rel := bytes.Index(doc[pos:], []byte(marker))
	if rel < 0 {
		return -1
	}

	return pos + rel
}

type errFormat string

func (e errFormat) Error() string { return string(e) }
