package container

import (
	"io"
	"sort"

	"github.com/chrisagrams/mscompress/compress"
	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/payload"
	"github.com/chrisagrams/mscompress/transform"
)

// codecSet bundles the three block codecs and two numeric transforms a
// Decoder or Extractor needs, resolved once from the header and trailer.
type codecSet struct {
	xmlCodec, mzCodec, intenCodec    compress.Codec
	mzTransform, intenTransform      transform.Transform
	mzParams, intenParams            transform.Params
	xmlLayout, mzLayout, intenLayout streamLayout
}

func (c *Container) buildCodecSet() (codecSet, error) {
	var cs codecSet
	var err error

	if cs.xmlCodec, err = compress.GetCodec(c.Header.XMLCodec); err != nil {
		return codecSet{}, err
	}
	if cs.mzCodec, err = compress.GetCodec(c.Header.MzCodec); err != nil {
		return codecSet{}, err
	}
	if cs.intenCodec, err = compress.GetCodec(c.Header.IntensityCodec); err != nil {
		return codecSet{}, err
	}
	if cs.mzTransform, err = transform.Select(c.Trailer.MzTransform, c.Header.SourceMzElement); err != nil {
		return codecSet{}, err
	}
	if cs.intenTransform, err = transform.Select(c.Trailer.IntensityTransform, c.Header.SourceIntensityElement); err != nil {
		return codecSet{}, err
	}
	cs.mzParams = transform.Params{SourceElement: c.Header.SourceMzElement, Param: c.Header.MzScale}
	cs.intenParams = transform.Params{SourceElement: c.Header.SourceIntensityElement, Param: c.Header.IntensityScale}

	if cs.xmlLayout, err = c.xmlLayout(); err != nil {
		return codecSet{}, err
	}
	if cs.mzLayout, err = c.mzLayout(); err != nil {
		return codecSet{}, err
	}
	if cs.intenLayout, err = c.intensityLayout(); err != nil {
		return codecSet{}, err
	}

	return cs, nil
}

// divisionXML lazily decompresses and caches division d's single xml block,
// and the cumulative local offset of each of its xml spans within that
// decompressed buffer (spec.md §4.8 step 2: "decompress ... if not cached").
type divisionXML struct {
	buf     []byte
	offsets []int // offsets[j] = local byte offset where xml span j begins
}

func (c *Container) loadDivisionXML(cs codecSet, cache map[int]divisionXML, d int) (divisionXML, error) {
	if dx, ok := cache[d]; ok {
		return dx, nil
	}

	buf, err := c.decompressDivisionXML(cs.xmlLayout, cs.xmlCodec, d, c.Records[d].XMLBlocks)
	if err != nil {
		return divisionXML{}, err
	}

	xml := c.Records[d].Division.XML
	offsets := make([]int, xml.Len())
	cur := 0
	for i := range offsets {
		offsets[i] = cur
		cur += int(xml.End[i] - xml.Start[i])
	}

	dx := divisionXML{buf: buf, offsets: offsets}
	cache[d] = dx

	return dx, nil
}

// spanBytes returns the local byte range of xml span j within division d's
// decompressed buffer, optionally trimmed to begin at absolute offset
// fromAbs (clamped to the span) and/or to end at absolute offset toAbs.
func spanBytes(dx divisionXML, xmlTable [2][]int64, j int, fromAbs, toAbs int64, trimFrom, trimTo bool) []byte {
	start := dx.offsets[j]
	end := start + int(xmlTable[1][j]-xmlTable[0][j])

	if trimFrom && fromAbs > xmlTable[0][j] {
		start += int(fromAbs - xmlTable[0][j])
	}
	if trimTo && toAbs < xmlTable[1][j] {
		end = dx.offsets[j] + int(toAbs-xmlTable[0][j])
	}

	return dx.buf[start:end]
}

// Extract writes the subset of the source document covering exactly the
// given spectrum indices, in ascending order, bracketed by the document
// prologue and footer (spec.md §4.8 "Extractor").
//
// Each requested spectrum is written from its true `<spectrum>` open tag to
// its own `</spectrum>` close (the division's Spectra position table), so a
// non-contiguous or mid-document index subset never leaks an unselected
// neighbor's content.
func (c *Container) Extract(w io.Writer, indices []int) error {
	idx := dedupeSorted(indices)
	if len(idx) == 0 {
		return errs.InvalidArgF("container.Extract", "empty index set")
	}

	total := 0
	prefix := make([]int, len(c.Records)+1)
	for i, r := range c.Records {
		prefix[i+1] = prefix[i] + r.Division.SpectrumCount()
		total += r.Division.SpectrumCount()
	}
	if idx[0] < 0 || idx[len(idx)-1] >= total {
		return errs.InvalidArgF("container.Extract", "index out of range [0, %d)", total)
	}

	cs, err := c.buildCodecSet()
	if err != nil {
		return err
	}
	xmlCache := make(map[int]divisionXML)

	if err := c.writePrologue(cs, xmlCache, w); err != nil {
		return err
	}

	for _, global := range idx {
		d, local := locate(prefix, global)

		dx, err := c.loadDivisionXML(cs, xmlCache, d)
		if err != nil {
			return err
		}

		div := c.Records[d].Division
		headSpan := 2 * local
		head := spanBytes(dx, [2][]int64{div.XML.Start, div.XML.End}, headSpan, div.Spectra.Start[local], 0, true, false)
		if _, err := w.Write(head); err != nil {
			return err
		}

		mzRaw, err := c.decompressBlock(cs.mzLayout, cs.mzCodec, d, local)
		if err != nil {
			return err
		}
		mzFloats, err := cs.mzTransform.Decode(mzRaw, cs.mzParams)
		if err != nil {
			return err
		}
		mzWire, err := payload.Encode(mzFloats, c.Header.SourcePayloadCompress)
		if err != nil {
			return err
		}
		if err := writeBinary(w, mzWire); err != nil {
			return err
		}

		midSpan := headSpan + 1
		mid := spanBytes(dx, [2][]int64{div.XML.Start, div.XML.End}, midSpan, 0, 0, false, false)
		if _, err := w.Write(mid); err != nil {
			return err
		}

		intenRaw, err := c.decompressBlock(cs.intenLayout, cs.intenCodec, d, local)
		if err != nil {
			return err
		}
		intenFloats, err := cs.intenTransform.Decode(intenRaw, cs.intenParams)
		if err != nil {
			return err
		}
		intenWire, err := payload.Encode(intenFloats, c.Header.SourcePayloadCompress)
		if err != nil {
			return err
		}
		if err := writeBinary(w, intenWire); err != nil {
			return err
		}

		if err := c.writeSpectrumClose(cs, xmlCache, d, local, w); err != nil {
			return err
		}
	}

	return c.writeFooter(cs, xmlCache, w)
}

// ExtractByScan resolves scan numbers to spectrum indices via each
// division's metadata and extracts them.
func (c *Container) ExtractByScan(w io.Writer, scans []int32) error {
	want := make(map[int32]bool, len(scans))
	for _, s := range scans {
		want[s] = true
	}

	var indices []int
	global := 0
	for _, rec := range c.Records {
		for i, s := range rec.Division.Meta.ScanNumber {
			if want[s] {
				indices = append(indices, global+i)
			}
		}
		global += rec.Division.SpectrumCount()
	}
	if len(indices) == 0 {
		return errs.InvalidArgF("container.ExtractByScan", "no spectrum matched the requested scan numbers")
	}

	return c.Extract(w, indices)
}

// ExtractByMSLevel extracts every spectrum recorded at the given MS level.
func (c *Container) ExtractByMSLevel(w io.Writer, level int8) error {
	var indices []int
	global := 0
	for _, rec := range c.Records {
		for i, l := range rec.Division.Meta.MSLevel {
			if l == level {
				indices = append(indices, global+i)
			}
		}
		global += rec.Division.SpectrumCount()
	}
	if len(indices) == 0 {
		return errs.InvalidArgF("container.ExtractByMSLevel", "no spectrum recorded at MS level %d", level)
	}

	return c.Extract(w, indices)
}

// writePrologue emits document bytes from true start to the first
// spectrum's own open tag, verbatim (§4.8 "Header/footer handling").
func (c *Container) writePrologue(cs codecSet, cache map[int]divisionXML, w io.Writer) error {
	dx, err := c.loadDivisionXML(cs, cache, 0)
	if err != nil {
		return err
	}

	div := c.Records[0].Division
	prologue := spanBytes(dx, [2][]int64{div.XML.Start, div.XML.End}, 0, 0, div.Spectra.Start[0], false, true)
	_, err = w.Write(prologue)

	return err
}

// writeSpectrumClose emits the closing tail of spectrum `local` in division
// d: the bytes from its intensity binary end to its own `</spectrum>` close,
// which live at the start of the following span (possibly in the next
// division, or the document's final tail span).
func (c *Container) writeSpectrumClose(cs codecSet, cache map[int]divisionXML, d, local int, w io.Writer) error {
	div := c.Records[d].Division
	closeAbs := div.Spectra.End[local]

	nextSpan := 2*local + 2
	if nextSpan < div.XML.Len() {
		dx, err := c.loadDivisionXML(cs, cache, d)
		if err != nil {
			return err
		}
		frag := spanBytes(dx, [2][]int64{div.XML.Start, div.XML.End}, nextSpan, 0, closeAbs, false, true)
		_, err = w.Write(frag)

		return err
	}

	// Spectrum closes in the trailing division (xml-only, one span), or in
	// the following division's own head span.
	for dd := d + 1; dd < len(c.Records); dd++ {
		next := c.Records[dd].Division
		if next.XML.Len() == 0 {
			continue
		}
		dx, err := c.loadDivisionXML(cs, cache, dd)
		if err != nil {
			return err
		}
		frag := spanBytes(dx, [2][]int64{next.XML.Start, next.XML.End}, 0, 0, closeAbs, false, true)
		_, err = w.Write(frag)

		return err
	}

	return nil
}

// writeFooter emits the document bytes after the absolute last spectrum's
// `</spectrum>` close verbatim, regardless of which indices were requested:
// they carry only closing structural tags, never another spectrum's content,
// so they are always safe to append (§4.8 "Header/footer handling").
func (c *Container) writeFooter(cs codecSet, cache map[int]divisionXML, w io.Writer) error {
	d := len(c.Records) - 1
	for d >= 0 && c.Records[d].Division.XML.Len() == 0 {
		d--
	}
	if d < 0 {
		return nil
	}

	dx, err := c.loadDivisionXML(cs, cache, d)
	if err != nil {
		return err
	}

	// The final span starts at the last spectrum's intensity end; its bytes
	// up to that spectrum's `</spectrum>` belong to the spectrum.
	var lastEnd int64
	for dd := len(c.Records) - 1; dd >= 0; dd-- {
		if sp := c.Records[dd].Division.Spectra; sp.Len() > 0 {
			lastEnd = sp.End[sp.Len()-1]
			break
		}
	}

	div := c.Records[d].Division
	last := div.XML.Len() - 1
	footer := spanBytes(dx, [2][]int64{div.XML.Start, div.XML.End}, last, lastEnd, 0, true, false)
	_, err = w.Write(footer)

	return err
}

func locate(prefix []int, global int) (division, local int) {
	// len(prefix) is small (one entry per division); linear scan is fine.
	for d := 0; d < len(prefix)-1; d++ {
		if global < prefix[d+1] {
			return d, global - prefix[d]
		}
	}

	return len(prefix) - 2, 0
}

func dedupeSorted(indices []int) []int {
	out := append([]int(nil), indices...)
	sort.Ints(out)

	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}

	return out[:n]
}
