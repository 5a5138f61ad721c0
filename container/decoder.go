package container

import (
	"io"

	"github.com/chrisagrams/mscompress/payload"
)

// Decode reconstructs the source mzML document in full, writing it to w in
// partition order (§4.7 "Decoder"). The byte layout outside numeric arrays
// is byte-identical to the source; numeric arrays are identical when the
// chosen transform is lossless.
func (c *Container) Decode(w io.Writer) error {
	cs, err := c.buildCodecSet()
	if err != nil {
		return err
	}

	for d, rec := range c.Records {
		xmlBuf, err := c.decompressDivisionXML(cs.xmlLayout, cs.xmlCodec, d, rec.XMLBlocks)
		if err != nil {
			return err
		}

		div := rec.Division
		k := div.SpectrumCount()
		cursor := 0
		xmlIdx := 0
		readXMLSpan := func() ([]byte, error) {
			length := int(div.XML.End[xmlIdx] - div.XML.Start[xmlIdx])
			if cursor+length > len(xmlBuf) {
				return nil, errShortXML(d, xmlIdx)
			}
			seg := xmlBuf[cursor : cursor+length]
			cursor += length
			xmlIdx++
			return seg, nil
		}

		for i := 0; i < k; i++ {
			head, err := readXMLSpan()
			if err != nil {
				return err
			}
			if _, err := w.Write(head); err != nil {
				return err
			}

			mzRaw, err := c.decompressBlock(cs.mzLayout, cs.mzCodec, d, i)
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

			mid, err := readXMLSpan()
			if err != nil {
				return err
			}
			if _, err := w.Write(mid); err != nil {
				return err
			}

			intenRaw, err := c.decompressBlock(cs.intenLayout, cs.intenCodec, d, i)
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
		}

		// Drain any xml span left after the spectra. A worker division owns
		// only its spectra's head and mid spans, so none is left; the
		// trailing division has no spectra and owns one span, the
		// document's closing tail.
		for xmlIdx < div.XML.Len() {
			tail, err := readXMLSpan()
			if err != nil {
				return err
			}
			if _, err := w.Write(tail); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeBinary emits the base64 payload only. The surrounding `<binary>` /
// `</binary>` tags are never stripped from the xml spans (the head span
// runs up to and including the open tag, the mid span starts at the close
// tag), so writing them again here would duplicate them.
func writeBinary(w io.Writer, payload []byte) error {
	_, err := w.Write(payload)

	return err
}
