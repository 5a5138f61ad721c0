// Package payload decodes and re-encodes mzML `<binary>` element text: the
// base64+zlib (or base64-only) wire encoding mandated by the mzML spec
// itself for numeric array payloads, distinct from the container's own
// numeric transforms and block codecs (spec.md §4.7 "re-encoding via
// base64+zlib to match the original encoding").
//
// Both base64 and zlib are fixed by the mzML format, not a design choice
// this module makes, so there is no ecosystem alternative to wire in here;
// encoding/base64 and compress/zlib are used directly. See DESIGN.md.
package payload

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"io"

	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
)

// Decode turns the base64 text of a `<binary>` element into the raw
// element bytes, undoing zlib deflation first if the source declared it.
func Decode(b64 []byte, compression format.SourceCompression) ([]byte, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(b64)))
	n, err := base64.StdEncoding.Decode(raw, b64)
	if err != nil {
		return nil, errs.MalformedWrap("payload.Decode", err, "invalid base64 binary payload")
	}
	raw = raw[:n]

	switch compression {
	case format.SourceCompressionNone:
		return raw, nil
	case format.SourceCompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errs.MalformedWrap("payload.Decode", err, "invalid zlib stream")
		}
		defer zr.Close()

		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, errs.MalformedWrap("payload.Decode", err, "zlib inflate failed")
		}

		return out, nil
	default:
		return nil, errs.UnsupportedF("payload.Decode", "unsupported source compression accession %d", uint32(compression))
	}
}

// Encode turns raw element bytes back into the base64 text of a `<binary>`
// element, deflating with zlib first if compression requires it, so the
// reconstructed document's binary text matches the source encoding.
func Encode(raw []byte, compression format.SourceCompression) ([]byte, error) {
	var wire []byte

	switch compression {
	case format.SourceCompressionNone:
		wire = raw
	case format.SourceCompressionZlib:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			zw.Close()
			return nil, errs.IOWrap("payload.Encode", err, "zlib deflate failed")
		}
		if err := zw.Close(); err != nil {
			return nil, errs.IOWrap("payload.Encode", err, "zlib flush failed")
		}
		wire = buf.Bytes()
	default:
		return nil, errs.UnsupportedF("payload.Encode", "unsupported source compression accession %d", uint32(compression))
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(wire)))
	base64.StdEncoding.Encode(out, wire)

	return out, nil
}
