// Package transform implements the numeric transform catalogue (spec.md
// §4.4): pairs of pure encode/decode functions mapping a decoded binary
// array between the source numeric domain and a more compressible
// representation, possibly lossy with a documented tolerance.
//
// Every encoded buffer begins with a 4-byte little-endian element count so
// the decoder can reverse the transform without ambient state, per spec.md
// §4.4.
package transform

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
)

// Params carries the per-call context a transform needs beyond the raw
// bytes: the source element width (to interpret/produce raw bytes), and a
// single numeric parameter whose meaning is transform-specific (scale
// factor for delta/bitpack/cast16, threshold for vbr, which vbr applies as
// its scale; unused otherwise, including by vdelta, which has a fixed
// internal scale).
// This mirrors the container header's single scale-factor field per stream
// (spec.md §6 offsets 168/172) — each stream carries exactly one numeric
// parameter, reused by whichever transform consumes it.
type Params struct {
	SourceElement format.ElementType
	Param         float32
}

// Tolerance documents the round-trip precision a transform guarantees
// (spec.md §8 "For every transform T: decode_T(encode_T(x)) lies within T's
// declared tolerance from x").
type Tolerance struct {
	Lossless bool
	// AbsEpsilon bounds |decode(encode(x)) - x| for transforms with an
	// additive error (delta family, vdelta, vbr, bitpack, cast16). Rounding
	// to the nearest 1/scale unit costs at most 0.5/scale: vdelta declares
	// that for its internal scale, delta/bitpack/cast16 declare 0.5 (which
	// covers any scale >= 1), and vbr declares it for a scale of 1000.
	AbsEpsilon float64
	// MultEpsilon is log2's factor f, declared as 2^(1/100):
	// decode(encode(x))/x lies within [1/f, f]. cast32 uses it instead as a
	// relative bound, |decode(encode(x)) - x| <= MultEpsilon*|x|.
	MultEpsilon float64
}

// Transform is one entry of the catalogue: a pair of pure functions over a
// decoded binary array.
type Transform interface {
	ID() format.TransformID
	// Encode takes the raw decoded bytes (source element width, as they
	// come out of the source-compression decoder) and returns the
	// transformed, header-prefixed bytes.
	Encode(raw []byte, p Params) ([]byte, error)
	// Decode reverses Encode, returning raw bytes back in the source
	// element width, ready for base64+zlib re-encoding by the Decoder.
	Decode(data []byte, p Params) ([]byte, error)
	Tolerance() Tolerance
}

// Select resolves the (transform, source element type) selection matrix
// (spec.md §4.4): invalid combinations fail with Unsupported here, at
// pipeline setup, never mid-stream.
func Select(id format.TransformID, elem format.ElementType) (Transform, error) {
	if _, err := elem.ByteWidth(); err != nil {
		return nil, errs.UnsupportedF("transform.Select", "unknown source element type accession %d", uint32(elem))
	}

	switch id {
	case format.TransformLossless:
		return losslessTransform{}, nil
	case format.TransformCast32:
		if elem != format.Element64Double {
			return nil, errs.UnsupportedF("transform.Select", "cast64to32 requires a float64 source, got %s", elem)
		}

		return cast32Transform{}, nil
	case format.TransformCast16:
		if elem != format.Element64Double {
			return nil, errs.UnsupportedF("transform.Select", "cast64to16 requires a float64 source, got %s", elem)
		}

		return cast16Transform{}, nil
	case format.TransformLog2:
		return log2Transform{}, nil
	case format.TransformDelta16:
		if err := requireDouble(elem, "delta16"); err != nil {
			return nil, err
		}

		return deltaTransform{bits: 16}, nil
	case format.TransformDelta24:
		if err := requireDouble(elem, "delta24"); err != nil {
			return nil, err
		}

		return deltaTransform{bits: 24}, nil
	case format.TransformDelta32:
		if err := requireDouble(elem, "delta32"); err != nil {
			return nil, err
		}

		return deltaTransform{bits: 32}, nil
	case format.TransformVDelta16:
		if err := requireDouble(elem, "vdelta16"); err != nil {
			return nil, err
		}

		return vdeltaTransform{groupBits: 16, scale: 1e3}, nil
	case format.TransformVDelta24:
		if err := requireDouble(elem, "vdelta24"); err != nil {
			return nil, err
		}

		return vdeltaTransform{groupBits: 24, scale: 1e6}, nil
	case format.TransformVBR:
		if err := requireDouble(elem, "vbr"); err != nil {
			return nil, err
		}

		return vbrTransform{}, nil
	case format.TransformBitpack:
		if err := requireDouble(elem, "bitpack"); err != nil {
			return nil, err
		}

		return bitpackTransform{}, nil
	default:
		return nil, errs.UnsupportedF("transform.Select", "unknown transform id %d", uint32(id))
	}
}

func requireDouble(elem format.ElementType, name string) error {
	if elem != format.Element64Double {
		return errs.UnsupportedF("transform.Select", "%s requires a float64 source, got %s", name, elem)
	}

	return nil
}

// --- shared header + float conversion helpers ---

func putHeader(count int) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(count)) //nolint:gosec
	return b
}

func readHeader(data []byte) (count int, rest []byte, err error) {
	if len(data) < 4 {
		return 0, nil, errs.CorruptF("transform.readHeader", "buffer too short for element-count header (%d bytes)", len(data))
	}

	return int(binary.LittleEndian.Uint32(data[:4])), data[4:], nil
}

// readFloats interprets raw as an array of elem-width floats and returns it
// widened to float64.
func readFloats(raw []byte, elem format.ElementType) ([]float64, error) {
	width, err := elem.ByteWidth()
	if err != nil {
		return nil, err
	}
	if len(raw)%width != 0 {
		return nil, errs.CorruptF("transform.readFloats", "buffer length %d is not a multiple of element width %d", len(raw), width)
	}
	n := len(raw) / width
	out := make([]float64, n)

	switch elem {
	case format.Element32Float:
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(raw[i*4:])
			out[i] = float64(math.Float32frombits(bits))
		}
	case format.Element64Double:
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint64(raw[i*8:])
			out[i] = math.Float64frombits(bits)
		}
	default:
		return nil, fmt.Errorf("transform.readFloats: unsupported element type %s", elem)
	}

	return out, nil
}

// writeFloats narrows vals to elem's width and serializes little-endian.
func writeFloats(vals []float64, elem format.ElementType) ([]byte, error) {
	switch elem {
	case format.Element32Float:
		out := make([]byte, len(vals)*4)
		for i, v := range vals {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
		}

		return out, nil
	case format.Element64Double:
		out := make([]byte, len(vals)*8)
		for i, v := range vals {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
		}

		return out, nil
	default:
		return nil, fmt.Errorf("transform.writeFloats: unsupported element type %s", elem)
	}
}

// zigzag / unzigzag map signed deltas to unsigned values efficiently,
// following the same convention the teacher's timestamp delta encoder uses
// (encoding/ts_delta.go).
func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
