package transform

import (
	"encoding/binary"
	"math"

	"github.com/chrisagrams/mscompress/format"
)

// cast32Transform narrows float64 to float32, halving the stream at the
// cost of float32 precision (spec.md §4.4 cast64→32). Grounded on the
// original preprocessor's algo_encode_cast32/algo_decode_cast32, which
// narrow the same way and prefix the element count.
type cast32Transform struct{}

func (cast32Transform) ID() format.TransformID { return format.TransformCast32 }

func (cast32Transform) Encode(raw []byte, p Params) ([]byte, error) {
	vals, err := readFloats(raw, p.SourceElement)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 4+len(vals)*4)
	copy(out, putHeader(len(vals)))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[4+i*4:], math.Float32bits(float32(v)))
	}

	return out, nil
}

func (cast32Transform) Decode(data []byte, p Params) ([]byte, error) {
	count, rest, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != count*4 {
		return nil, errShortBuffer("cast32", len(rest), count*4)
	}

	vals := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint32(rest[i*4:])
		vals[i] = float64(math.Float32frombits(bits))
	}

	return writeFloats(vals, p.SourceElement)
}

func (cast32Transform) Tolerance() Tolerance {
	// float32 carries ~7 decimal digits; declare a generous relative bound.
	return Tolerance{AbsEpsilon: 0, MultEpsilon: 1e-6}
}

// cast16Transform narrows float64 to a scaled uint16, a much coarser and
// lossier cast than cast32 (spec.md §4.4 cast64→16). The scale factor is
// the stream's single numeric parameter (Params.Param), the same slot
// delta/bitpack reuse.
type cast16Transform struct{}

func (cast16Transform) ID() format.TransformID { return format.TransformCast16 }

func (cast16Transform) Encode(raw []byte, p Params) ([]byte, error) {
	vals, err := readFloats(raw, p.SourceElement)
	if err != nil {
		return nil, err
	}
	scale := float64(p.Param)
	if scale == 0 {
		scale = 1
	}

	out := make([]byte, 4+len(vals)*2)
	copy(out, putHeader(len(vals)))
	for i, v := range vals {
		q := clampUint16(roundScaled(v, scale))
		binary.LittleEndian.PutUint16(out[4+i*2:], q)
	}

	return out, nil
}

func (cast16Transform) Decode(data []byte, p Params) ([]byte, error) {
	count, rest, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != count*2 {
		return nil, errShortBuffer("cast16", len(rest), count*2)
	}
	scale := float64(p.Param)
	if scale == 0 {
		scale = 1
	}

	vals := make([]float64, count)
	for i := 0; i < count; i++ {
		q := binary.LittleEndian.Uint16(rest[i*2:])
		vals[i] = float64(q) / scale
	}

	return writeFloats(vals, p.SourceElement)
}

func (cast16Transform) Tolerance() Tolerance {
	// Rounding to the nearest 1/scale unit, for values within
	// [0, 65535/scale]; values outside that range are clamped to it.
	return Tolerance{AbsEpsilon: 0.5}
}

func roundScaled(v, scale float64) float64 { return math.Round(v * scale) }

func clampUint16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}

	return uint16(v)
}
