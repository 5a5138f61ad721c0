package transform

import (
	"encoding/binary"
	"math"

	"github.com/chrisagrams/mscompress/format"
)

// log2Transform quantises each value to floor(log2(v)*100) packed into a
// uint16, reconstructing via 2^(q/100) on decode. This mirrors the original
// preprocessor's algo_encode_log_2_transform_32f/_64d and its inverse
// exactly (spec.md §4.4 log2, §9 resolves the source-format/target-format
// mix-up so the transform always reads p.SourceElement's actual width).
//
// Values must be strictly positive; m/z and intensity arrays in practice
// always are, since zero or negative readings are not physically
// meaningful, but a zero or negative input is clamped to the smallest
// representable quantum rather than producing -Inf/NaN.
type log2Transform struct{}

func (log2Transform) ID() format.TransformID { return format.TransformLog2 }

func (log2Transform) Encode(raw []byte, p Params) ([]byte, error) {
	vals, err := readFloats(raw, p.SourceElement)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 4+len(vals)*2)
	copy(out, putHeader(len(vals)))
	for i, v := range vals {
		if v <= 0 {
			v = math.SmallestNonzeroFloat64
		}
		q := int64(math.Floor(math.Log2(v) * 100))
		if q < math.MinInt16 {
			q = math.MinInt16
		} else if q > math.MaxInt16 {
			q = math.MaxInt16
		}
		binary.LittleEndian.PutUint16(out[4+i*2:], uint16(int16(q)))
	}

	return out, nil
}

func (log2Transform) Decode(data []byte, p Params) ([]byte, error) {
	count, rest, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != count*2 {
		return nil, errShortBuffer("log2", len(rest), count*2)
	}

	vals := make([]float64, count)
	for i := 0; i < count; i++ {
		q := int16(binary.LittleEndian.Uint16(rest[i*2:]))
		vals[i] = math.Exp2(float64(q) / 100)
	}

	return writeFloats(vals, p.SourceElement)
}

func (log2Transform) Tolerance() Tolerance {
	// Quantisation step of 1/100 in log2 space bounds the reconstructed
	// value within a multiplicative factor of 2^(1/100) of the original.
	return Tolerance{MultEpsilon: math.Exp2(1.0 / 100)}
}
