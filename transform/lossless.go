package transform

import "github.com/chrisagrams/mscompress/format"

// losslessTransform is the identity entry of the catalogue: it passes the
// decoded bytes through unchanged behind the standard element-count header,
// the only transform with Tolerance().Lossless == true regardless of
// element type.
type losslessTransform struct{}

func (losslessTransform) ID() format.TransformID { return format.TransformLossless }

func (losslessTransform) Encode(raw []byte, p Params) ([]byte, error) {
	width, err := p.SourceElement.ByteWidth()
	if err != nil {
		return nil, err
	}
	count := len(raw) / width

	out := make([]byte, 0, 4+len(raw))
	out = append(out, putHeader(count)...)
	out = append(out, raw...)

	return out, nil
}

func (losslessTransform) Decode(data []byte, p Params) ([]byte, error) {
	_, rest, err := readHeader(data)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), rest...), nil
}

func (losslessTransform) Tolerance() Tolerance { return Tolerance{Lossless: true} }
