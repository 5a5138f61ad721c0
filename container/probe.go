package container

import (
	"bytes"
	"encoding/binary"

	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
)

// Kind classifies an input file by the file-type probe (§6 "File-type
// probe").
type Kind uint8

const (
	KindUnknown Kind = iota
	KindContainer
	KindSourceMzML
)

// Probe classifies head, the first format.HeaderSize bytes (or fewer, for a
// very small input) of a candidate input file.
func Probe(head []byte) (Kind, error) {
	if len(head) >= 4 && binary.LittleEndian.Uint32(head[:4]) == format.Magic {
		return KindContainer, nil
	}

	limit := len(head)
	if limit > format.HeaderSize {
		limit = format.HeaderSize
	}
	if bytes.Contains(head[:limit], []byte(format.IndexedMzMLMarker)) {
		return KindSourceMzML, nil
	}

	return KindUnknown, errs.UnsupportedF("container.Probe", "input is neither a recognized container nor source mzML")
}
