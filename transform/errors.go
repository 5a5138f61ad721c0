package transform

import "github.com/chrisagrams/mscompress/errs"

func errShortBuffer(name string, got, want int) error {
	return errs.CorruptF("transform."+name, "payload length %d, expected %d for declared element count", got, want)
}
