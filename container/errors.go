package container

import "github.com/chrisagrams/mscompress/errs"

// errShortXML reports a decompressed xml block that ran out of bytes before
// every span in the division's xml position table could be sliced off —
// always a corrupt container, never a source-document defect, since spans
// were validated against the source at compress time.
func errShortXML(division, span int) error {
	return errs.CorruptF("container.Decode", "division %d: xml block too short for span %d", division, span)
}
