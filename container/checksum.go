package container

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// checksum computes the xxhash64 digest of the three compressed streams, in
// stream order, formatted as a fixed-width hex string for the header's
// checksum field.
func checksum(xmlStream, mzStream, intensityStream []byte) string {
	h := xxhash.New()
	h.Write(xmlStream)
	h.Write(mzStream)
	h.Write(intensityStream)

	return fmt.Sprintf("%016x", h.Sum64())
}
