//go:build nobuild

package compress

import "github.com/valyala/gozstd"

// Alternate cgo-backed zstd implementation, excluded from normal builds
// (the nobuild tag) since this module targets cgo-free builds by default;
// kept as the documented swap-in for deployments where gozstd's better
// ratio/speed is worth the C dependency.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
