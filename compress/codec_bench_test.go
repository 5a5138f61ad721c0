package compress

import (
	"fmt"
	"testing"

	"github.com/chrisagrams/mscompress/format"
)

func generateBenchmarkData(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "highly_compressible":
		// already zero-filled
	case "compressible":
		pattern := []byte("m/z 412.345600 intensity 78901.234500 scan=1 ms level=1")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	case "semi_compressible":
		for i := range data {
			if i%100 < 50 {
				data[i] = byte(i % 256)
			} else {
				data[i] = byte((i*7 + i*i) % 256)
			}
		}
	default:
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

func BenchmarkAllCodecs_Compress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					data := generateBenchmarkData(size, comp)
					b.Run(fmt.Sprintf("%dKB_%s", size/1024, comp), func(b *testing.B) {
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))
						b.ResetTimer()

						for b.Loop() {
							if _, err := codec.Compress(data); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					data := generateBenchmarkData(size, comp)
					compressed, err := codec.Compress(data)
					if err != nil {
						b.Fatal(err)
					}

					b.Run(fmt.Sprintf("%dKB_%s", size/1024, comp), func(b *testing.B) {
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))
						b.ResetTimer()

						for b.Loop() {
							if _, err := codec.Decompress(compressed); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

func BenchmarkCodecComparison_Compress(b *testing.B) {
	const size = 8 * 1024
	data := generateBenchmarkData(size, "compressible")

	codecs := []struct {
		name string
		typ  format.BlockCodec
	}{
		{"NoOp", format.BlockCodecLossless},
		{"LZ4", format.BlockCodecLZ4},
		{"S2", format.BlockCodecS2},
		{"Zstd", format.BlockCodecZstd},
	}

	for _, c := range codecs {
		codec, _ := CreateCodec(c.typ, "test")

		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(size))
			b.ResetTimer()

			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})
	}
}
