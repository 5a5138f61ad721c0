package mscompress

import (
	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/format"
	"github.com/chrisagrams/mscompress/internal/options"
	"github.com/chrisagrams/mscompress/logging"
	"github.com/chrisagrams/mscompress/partition"
)

// Config holds every compression-side setting a caller can override, built
// up from DefaultConfig by applying Options (spec.md "AMBIENT STACK"
// Configuration, following the teacher's NumericEncoderConfig pattern).
type Config struct {
	workers        int
	blockSize      uint64
	strategy       partition.Strategy
	identification string

	mzTransform        format.TransformID
	intensityTransform format.TransformID
	xmlCodec           format.BlockCodec
	mzCodec            format.BlockCodec
	intensityCodec     format.BlockCodec
	mzScale            float32
	intensityScale     float32

	log logging.Sink
}

// DefaultConfig returns the recommended settings: one worker per logical
// CPU's worth of partitions left to the caller to size (workers defaults to
// 4), lossless transforms, zstd codecs, and a silent logging sink.
func DefaultConfig() *Config {
	return &Config{
		workers:            4,
		blockSize:          1 << 20, // 1 MiB
		strategy:           partition.BySpectrumCount,
		mzTransform:        format.TransformLossless,
		intensityTransform: format.TransformLossless,
		xmlCodec:           format.BlockCodecZstd,
		mzCodec:            format.BlockCodecZstd,
		intensityCodec:     format.BlockCodecZstd,
		mzScale:            1000,
		intensityScale:     1000,
		log:                logging.Nop(),
	}
}

// Option configures a Config. Construct one with the With* functions below.
type Option = options.Option[*Config]

// WithWorkers sets the number of partitions (and worker goroutines) the
// Codec Pipeline launches (spec.md §5 "one per partition up to a
// configurable worker count").
func WithWorkers(n int) Option {
	return options.New(func(c *Config) error {
		if n < 1 {
			return errs.InvalidArgF("mscompress.WithWorkers", "workers must be >= 1, got %d", n)
		}
		c.workers = n

		return nil
	})
}

// WithBlockSize sets the Block Codec's growable-buffer flush threshold in
// bytes (spec.md §4.5).
func WithBlockSize(n uint64) Option {
	return options.New(func(c *Config) error {
		if n == 0 {
			return errs.InvalidArgF("mscompress.WithBlockSize", "block size must be > 0")
		}
		c.blockSize = n

		return nil
	})
}

// WithPartitionStrategy selects how the Partitioner distributes spectra
// across divisions (spec.md §4.3).
func WithPartitionStrategy(s partition.Strategy) Option {
	return options.NoError(func(c *Config) { c.strategy = s })
}

// WithMzTransform selects the numeric transform applied to the m/z stream
// (spec.md §4.4). Validity against the detected source element type is
// checked once at pipeline setup, not here.
func WithMzTransform(id format.TransformID) Option {
	return options.NoError(func(c *Config) { c.mzTransform = id })
}

// WithIntensityTransform selects the numeric transform applied to the
// intensity stream (spec.md §4.4).
func WithIntensityTransform(id format.TransformID) Option {
	return options.NoError(func(c *Config) { c.intensityTransform = id })
}

// WithXMLCodec, WithMzCodec, and WithIntensityCodec select the Block Codec
// (spec.md §4.5) applied to each stream independently.
func WithXMLCodec(codec format.BlockCodec) Option {
	return options.NoError(func(c *Config) { c.xmlCodec = codec })
}

func WithMzCodec(codec format.BlockCodec) Option {
	return options.NoError(func(c *Config) { c.mzCodec = codec })
}

func WithIntensityCodec(codec format.BlockCodec) Option {
	return options.NoError(func(c *Config) { c.intensityCodec = codec })
}

// WithMzScale and WithIntensityScale set the single per-stream numeric
// parameter consumed by scale-sensitive transforms (delta/bitpack/cast16/vbr;
// vdelta ignores it),
// persisted in the container header (§6 offsets 168/172).
func WithMzScale(scale float32) Option {
	return options.NoError(func(c *Config) { c.mzScale = scale })
}

func WithIntensityScale(scale float32) Option {
	return options.NoError(func(c *Config) { c.intensityScale = scale })
}

// WithIdentification sets the arbitrary caller-supplied label persisted in
// the container header.
func WithIdentification(label string) Option {
	return options.NoError(func(c *Config) { c.identification = label })
}

// WithLogger injects the status-message sink (spec.md "Design Notes",
// "process-wide verbose flag → explicit logging sink").
func WithLogger(sink logging.Sink) Option {
	return options.NoError(func(c *Config) {
		if sink == nil {
			sink = logging.Nop()
		}
		c.log = sink
	})
}

