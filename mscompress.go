// Package mscompress provides a high-performance binary container format
// for mzML mass-spectrometry documents, trading a single streaming parse
// for three independently compressed streams (xml, m/z, intensity) plus a
// partition table precise enough to decompress or extract a subset of
// spectra without touching the rest of the file.
//
// # Basic usage
//
//	if err := mscompress.Compress("run.mzML", "run.msz"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := mscompress.Decompress("run.msz", "run.mzML"); err != nil {
//	    log.Fatal(err)
//	}
//
// This package provides convenient top-level wrappers around the scanner,
// partitioner, codec pipeline, and container packages. For fine-grained
// control — a pre-mapped source, a custom Options set, or direct access to
// the parsed Container — use those packages directly.
package mscompress

import (
	"os"
	"strings"

	"github.com/chrisagrams/mscompress/compress"
	"github.com/chrisagrams/mscompress/container"
	"github.com/chrisagrams/mscompress/errs"
	"github.com/chrisagrams/mscompress/internal/options"
	"github.com/chrisagrams/mscompress/mmapfile"
	"github.com/chrisagrams/mscompress/partition"
	"github.com/chrisagrams/mscompress/pipeline"
	"github.com/chrisagrams/mscompress/transform"
	"github.com/chrisagrams/mscompress/xmlscan"
)

// Compress reads the mzML document at inputPath, partitions and compresses
// it, and writes a container to outputPath. If outputPath is empty, it
// defaults to inputPath with its extension replaced by ".msz" (spec.md §6
// "Output naming").
func Compress(inputPath, outputPath string, opts ...Option) error {
	cfg := DefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".msz")
	}

	src, err := mmapfile.OpenSource(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	doc := src.Bytes()
	cfg.log.Infof("detecting source format for %s", inputPath)

	desc, err := xmlscan.Detect(doc)
	if err != nil {
		return err
	}
	desc.MzTransform = cfg.mzTransform
	desc.IntensityTransform = cfg.intensityTransform
	desc.XMLCodec = cfg.xmlCodec
	desc.MzCodec = cfg.mzCodec
	desc.IntensityCodec = cfg.intensityCodec
	desc.MzScale = cfg.mzScale
	desc.IntensityScale = cfg.intensityScale
	desc.BlockSize = cfg.blockSize
	if err := desc.Validate(); err != nil {
		return err
	}

	cfg.log.Infof("scanning %d spectra", desc.SpectrumCount)
	enc, err := xmlscan.Scan(doc, desc)
	if err != nil {
		return err
	}

	set, err := partition.Partition(enc, cfg.workers, cfg.strategy)
	if err != nil {
		return err
	}
	cfg.log.Infof("partitioned into %d divisions", len(set.Divisions))

	mzTransform, err := transform.Select(desc.MzTransform, desc.SourceMzElement)
	if err != nil {
		return err
	}
	intenTransform, err := transform.Select(desc.IntensityTransform, desc.SourceIntensityElement)
	if err != nil {
		return err
	}

	xmlCodec, err := compress.CreateCodec(desc.XMLCodec, "xml")
	if err != nil {
		return err
	}
	mzCodec, err := compress.CreateCodec(desc.MzCodec, "m/z")
	if err != nil {
		return err
	}
	intenCodec, err := compress.CreateCodec(desc.IntensityCodec, "intensity")
	if err != nil {
		return err
	}

	params := pipeline.Params{
		Doc:                doc,
		Descriptor:         desc,
		BlockSize:          cfg.blockSize,
		MzTransform:        mzTransform,
		IntensityTransform: intenTransform,
		MzParams:           transform.Params{SourceElement: desc.SourceMzElement, Param: desc.MzScale},
		IntensityParams:    transform.Params{SourceElement: desc.SourceIntensityElement, Param: desc.IntensityScale},
		XMLCodec:           xmlCodec,
		MzCodec:            mzCodec,
		IntensityCodec:     intenCodec,
	}

	records, xmlBlocks, mzBlocks, intenBlocks, err := pipeline.Run(set, params)
	if err != nil {
		return err
	}
	cfg.log.Infof("compressed %d xml / %d m/z / %d intensity blocks", len(xmlBlocks.Lengths), len(mzBlocks.Lengths), len(intenBlocks.Lengths))

	out, err := mmapfile.CreateAppendWriter(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return container.Write(out, container.WriteInput{
		Descriptor:         desc,
		MzTransform:        desc.MzTransform,
		IntensityTransform: desc.IntensityTransform,
		Identification:     cfg.identification,
		OriginalSize:       uint64(src.Len()),
		Divisions:          records,
		XML:                xmlBlocks,
		Mz:                 mzBlocks,
		Intensity:          intenBlocks,
	})
}

// Decompress reads the container at inputPath and writes the reconstructed
// mzML document to outputPath. If outputPath is empty, it defaults to
// inputPath with its extension replaced by ".mzML".
func Decompress(inputPath, outputPath string, opts ...Option) error {
	cfg := DefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".mzML")
	}

	c, src, err := openContainer(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.IOWrap("mscompress.Decompress", err, "create %s", outputPath)
	}
	defer w.Close()

	cfg.log.Infof("decoding %d spectra from %s", c.Header.SourceSpectrumCount, inputPath)

	return c.Decode(w)
}

// Extract writes the subset of the source document covering exactly the
// given spectrum indices to outputPath (spec.md §4.8).
func Extract(inputPath, outputPath string, indices []int, opts ...Option) error {
	return withExtractor(inputPath, outputPath, opts, func(c *container.Container, w *os.File) error {
		return c.Extract(w, indices)
	})
}

// ExtractByScan resolves a set of scan numbers to spectrum indices via the
// container's persisted metadata, then extracts them.
func ExtractByScan(inputPath, outputPath string, scans []int32, opts ...Option) error {
	return withExtractor(inputPath, outputPath, opts, func(c *container.Container, w *os.File) error {
		return c.ExtractByScan(w, scans)
	})
}

// ExtractByMSLevel extracts every spectrum recorded at the given MS level.
func ExtractByMSLevel(inputPath, outputPath string, level int8, opts ...Option) error {
	return withExtractor(inputPath, outputPath, opts, func(c *container.Container, w *os.File) error {
		return c.ExtractByMSLevel(w, level)
	})
}

// Probe classifies the file at path as a container, source mzML, or neither
// (spec.md §6 "File-type probe").
func Probe(path string) (container.Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return container.KindUnknown, errs.IOWrap("mscompress.Probe", err, "open %s", path)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return container.KindUnknown, errs.IOWrap("mscompress.Probe", err, "read %s", path)
	}

	return container.Probe(head[:n])
}

func withExtractor(inputPath, outputPath string, opts []Option, fn func(*container.Container, *os.File) error) error {
	cfg := DefaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".mzML")
	}

	c, src, err := openContainer(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.IOWrap("mscompress.Extract", err, "create %s", outputPath)
	}
	defer w.Close()

	return fn(c, w)
}

func openContainer(path string) (*container.Container, *mmapfile.Source, error) {
	src, err := mmapfile.OpenSource(path)
	if err != nil {
		return nil, nil, err
	}

	c, err := container.Open(src)
	if err != nil {
		src.Close()

		return nil, nil, err
	}

	return c, src, nil
}

// replaceExt swaps path's extension for ext (which includes the leading
// dot), or appends ext if path has none.
func replaceExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ext
	}

	return path + ext
}
