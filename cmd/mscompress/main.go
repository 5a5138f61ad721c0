// Command mscompress is the thin CLI over the mscompress package: argument
// parsing and flag-to-option wiring only, no business logic (spec.md
// "Configuration", "stays out of scope... lives only in the thin cmd CLI").
package main

import (
	"fmt"
	"os"

	"github.com/chrisagrams/mscompress"
	"github.com/chrisagrams/mscompress/container"
	"github.com/chrisagrams/mscompress/format"
	"github.com/chrisagrams/mscompress/logging"
	"github.com/chrisagrams/mscompress/partition"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mscompress",
		Short: "Compress, decompress, and extract mzML mass-spectrometry documents",
	}

	root.AddCommand(newCompressCmd())
	root.AddCommand(newDecompressCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newProbeCmd())

	return root
}

type compressFlags struct {
	output         string
	workers        int
	blockSize      uint64
	strategy       string
	mzTransform    uint32
	intenTransform uint32
	xmlCodec       uint32
	mzCodec        uint32
	intenCodec     uint32
	mzScale        float32
	intenScale     float32
	ident          string
	verbose        bool
}

func newCompressCmd() *cobra.Command {
	f := &compressFlags{}
	cmd := &cobra.Command{
		Use:   "compress <input.mzML>",
		Short: "Compress a source mzML document into a .msz container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := parseStrategy(f.strategy)
			if err != nil {
				return err
			}

			opts := []mscompress.Option{
				mscompress.WithWorkers(f.workers),
				mscompress.WithBlockSize(f.blockSize),
				mscompress.WithPartitionStrategy(strategy),
				mscompress.WithMzTransform(format.TransformID(f.mzTransform)),
				mscompress.WithIntensityTransform(format.TransformID(f.intenTransform)),
				mscompress.WithXMLCodec(format.BlockCodec(f.xmlCodec)),
				mscompress.WithMzCodec(format.BlockCodec(f.mzCodec)),
				mscompress.WithIntensityCodec(format.BlockCodec(f.intenCodec)),
				mscompress.WithMzScale(f.mzScale),
				mscompress.WithIntensityScale(f.intenScale),
				mscompress.WithIdentification(f.ident),
			}
			if f.verbose {
				opts = append(opts, mscompress.WithLogger(logging.NewLogrusSink(nil)))
			}

			return mscompress.Compress(args[0], f.output, opts...)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path (default: <input>.msz)")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "number of division workers")
	cmd.Flags().Uint64Var(&f.blockSize, "block-size", 1<<20, "xml stream block-flush threshold in bytes")
	cmd.Flags().StringVar(&f.strategy, "strategy", "count", "partition strategy: count or volume")
	cmd.Flags().Uint32Var(&f.mzTransform, "mz-transform", uint32(format.TransformLossless), "m/z numeric transform accession")
	cmd.Flags().Uint32Var(&f.intenTransform, "intensity-transform", uint32(format.TransformLossless), "intensity numeric transform accession")
	cmd.Flags().Uint32Var(&f.xmlCodec, "xml-codec", uint32(format.BlockCodecZstd), "xml stream block codec accession")
	cmd.Flags().Uint32Var(&f.mzCodec, "mz-codec", uint32(format.BlockCodecZstd), "m/z stream block codec accession")
	cmd.Flags().Uint32Var(&f.intenCodec, "intensity-codec", uint32(format.BlockCodecZstd), "intensity stream block codec accession")
	cmd.Flags().Float32Var(&f.mzScale, "mz-scale", 1000, "m/z transform scale parameter")
	cmd.Flags().Float32Var(&f.intenScale, "intensity-scale", 1000, "intensity transform scale parameter")
	cmd.Flags().StringVar(&f.ident, "identification", "", "caller-supplied label stored in the container header")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

func newDecompressCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decompress <input.msz>",
		Short: "Reconstruct the source mzML document from a .msz container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mscompress.Decompress(args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>.mzML)")

	return cmd
}

func newExtractCmd() *cobra.Command {
	var output string
	var scans []int32
	var level int8
	var hasLevel bool

	cmd := &cobra.Command{
		Use:   "extract <input.msz>",
		Short: "Extract a subset of spectra from a .msz container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(scans) > 0:
				return mscompress.ExtractByScan(args[0], output, scans)
			case hasLevel:
				return mscompress.ExtractByMSLevel(args[0], output, level)
			default:
				return fmt.Errorf("extract requires --scan or --ms-level")
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>.mzML)")
	cmd.Flags().Int32SliceVar(&scans, "scan", nil, "scan numbers to extract")
	cmd.Flags().Int8Var(&level, "ms-level", 0, "MS level to extract")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		hasLevel = cmd.Flags().Changed("ms-level")
		return nil
	}

	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <path>",
		Short: "Report whether a file is a .msz container or a source mzML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := mscompress.Probe(args[0])
			if err != nil {
				return err
			}

			switch kind {
			case container.KindContainer:
				fmt.Println("container")
			case container.KindSourceMzML:
				fmt.Println("source-mzml")
			default:
				fmt.Println("unknown")
			}

			return nil
		},
	}
}

func parseStrategy(s string) (partition.Strategy, error) {
	switch s {
	case "count", "":
		return partition.BySpectrumCount, nil
	case "volume":
		return partition.ByBinaryVolume, nil
	default:
		return 0, fmt.Errorf("unknown partition strategy %q", s)
	}
}
