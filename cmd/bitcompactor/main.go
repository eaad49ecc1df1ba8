// Command bitcompactor compresses and decompresses byte streams with the
// BitCompactor 2.7 codec, and can frame WAV PCM data through it as a
// worked example of a real-world byte stream.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mewkiz/bitcompactor"
	"github.com/mewkiz/bitcompactor/internal/container"
)

var (
	flagMixedBlkSize  bool
	flagProcBinEn     bool
	flagProcBtmapEn   bool
	flagDualEncodeEn  bool
	flagBypassEn      bool
	flagAlign         int
	flagMinFixedBitLn int
	flagVerbosity     int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bitcompactor",
	Short: "Compress and decompress byte streams with BitCompactor 2.7",
}

func init() {
	for _, cmd := range []*cobra.Command{compressCmd, decompressCmd, wavCompressCmd, wavDecompressCmd, benchCmd} {
		cmd.Flags().BoolVar(&flagMixedBlkSize, "mixed-blk-size", false, "enable the 4096-byte block family alongside 64-byte blocks")
		cmd.Flags().BoolVar(&flagProcBinEn, "proc-bin", false, "enable the binning predictor")
		cmd.Flags().BoolVar(&flagProcBtmapEn, "proc-btmap", false, "enable the top-symbol bitmap predictor")
		cmd.Flags().BoolVar(&flagDualEncodeEn, "dual-encode", true, "enable dual-length residual packing for 64-byte blocks")
		cmd.Flags().BoolVar(&flagBypassEn, "bypass", false, "force every block to the uncompressed path")
		cmd.Flags().IntVar(&flagAlign, "align", 1, "tail alignment: 0 none, 1 32 bytes, 2 64 bytes")
		cmd.Flags().IntVar(&flagMinFixedBitLn, "min-bit-ln", 3, "minimum fixed-length symbol size in bits (0..7)")
		cmd.Flags().IntVarP(&flagVerbosity, "verbosity", "v", 0, "trace verbosity (0..3)")
	}

	rootCmd.AddCommand(compressCmd, decompressCmd, boundCmd, wavCompressCmd, wavDecompressCmd, benchCmd)
}

func argsFromFlags() bitcompactor.Args {
	return bitcompactor.Args{
		Verbosity:     flagVerbosity,
		MixedBlkSize:  flagMixedBlkSize,
		ProcBinEn:     flagProcBinEn,
		ProcBtmapEn:   flagProcBtmapEn,
		Align:         bitcompactor.Align(flagAlign),
		DualEncodeEn:  flagDualEncodeEn,
		BypassEn:      flagBypassEn,
		MinFixedBitLn: uint8(flagMinFixedBitLn),
	}
}

var compressCmd = &cobra.Command{
	Use:   "compress <input> <output>",
	Short: "Compress a file into a BitCompactor container",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompress(args[0], args[1])
	},
}

func runCompress(inPath, outPath string) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	bcArgs := argsFromFlags()
	dst := make([]byte, bitcompactor.CompressedSizeBound(len(src)))
	n, err := bitcompactor.Compress(src, dst, bcArgs)
	if err != nil {
		return errors.Wrapf(err, "compressing %s", inPath)
	}

	w, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()
	if err := container.WriteHeader(w, bcArgs, len(src)); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.Write(dst[:n]); err != nil {
		return errors.WithStack(err)
	}
	fmt.Printf("%s: %d -> %d bytes (%.1f%%)\n", inPath, len(src), n, 100*float64(n)/float64(max(len(src), 1)))
	return nil
}

var decompressCmd = &cobra.Command{
	Use:   "decompress <input> <output>",
	Short: "Decompress a BitCompactor container back to its original bytes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecompress(args[0], args[1])
	},
}

func runDecompress(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	hdr, err := container.ReadHeader(f)
	if err != nil {
		return errors.Wrapf(err, "reading container header of %s", inPath)
	}
	compressed, err := io.ReadAll(f)
	if err != nil {
		return errors.WithStack(err)
	}

	dst := make([]byte, hdr.OriginalLen)
	n, err := bitcompactor.Decompress(compressed, dst, hdr.Args)
	if err != nil {
		return errors.Wrapf(err, "decompressing %s", inPath)
	}
	if err := os.WriteFile(outPath, dst[:n], 0o644); err != nil {
		return errors.WithStack(err)
	}
	fmt.Printf("%s: %d -> %d bytes\n", inPath, len(compressed), n)
	return nil
}

var boundCmd = &cobra.Command{
	Use:   "bound <size>",
	Short: "Print the worst-case compressed size for an input of the given byte size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var n int
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
			return errors.Wrapf(err, "parsing size %q", args[0])
		}
		fmt.Println(bitcompactor.CompressedSizeBound(n))
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench <input>",
	Short: "Time a compress/decompress round trip over a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(args[0])
	},
}

func runBench(path string) error {
	runID := uuid.New().String()
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}

	bcArgs := argsFromFlags()
	dst := make([]byte, bitcompactor.CompressedSizeBound(len(src)))

	start := time.Now()
	n, err := bitcompactor.Compress(src, dst, bcArgs)
	if err != nil {
		return errors.Wrapf(err, "run %s: compressing %s", runID, path)
	}
	compressElapsed := time.Since(start)

	out := make([]byte, len(src))
	start = time.Now()
	if _, err := bitcompactor.Decompress(dst[:n], out, bcArgs); err != nil {
		return errors.Wrapf(err, "run %s: decompressing %s", runID, path)
	}
	decompressElapsed := time.Since(start)

	fmt.Printf("run %s: %s\n", runID, path)
	fmt.Printf("  size:       %d -> %d bytes (%.1f%%)\n", len(src), n, 100*float64(n)/float64(max(len(src), 1)))
	fmt.Printf("  compress:   %v\n", compressElapsed)
	fmt.Printf("  decompress: %v\n", decompressElapsed)
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
