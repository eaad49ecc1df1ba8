package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mewkiz/bitcompactor"
	"github.com/mewkiz/bitcompactor/internal/container"
)

// wavMeta is the small fixed-layout block the wav subcommands write right
// after the generic container.Header: just enough PCM format information
// to rebuild a playable WAV file on the other side. It is not part of
// internal/container, which stays byte-stream agnostic.
type wavMeta struct {
	SampleRate int
	BitDepth   int
	NumChans   int
}

func writeWAVMeta(w io.Writer, m wavMeta) error {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(m.SampleRate))
	binary.BigEndian.PutUint32(buf[4:8], uint32(m.BitDepth))
	binary.BigEndian.PutUint32(buf[8:12], uint32(m.NumChans))
	_, err := w.Write(buf[:])
	return errors.WithStack(err)
}

func readWAVMeta(r io.Reader) (wavMeta, error) {
	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return wavMeta{}, errors.WithStack(err)
	}
	return wavMeta{
		SampleRate: int(binary.BigEndian.Uint32(buf[0:4])),
		BitDepth:   int(binary.BigEndian.Uint32(buf[4:8])),
		NumChans:   int(binary.BigEndian.Uint32(buf[8:12])),
	}, nil
}

var wavCompressCmd = &cobra.Command{
	Use:   "wav-compress <input.wav> <output.bcw>",
	Short: "Compress a WAV file's PCM samples into a BitCompactor container",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWAVCompress(args[0], args[1])
	},
}

func runWAVCompress(inPath, outPath string) error {
	r, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return errors.Errorf("%s: not a valid WAV file", inPath)
	}
	if err := dec.FwdToPCM(); err != nil {
		return errors.WithStack(err)
	}
	meta := wavMeta{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		NumChans:   int(dec.NumChans),
	}

	pcm, err := readAllPCM(dec, meta)
	if err != nil {
		return err
	}

	bcArgs := argsFromFlags()
	dst := make([]byte, bitcompactor.CompressedSizeBound(len(pcm)))
	n, err := bitcompactor.Compress(pcm, dst, bcArgs)
	if err != nil {
		return errors.Wrapf(err, "compressing PCM from %s", inPath)
	}

	w, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()
	if err := container.WriteHeader(w, bcArgs, len(pcm)); err != nil {
		return errors.WithStack(err)
	}
	if err := writeWAVMeta(w, meta); err != nil {
		return err
	}
	if _, err := w.Write(dst[:n]); err != nil {
		return errors.WithStack(err)
	}
	fmt.Printf("%s: %d Hz, %d-bit, %d ch, %d -> %d PCM bytes (%.1f%%)\n",
		inPath, meta.SampleRate, meta.BitDepth, meta.NumChans, len(pcm), n, 100*float64(n)/float64(max(len(pcm), 1)))
	return nil
}

// readAllPCM decodes every PCM sample from dec and packs it into a byte
// stream, one sample per meta.BitDepth/8 bytes, little-endian (8-bit
// samples are unsigned, matching the WAV convention).
func readAllPCM(dec *wav.Decoder, meta wavMeta) ([]byte, error) {
	const samplesPerChunk = 4096
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: meta.NumChans, SampleRate: meta.SampleRate},
		Data:           make([]int, samplesPerChunk),
		SourceBitDepth: meta.BitDepth,
	}
	bytesPerSample := meta.BitDepth / 8

	var pcm []byte
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		for _, sample := range buf.Data[:n] {
			pcm = appendSample(pcm, sample, bytesPerSample)
		}
		if n < samplesPerChunk {
			break
		}
	}
	return pcm, nil
}

func appendSample(pcm []byte, sample, bytesPerSample int) []byte {
	switch bytesPerSample {
	case 1:
		return append(pcm, byte(sample))
	case 2:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(sample)))
		return append(pcm, b[:]...)
	default:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(sample))
		return append(pcm, b[:bytesPerSample]...)
	}
}

func sampleAt(pcm []byte, i, bytesPerSample int) int {
	off := i * bytesPerSample
	switch bytesPerSample {
	case 1:
		return int(pcm[off])
	case 2:
		return int(int16(binary.LittleEndian.Uint16(pcm[off : off+2])))
	default:
		var b [4]byte
		copy(b[:], pcm[off:off+bytesPerSample])
		return int(binary.LittleEndian.Uint32(b[:]))
	}
}

var wavDecompressCmd = &cobra.Command{
	Use:   "wav-decompress <input.bcw> <output.wav>",
	Short: "Decompress a BitCompactor container back into a playable WAV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWAVDecompress(args[0], args[1])
	},
}

func runWAVDecompress(inPath, outPath string) error {
	r, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	hdr, err := container.ReadHeader(r)
	if err != nil {
		return errors.Wrapf(err, "reading container header of %s", inPath)
	}
	meta, err := readWAVMeta(r)
	if err != nil {
		return errors.Wrapf(err, "reading WAV metadata of %s", inPath)
	}
	compressed, err := io.ReadAll(r)
	if err != nil {
		return errors.WithStack(err)
	}

	pcm := make([]byte, hdr.OriginalLen)
	if _, err := bitcompactor.Decompress(compressed, pcm, hdr.Args); err != nil {
		return errors.Wrapf(err, "decompressing %s", inPath)
	}

	w, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()
	enc := wav.NewEncoder(w, meta.SampleRate, meta.BitDepth, meta.NumChans, 1)
	defer enc.Close()

	bytesPerSample := meta.BitDepth / 8
	nsamples := len(pcm) / bytesPerSample
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: meta.NumChans, SampleRate: meta.SampleRate},
		Data:           make([]int, nsamples),
		SourceBitDepth: meta.BitDepth,
	}
	for i := range buf.Data {
		buf.Data[i] = sampleAt(pcm, i, bytesPerSample)
	}
	if err := enc.Write(buf); err != nil {
		return errors.WithStack(err)
	}
	fmt.Printf("%s: wrote %s (%d Hz, %d-bit, %d ch)\n", inPath, outPath, meta.SampleRate, meta.BitDepth, meta.NumChans)
	return nil
}
