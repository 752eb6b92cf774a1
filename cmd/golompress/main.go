// Command golompress is the CLI front end for the lossless grayscale
// compressor: it wires raster I/O, the predictive image codec, and a small
// compression-statistics report around the library packages golomb and
// imagecodec.
//
// Usage:
//
//	golompress encode [-predictor paeth] [-zstd] <input-image> <output.golz>
//	golompress decode <input.golz> <output.png>
package main

import (
	"flag"
	"fmt"
	"os"

	"golompress/imagecodec"
	"golompress/internal/bitio"
	"golompress/raster"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var predictorNames = map[string]imagecodec.Predictor{
	"prev":     imagecodec.PredictPrev,
	"above":    imagecodec.PredictAbove,
	"average":  imagecodec.PredictAverage,
	"paeth":    imagecodec.PredictPaeth,
	"jpeg-ls":  imagecodec.PredictJPEGLS,
	"gradient": imagecodec.PredictGradient,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, "Encode: golompress encode [-predictor paeth] [-zstd] <input-image> <output.golz>\nDecode: golompress decode <input.golz> <output-image>\n")
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	predictorName := fs.String("predictor", "paeth", "spatial predictor: prev, above, average, paeth, jpeg-ls, gradient")
	compareZstd := fs.Bool("zstd", false, "also report the size a general-purpose zstd pass would achieve, for reference only")
	fs.Parse(args)

	if fs.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	predictor, ok := predictorNames[*predictorName]
	if !ok {
		fmt.Fprintf(os.Stderr, "encode error: unknown predictor %q\n", *predictorName)
		os.Exit(1)
	}

	if err := encode(inputPath, outputPath, predictor, *compareZstd); err != nil {
		fmt.Fprintln(os.Stderr, "encode error:", err)
		os.Exit(1)
	}
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	if err := decode(inputPath, outputPath); err != nil {
		fmt.Fprintln(os.Stderr, "decode error:", err)
		os.Exit(1)
	}
}

func encode(inputPath, outputPath string, predictor imagecodec.Predictor, compareZstd bool) error {
	pix, width, height, err := raster.LoadGrayscale(inputPath)
	if err != nil {
		return errors.Wrap(err, "load image")
	}

	codec := imagecodec.New(predictor)
	encoded, err := codec.Encode(pix, width, height)
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	if err := os.WriteFile(outputPath, encoded.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}

	printStats(pix, encoded, compareZstd)
	return nil
}

func decode(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	bits := bitio.FromBytes(data, len(data)*8)
	width, height, err := imagecodec.PeekShape(bits)
	if err != nil {
		return errors.Wrap(err, "read header")
	}

	// The predictor named in the header drives reconstruction (see
	// imagecodec.Codec.Decode); the value passed to New here is never
	// consulted during decode.
	codec := imagecodec.New(imagecodec.PredictPrev)
	pix, err := codec.Decode(bits, width, height)
	if err != nil {
		return errors.Wrap(err, "decode")
	}

	if err := raster.SaveGrayscale(outputPath, pix, width, height); err != nil {
		return errors.Wrap(err, "save image")
	}
	return nil
}

// printStats prints original size, compressed size, and compression ratio,
// following original_source/src/image_encode.cpp's stdout report. If
// compareZstd is set it additionally reports, purely for reference, the
// size a general-purpose zstd pass over the same raw raster would achieve.
func printStats(pix []byte, encoded *bitio.Bits, compareZstd bool) {
	originalSize := float64(len(pix))
	compressedSize := float64(len(encoded.Bytes()))

	fmt.Printf("Original size: %.0f bytes\n", originalSize)
	fmt.Printf("Compressed size: %.0f bytes\n", compressedSize)
	fmt.Printf("Compression ratio: %.2f:1\n", originalSize/compressedSize)

	if !compareZstd {
		return
	}
	zstdSize, err := zstdCompressedSize(pix)
	if err != nil {
		fmt.Fprintln(os.Stderr, "zstd comparison skipped:", err)
		return
	}
	fmt.Printf("zstd reference size: %d bytes (comparison only, not part of the .golz output)\n", zstdSize)
}

func zstdCompressedSize(raw []byte) (int, error) {
	var buf []byte
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	buf = enc.EncodeAll(raw, buf)
	return len(buf), nil
}
