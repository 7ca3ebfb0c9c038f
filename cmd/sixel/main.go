// Command sixel encodes images to SIXEL and decodes SIXEL streams back to
// PNG, a thin front-end over the github.com/danielgatis/go-sixel codec.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	sixel "github.com/danielgatis/go-sixel"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func main() {
	if len(os.Args) < 2 {
		emitUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "-h", "--help", "help":
		emitUsage(os.Stdout)
		return
	default:
		emitUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "sixel: %v\n", err)
		os.Exit(1)
	}
}

func emitUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: sixel encode [-o output.six] [options] <input>")
	fmt.Fprintln(out, "       sixel decode [-o output.png] <input.six>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "encode reads a PNG, GIF, JPEG, BMP, TIFF, or WebP image and writes a SIXEL DCS stream.")
	fmt.Fprintln(out, "decode reads a SIXEL DCS stream and writes a PNG image.")
	fmt.Fprintln(out, "Use - as the input path to read from stdin.")
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: stdout)")
	colors := fs.Int("colors", 256, "maximum palette size (2-256)")
	dither := fs.Float64("dither", 1.0, "Floyd-Steinberg dither strength [0,1]")
	method := fs.String("method", "wu", "quantization method: wu or median")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("encode requires exactly one input path")
	}

	img, err := readImage(fs.Arg(0))
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := make([]byte, width*height*4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			rgba[i+0] = byte(r >> 8)
			rgba[i+1] = byte(g >> 8)
			rgba[i+2] = byte(b >> 8)
			rgba[i+3] = byte(a >> 8)
			i += 4
		}
	}

	m := sixel.QuantizeWu
	if strings.EqualFold(*method, "median") {
		m = sixel.QuantizeMedianCut
	}

	out, err := sixel.Encode(rgba, width, height, sixel.EncodeOptions{
		MaxColors:      *colors,
		DitherStrength: *dither,
		Method:         m,
	})
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return writeOutput(*output, []byte(out))
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	output := fs.String("o", "", "output PNG file (default: derived from input, or stdout for stdin input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("decode requires exactly one input path")
	}

	inputPath := fs.Arg(0)
	data, err := readInput(inputPath)
	if err != nil {
		return err
	}

	img, err := sixel.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pixels)

	outputPath := *output
	if outputPath == "" && inputPath != "-" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".png"
	}

	if outputPath == "" {
		return png.Encode(os.Stdout, out)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", outputPath, err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Decoded: %dx%d pixels -> %q\n", img.Width, img.Height, outputPath)
	return nil
}

func readImage(path string) (image.Image, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image %q: %w", path, err)
	}
	return img, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	return f, nil
}

func readInput(path string) ([]byte, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Written %d bytes to %q\n", len(data), path)
	return nil
}
