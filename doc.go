// Package sixel implements a SIXEL graphics codec: decoding the Device
// Control String (DCS) format emitted by DEC-lineage terminals into an RGBA
// raster, and encoding an RGBA raster into a compliant SIXEL DCS byte
// stream.
//
// # Decoding
//
//	img, err := sixel.Decode(data)
//	if err != nil {
//	    // malformed DCS, oversized raster, or integer overflow
//	}
//	fmt.Println(img.Width, img.Height, img.HasTransparency)
//
// Decode accepts a full ANSI byte stream: stray bytes before the DCS
// introducer (ESC P or 0x90) are ignored, and the string terminator
// (ESC \ or 0x9C) is located automatically. DecodeDCS skips introducer
// lookup when the caller has already split the parameters from the payload.
//
// # Encoding
//
//	out, err := sixel.Encode(rgba, width, height, sixel.EncodeOptions{
//	    MaxColors: 256,
//	})
//
// Encode quantizes the input to at most MaxColors palette entries
// (optionally dithered with Floyd-Steinberg error diffusion), then emits a
// complete DCS sequence: ESC P ... palette definitions ... sixel bands ...
// ESC \.
//
// # Concurrency
//
// Decode and Encode are pure functions of their input: every call allocates
// its own palette, canvas, and cursor state and returns or discards them at
// the call boundary. Concurrent calls from different goroutines never share
// mutable state.
//
// # Scope
//
// This package implements only the codec core. Terminal handshakes, file
// I/O, and display are handled by callers; see cmd/sixel for a thin
// encode/decode command-line front-end built on top of this package.
package sixel
