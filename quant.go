package sixel

import (
	"image"
	"image/color"
	"sort"

	"github.com/soniakeys/quant/median"
)

// opaqueAlphaThreshold matches the threshold the original encoder used to
// decide which pixels participate in quantization and the opacity mask
// (alpha >= 128 is opaque).
const opaqueAlphaThreshold = 128

// QuantizeMethod selects the palette-reduction algorithm (spec §4.6, §6.2).
type QuantizeMethod int

const (
	// QuantizeWu performs a box cut over the opaque samples in the style of
	// Wu's method: the most populous box is split at the median of its
	// longest axis. Per-box variance is not computed.
	QuantizeWu QuantizeMethod = iota
	// QuantizeMedianCut delegates histogram partitioning to
	// github.com/soniakeys/quant/median, the median-cut quantizer also used
	// by the sibling sixel encoder in the retrieval pack.
	QuantizeMedianCut
)

// QuantizeOptions configures Quantize.
type QuantizeOptions struct {
	MaxColors      int // clamped to [2, 256]
	DitherStrength float64 // clamped to [0, 1]; 0 disables dithering
	Method         QuantizeMethod
}

// QuantizedImage is the quantizer's output: a reduced palette, a parallel
// per-pixel index array (full W*H length; transparent-pixel indices are
// arbitrary but present), and the opacity mask that was used to build the
// histogram.
type QuantizedImage struct {
	Palette []Color
	Indices []uint8
	Opaque  []bool
}

// Quantize reduces rgba (W*H*4 bytes) to at most opts.MaxColors palette
// entries, ignoring transparent pixels when building the color histogram,
// and writes a parallel index array for every pixel. If opts.DitherStrength
// is nonzero, Floyd-Steinberg error diffusion with weights (7,3,5,1)/16,
// scaled by the strength, is applied during index assignment.
func Quantize(rgba []byte, width, height int, opts QuantizeOptions) (*QuantizedImage, error) {
	if width <= 0 || height <= 0 {
		return nil, newErr(KindInvalidDimensions, "width and height must be > 0")
	}
	if len(rgba) != width*height*4 {
		return nil, newErr(KindBufferSizeMismatch, "rgba buffer length must equal width*height*4")
	}

	maxColors := opts.MaxColors
	if maxColors < 2 {
		maxColors = 2
	}
	if maxColors > PaletteSize {
		maxColors = PaletteSize
	}
	strength := opts.DitherStrength
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}

	n := width * height
	opaque := make([]bool, n)
	var samples []Color
	for i := 0; i < n; i++ {
		a := rgba[i*4+3]
		if a >= opaqueAlphaThreshold {
			opaque[i] = true
			samples = append(samples, Color{R: rgba[i*4], G: rgba[i*4+1], B: rgba[i*4+2]})
		}
	}

	if len(samples) == 0 {
		// Nothing opaque to quantize; a single-entry palette keeps the
		// emitter's per-pixel lookups well-defined.
		return &QuantizedImage{
			Palette: []Color{{}},
			Indices: make([]uint8, n),
			Opaque:  opaque,
		}, nil
	}

	var palette []Color
	var err error
	switch opts.Method {
	case QuantizeMedianCut:
		palette, err = medianCutPalette(samples, maxColors)
	default:
		palette = wuPalette(samples, maxColors)
	}
	if err != nil {
		return nil, err
	}
	if len(palette) == 0 {
		return nil, newErr(KindQuantizationFailure, "quantizer produced an empty palette")
	}

	indices := assignIndices(rgba, width, height, opaque, palette, strength)

	return &QuantizedImage{Palette: palette, Indices: indices, Opaque: opaque}, nil
}

// medianCutPalette wires github.com/soniakeys/quant/median: it builds its
// own histogram and does the box-cut partitioning, we only need the
// resulting representative colors.
func medianCutPalette(samples []Color, maxColors int) ([]Color, error) {
	img := image.NewNRGBA(image.Rect(0, 0, len(samples), 1))
	for i, c := range samples {
		img.SetNRGBA(i, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
	}

	q := median.Quantizer(maxColors)
	paletted := q.Paletted(img)

	out := make([]Color, 0, len(paletted.Palette))
	for _, c := range paletted.Palette {
		r, g, b, _ := c.RGBA()
		out = append(out, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
	}
	if len(out) == 0 {
		return nil, newErr(KindQuantizationFailure, "median-cut quantizer returned no colors")
	}
	return out, nil
}

// colorBox is one partition in the Wu-style box cut: a
// contiguous slice of samples plus its per-channel bounding box.
type colorBox struct {
	samples  []Color
	rMin, rMax int
	gMin, gMax int
	bMin, bMax int
}

func newColorBox(samples []Color) colorBox {
	b := colorBox{samples: samples, rMin: 256, gMin: 256, bMin: 256}
	for _, c := range samples {
		b.rMin, b.rMax = minInt(b.rMin, int(c.R)), maxInt(b.rMax, int(c.R))
		b.gMin, b.gMax = minInt(b.gMin, int(c.G)), maxInt(b.gMax, int(c.G))
		b.bMin, b.bMax = minInt(b.bMin, int(c.B)), maxInt(b.bMax, int(c.B))
	}
	return b
}

// longestAxis returns 0/1/2 for R/G/B, whichever has the widest range.
func (b colorBox) longestAxis() int {
	rSpan := b.rMax - b.rMin
	gSpan := b.gMax - b.gMin
	bSpan := b.bMax - b.bMin
	switch {
	case rSpan >= gSpan && rSpan >= bSpan:
		return 0
	case gSpan >= bSpan:
		return 1
	default:
		return 2
	}
}

func (b colorBox) average() Color {
	var sr, sg, sb int
	for _, c := range b.samples {
		sr += int(c.R)
		sg += int(c.G)
		sb += int(c.B)
	}
	n := len(b.samples)
	if n == 0 {
		return Color{}
	}
	return Color{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n)}
}

// wuPalette partitions the opaque-pixel histogram into maxColors boxes by
// repeatedly splitting the box with the most samples along its longest
// axis at the median, then averaging each final box — a variance-reducing
// box cut in the spirit of Wu's method (spec §4.6 step 2).
func wuPalette(samples []Color, maxColors int) []Color {
	boxes := []colorBox{newColorBox(samples)}

	for len(boxes) < maxColors {
		splitIdx := -1
		splitSize := 0
		for i, b := range boxes {
			if len(b.samples) > 1 && len(b.samples) > splitSize {
				splitIdx = i
				splitSize = len(b.samples)
			}
		}
		if splitIdx < 0 {
			break
		}

		b := boxes[splitIdx]
		axis := b.longestAxis()
		sorted := append([]Color(nil), b.samples...)
		sort.Slice(sorted, func(i, j int) bool {
			return channelOf(sorted[i], axis) < channelOf(sorted[j], axis)
		})
		mid := len(sorted) / 2

		boxes[splitIdx] = newColorBox(sorted[:mid])
		boxes = append(boxes, newColorBox(sorted[mid:]))
	}

	out := make([]Color, 0, len(boxes))
	for _, b := range boxes {
		if len(b.samples) > 0 {
			out = append(out, b.average())
		}
	}
	return out
}

func channelOf(c Color, axis int) int {
	switch axis {
	case 0:
		return int(c.R)
	case 1:
		return int(c.G)
	default:
		return int(c.B)
	}
}

// assignIndices walks every pixel in scan order, finds the nearest palette
// entry by squared distance, writes its index, and — if strength > 0 —
// diffuses the quantization residual to unprocessed neighbors with
// Floyd-Steinberg weights (7,3,5,1)/16 scaled by strength (spec §4.6 step 3).
func assignIndices(rgba []byte, width, height int, opaque []bool, palette []Color, strength float64) []uint8 {
	indices := make([]uint8, width*height)
	dither := strength > 0

	var errR, errG, errB []float64
	if dither {
		errR = make([]float64, width*height)
		errG = make([]float64, width*height)
		errB = make([]float64, width*height)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !opaque[i] {
				continue
			}

			r := float64(rgba[i*4+0])
			g := float64(rgba[i*4+1])
			b := float64(rgba[i*4+2])
			if dither {
				r += errR[i]
				g += errG[i]
				b += errB[i]
			}

			best, bestIdx := nearestPaletteIndex(palette, r, g, b)
			indices[i] = uint8(bestIdx)

			if !dither {
				continue
			}

			dr := (r - float64(best.R)) * strength
			dg := (g - float64(best.G)) * strength
			db := (b - float64(best.B)) * strength

			diffuse := func(dx, dy int, weight float64) {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					return
				}
				j := ny*width + nx
				if !opaque[j] {
					return
				}
				errR[j] += dr * weight
				errG[j] += dg * weight
				errB[j] += db * weight
			}
			diffuse(1, 0, 7.0/16.0)
			diffuse(-1, 1, 3.0/16.0)
			diffuse(0, 1, 5.0/16.0)
			diffuse(1, 1, 1.0/16.0)
		}
	}

	return indices
}

func nearestPaletteIndex(palette []Color, r, g, b float64) (Color, int) {
	bestIdx := 0
	bestDist := -1.0
	for i, c := range palette {
		dr := r - float64(c.R)
		dg := g - float64(c.G)
		db := b - float64(c.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	return palette[bestIdx], bestIdx
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
