package sixel

import "testing"

func solidRGBA(w, h int, r, g, b, a uint8) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4+0] = r
		buf[i*4+1] = g
		buf[i*4+2] = b
		buf[i*4+3] = a
	}
	return buf
}

func TestQuantizeRejectsBadDimensions(t *testing.T) {
	_, err := Quantize(nil, 0, 4, QuantizeOptions{MaxColors: 16})
	if err == nil {
		t.Fatal("expected an error for zero width")
	}
}

func TestQuantizeRejectsBufferMismatch(t *testing.T) {
	buf := make([]byte, 10)
	_, err := Quantize(buf, 4, 4, QuantizeOptions{MaxColors: 16})
	if err == nil {
		t.Fatal("expected an error for a buffer/size mismatch")
	}
}

func TestQuantizeAllTransparentStillReturnsIndices(t *testing.T) {
	buf := solidRGBA(2, 2, 10, 20, 30, 0)
	q, err := Quantize(buf, 2, 2, QuantizeOptions{MaxColors: 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Indices) != 4 {
		t.Fatalf("indices length = %d, want 4", len(q.Indices))
	}
	for _, o := range q.Opaque {
		if o {
			t.Error("expected no opaque pixels")
		}
	}
}

func TestQuantizeConstantColorWu(t *testing.T) {
	buf := solidRGBA(8, 8, 200, 20, 20, 255)
	q, err := Quantize(buf, 8, 8, QuantizeOptions{MaxColors: 16, Method: QuantizeWu})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Palette) == 0 {
		t.Fatal("expected a nonempty palette")
	}
	c := q.Palette[q.Indices[0]]
	if absInt(int(c.R)-200) > 2 || absInt(int(c.G)-20) > 2 || absInt(int(c.B)-20) > 2 {
		t.Errorf("quantized constant color = %+v, want close to {200 20 20}", c)
	}
}

func TestQuantizeConstantColorMedianCut(t *testing.T) {
	buf := solidRGBA(8, 8, 20, 200, 20, 255)
	q, err := Quantize(buf, 8, 8, QuantizeOptions{MaxColors: 16, Method: QuantizeMedianCut})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := q.Palette[q.Indices[0]]
	if absInt(int(c.G)-200) > 4 {
		t.Errorf("quantized constant color = %+v, want G close to 200", c)
	}
}

func TestQuantizeClampsMaxColors(t *testing.T) {
	buf := solidRGBA(4, 4, 1, 2, 3, 255)
	q, err := Quantize(buf, 4, 4, QuantizeOptions{MaxColors: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Palette) > PaletteSize {
		t.Errorf("palette size %d exceeds cap %d", len(q.Palette), PaletteSize)
	}
}

func TestQuantizeDitherStaysInBounds(t *testing.T) {
	// A gradient that forces error diffusion to run for many pixels.
	w, h := 16, 16
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			buf[i+0] = uint8(x * 16)
			buf[i+1] = uint8(y * 16)
			buf[i+2] = 128
			buf[i+3] = 255
		}
	}
	q, err := Quantize(buf, w, h, QuantizeOptions{MaxColors: 8, DitherStrength: 1.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, idx := range q.Indices {
		if int(idx) >= len(q.Palette) {
			t.Fatalf("index %d out of range for palette of size %d", idx, len(q.Palette))
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
