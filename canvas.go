package sixel

// sixelWidthLimit and sixelHeightLimit bound a single dimension; maxPixels
// bounds the product, so a hostile raster-attribute declaration or a cursor
// driven far off-screen cannot exhaust memory (spec §3, §5).
const (
	sixelWidthLimit  = 1_000_000
	sixelHeightLimit = 1_000_000
	maxPixels        = 64 * 1024 * 1024
)

// Canvas is a row-major RGBA raster that grows on demand. Any byte not yet
// written by the interpreter holds the background color captured at the
// time its region was allocated.
type Canvas struct {
	data   []byte
	width  int
	height int
}

// NewCanvas returns a 1x1 canvas filled with background.
func NewCanvas(background [4]byte) *Canvas {
	data := make([]byte, 4)
	copy(data, background[:])
	return &Canvas{data: data, width: 1, height: 1}
}

// Width reports the current canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height reports the current canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Data returns the raw RGBA byte buffer, len(data) == width*height*4.
func (c *Canvas) Data() []byte { return c.data }

// EnsureVisible grows the canvas to at least w x h, preserving existing
// pixels, filling newly exposed rows and the right margin with background.
// Growth is monotone in both axes: EnsureVisible never shrinks. It fails if
// w*h would exceed the pixel cap.
func (c *Canvas) EnsureVisible(w, h int, background [4]byte) error {
	if w > sixelWidthLimit || h > sixelHeightLimit {
		return newErr(KindInvalidData, "canvas dimensions exceed per-axis limit")
	}
	if w <= c.width && h <= c.height {
		return nil
	}

	newWidth := w
	if newWidth < c.width {
		newWidth = c.width
	}
	newHeight := h
	if newHeight < c.height {
		newHeight = c.height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	if newWidth*newHeight > maxPixels {
		return newErr(KindInvalidData, "canvas would exceed the 64-megapixel cap")
	}

	newData := make([]byte, newWidth*newHeight*4)
	for row := 0; row < c.height; row++ {
		srcStart := row * c.width * 4
		srcEnd := srcStart + c.width*4
		dstStart := row * newWidth * 4
		copy(newData[dstStart:dstStart+c.width*4], c.data[srcStart:srcEnd])
		if newWidth > c.width {
			fillSpan(newData[dstStart+c.width*4:dstStart+newWidth*4], background)
		}
	}
	for row := c.height; row < newHeight; row++ {
		dstStart := row * newWidth * 4
		fillSpan(newData[dstStart:dstStart+newWidth*4], background)
	}

	c.data = newData
	c.width = newWidth
	c.height = newHeight
	return nil
}

// PaintSpan writes color across len consecutive pixels starting at (x, y),
// clipped to the current canvas bounds. A zero-bit row is never cleared by
// this call — callers that want overlay semantics simply don't call
// PaintSpan for rows whose bit is unset.
func (c *Canvas) PaintSpan(y, x, length int, color [4]byte) {
	if length <= 0 || y < 0 || y >= c.height || x < 0 || x >= c.width {
		return
	}
	available := c.width - x
	if length > available {
		length = available
	}
	start := (y*c.width + x) * 4
	if length == 1 {
		copy(c.data[start:start+4], color[:])
		return
	}
	fillSpan(c.data[start:start+length*4], color)
}
