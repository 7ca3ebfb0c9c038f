package sixel

const (
	bandHeight = 6
	maxRepeat  = 0xFFFF
)

// SixelImage is the decoder's output: a fully materialized RGBA raster plus
// the metadata recovered from the DCS envelope.
type SixelImage struct {
	Pixels          []byte // RGBA, len == Width*Height*4
	Width           int
	Height          int
	AspectRatio     AspectRatio
	HasTransparency bool
}

// interpreter drives a Canvas and Palette from SIXEL payload tokens. Every
// byte may mutate cursor position, palette contents, or canvas geometry.
type interpreter struct {
	canvas *Canvas
	pal    *Palette

	x, y       int
	repeat     int
	colorIndex int
	current    [4]byte

	targetWidth  int
	targetHeight int

	backgroundIndex int
	transparentMode bool

	maxX, maxY int
	touchedAny bool

	aspect AspectRatio
}

func newInterpreter(params DCSParams) *interpreter {
	pal := NewPalette()
	backgroundIndex := 0
	transparent := params.ZeroColor != nil && *params.ZeroColor == 1

	in := &interpreter{
		canvas:          nil,
		pal:             pal,
		repeat:          1,
		colorIndex:      0,
		backgroundIndex: backgroundIndex,
		transparentMode: transparent,
		aspect:          computeAspectRatio(params),
	}
	in.current = pal.Get(0).RGBA()

	bg := in.backgroundRGBA()
	in.canvas = NewCanvas(bg)
	return in
}

func (in *interpreter) backgroundRGBA() [4]byte {
	if in.transparentMode {
		return [4]byte{0, 0, 0, 0}
	}
	return in.pal.Get(in.backgroundIndex).RGBA()
}

// process walks the payload byte by byte, dispatching per spec §4.5.
func (in *interpreter) process(data []byte) error {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == '\n' || b == '\r' || b == '\t' || b == '\f':
			i++
		case b == '$':
			in.x = 0
			i++
		case b == '-':
			in.x = 0
			newY := in.y + bandHeight
			if newY < in.y {
				return newErr(KindIntegerOverflow, "cursor y overflow on line feed")
			}
			in.y = newY
			i++
		case b == '!':
			n, consumed := readNumber(data, i+1)
			if n > maxRepeat {
				return newErr(KindInvalidData, "repeat count exceeds 0xFFFF")
			}
			if n == 0 {
				n = 1
			}
			in.repeat = n
			i += 1 + consumed
		case b == '#':
			consumed, err := in.handleColorCommand(data, i+1)
			if err != nil {
				return err
			}
			i += 1 + consumed
		case b == '"':
			consumed, err := in.handleRasterCommand(data, i+1)
			if err != nil {
				return err
			}
			i += 1 + consumed
		case b >= '?' && b <= '~':
			if err := in.handleSixel(b); err != nil {
				return err
			}
			i++
		case b == escByte || b == stByte:
			i = len(data)
		default:
			i++
		}
	}
	return nil
}

func (in *interpreter) handleSixel(ch byte) error {
	bits := ch - '?'
	span := in.repeat
	if span < 1 {
		span = 1
	}
	in.repeat = 1

	widthNeeded := in.x + span
	heightNeeded := in.y + bandHeight
	if widthNeeded > sixelWidthLimit || heightNeeded > sixelHeightLimit {
		return newErr(KindInvalidData, "sixel column exceeds per-axis limit")
	}

	if err := in.canvas.EnsureVisible(widthNeeded, heightNeeded, in.backgroundRGBA()); err != nil {
		return err
	}

	color := in.current
	touched := false
	for bit := 0; bit < bandHeight; bit++ {
		if bits&(1<<uint(bit)) != 0 {
			in.canvas.PaintSpan(in.y+bit, in.x, span, color)
			touched = true
		}
	}

	if span > 0 {
		lastX := in.x + span - 1
		if lastX > in.maxX {
			in.maxX = lastX
		}
	}
	if touched {
		lastY := in.y + bandHeight - 1
		if lastY > in.maxY {
			in.maxY = lastY
		}
		in.touchedAny = true
	}

	in.x = widthNeeded
	return nil
}

// handleColorCommand parses '#' <index> [';' <space> ';' <p1> ';' <p2> ';' <p3>].
func (in *interpreter) handleColorCommand(data []byte, start int) (int, error) {
	var storage [5]int
	consumed, count := collectParams(data, start, storage[:])
	params := storage[:count]

	if count == 0 {
		in.colorIndex = 0
		in.current = in.pal.Get(0).RGBA()
		return consumed, nil
	}

	idx := params[0]
	if idx < 0 {
		idx = 0
	}
	if idx >= PaletteSize {
		idx = PaletteSize - 1
	}
	in.colorIndex = idx
	in.current = in.pal.Get(idx).RGBA()

	if count >= 5 {
		switch params[1] {
		case 1:
			in.pal.SetHLS(idx, params[2], params[3], params[4])
			in.current = in.pal.Get(idx).RGBA()
		case 2:
			in.pal.SetRGBPercent(idx, params[2], params[3], params[4])
			in.current = in.pal.Get(idx).RGBA()
		}
	}

	return consumed, nil
}

// handleRasterCommand parses '"' <pad> ';' <pan> ';' <ph> ';' <pv>.
func (in *interpreter) handleRasterCommand(data []byte, start int) (int, error) {
	var storage [4]int
	consumed, count := collectParams(data, start, storage[:])

	if count > 0 {
		pad := storage[0]
		if pad < 1 {
			pad = 1
		}
		in.aspect.Pad = pad
	}
	if count > 1 {
		pan := storage[1]
		if pan < 1 {
			pan = 1
		}
		in.aspect.Pan = pan
	}
	if count > 2 && storage[2] > 0 {
		in.targetWidth = storage[2]
	}
	if count > 3 && storage[3] > 0 {
		in.targetHeight = storage[3]
	}

	if in.targetWidth > 0 || in.targetHeight > 0 {
		w := maxInt(in.targetWidth, 1)
		h := maxInt(in.targetHeight, 1)
		if w > sixelWidthLimit || h > sixelHeightLimit {
			return consumed, newErr(KindInvalidData, "raster attributes exceed per-axis limit")
		}
		if err := in.canvas.EnsureVisible(w, h, in.backgroundRGBA()); err != nil {
			return consumed, err
		}
	}

	return consumed, nil
}

func (in *interpreter) finalize() (*SixelImage, error) {
	width := in.maxX + 1
	height := in.maxY + 1
	if !in.touchedAny {
		width = 0
		height = 0
	}

	desiredWidth := maxInt(width, maxInt(in.targetWidth, 1))
	desiredHeight := maxInt(height, maxInt(in.targetHeight, 1))
	if desiredWidth < 1 {
		desiredWidth = 1
	}
	if desiredHeight < 1 {
		desiredHeight = 1
	}
	if desiredWidth > sixelWidthLimit || desiredHeight > sixelHeightLimit {
		return nil, newErr(KindInvalidData, "final canvas size exceeds per-axis limit")
	}

	if err := in.canvas.EnsureVisible(desiredWidth, desiredHeight, in.backgroundRGBA()); err != nil {
		return nil, err
	}

	return &SixelImage{
		Pixels:          in.canvas.Data(),
		Width:           in.canvas.Width(),
		Height:          in.canvas.Height(),
		AspectRatio:     in.aspect,
		HasTransparency: in.transparentMode,
	}, nil
}

// readNumber parses a run of decimal digits starting at start, saturating
// at maxSaturating (1<<30), and returns (value, bytesConsumed).
func readNumber(data []byte, start int) (int, int) {
	idx := start
	value := 0
	consumed := 0
	for idx < len(data) && data[idx] >= '0' && data[idx] <= '9' {
		value = saturatingMulAdd(value, int(data[idx]-'0'))
		idx++
		consumed++
	}
	return value, consumed
}

const maxSaturating = 1 << 30

func saturatingMulAdd(cur, digit int) int {
	if cur > maxSaturating {
		return cur
	}
	v := cur*10 + digit
	if v < 0 || v > maxSaturating {
		return maxSaturating
	}
	return v
}

// collectParams parses up to len(storage) semicolon-separated decimal
// parameters starting at start, stopping at the first byte that is neither
// a digit nor ';'. Returns (bytesConsumed, paramsWritten).
func collectParams(data []byte, start int, storage []int) (int, int) {
	idx := start
	consumed := 0
	written := 0
	current := 0
	hasDigit := false
	lastWasSeparator := false

loop:
	for idx < len(data) {
		b := data[idx]
		switch {
		case b >= '0' && b <= '9':
			current = saturatingMulAdd(current, int(b-'0'))
			hasDigit = true
			lastWasSeparator = false
			idx++
			consumed++
		case b == ';':
			if written < len(storage) {
				if hasDigit {
					storage[written] = current
				} else {
					storage[written] = 0
				}
				written++
			}
			current = 0
			hasDigit = false
			lastWasSeparator = true
			idx++
			consumed++
		default:
			break loop
		}
	}

	if hasDigit || lastWasSeparator {
		if written < len(storage) {
			if hasDigit {
				storage[written] = current
			} else {
				storage[written] = 0
			}
			written++
		}
	}

	return consumed, written
}
