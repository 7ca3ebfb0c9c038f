package sixel

const (
	dcsIntroducerByte = 0x90
	escByte           = 0x1b
	stByte            = 0x9c
)

// AspectRatio is a pixel aspect ratio pair; 1:1 (Pan == Pad) means square
// pixels.
type AspectRatio struct {
	Pan int
	Pad int
}

// DCSParams holds the up-to-16-parameter DCS parameter list, already split
// into the three SIXEL-relevant slots. Params not supplied by the stream
// stay nil.
type DCSParams struct {
	Aspect    *uint16 // P1
	ZeroColor *uint16 // P2
	GridSize  *uint16 // P3
}

// dcsEnvelope is the result of locating the introducer, parsing parameters,
// and locating the payload end.
type dcsEnvelope struct {
	params  DCSParams
	payload []byte
}

// parseDCSEnvelope locates the DCS introducer (0x90 or ESC P), extracts up
// to 16 semicolon-separated parameters terminated by 'q', and locates the
// payload end (0x9C or ESC \, stripped from the returned payload). Bytes
// before the introducer are ignored. If no introducer is found, the whole
// slice is treated as payload with no parameters.
func parseDCSEnvelope(data []byte) (*dcsEnvelope, error) {
	idx := 0
	for idx < len(data) {
		switch data[idx] {
		case dcsIntroducerByte:
			return parseDCSParams(data, idx+1)
		case escByte:
			if idx+1 < len(data) && data[idx+1] == 'P' {
				return parseDCSParams(data, idx+2)
			}
			idx++
		default:
			idx++
		}
	}
	return &dcsEnvelope{payload: data}, nil
}

func parseDCSParams(data []byte, start int) (*dcsEnvelope, error) {
	var params [16]uint16
	count := 0
	var current uint16
	hasDigit := false
	idx := start

	for idx < len(data) {
		b := data[idx]
		switch {
		case b >= '0' && b <= '9':
			current = saturatingMulAdd16(current, uint16(b-'0'))
			hasDigit = true
			idx++
		case b == ';':
			if count < len(params) {
				if hasDigit {
					params[count] = current
				} else {
					params[count] = 0
				}
				count++
			}
			current = 0
			hasDigit = false
			idx++
		case b == 'q':
			if count < len(params) && (hasDigit || count > 0) {
				if hasDigit {
					params[count] = current
				} else {
					params[count] = 0
				}
				count++
			}
			idx++
			goto paramsDone
		case b == escByte || b == stByte:
			return nil, newErr(KindInvalidData, "control byte embedded in DCS parameters")
		default:
			idx++
		}
	}
	// Ran off the end without a terminating 'q'.
	return nil, newErr(KindInvalidData, "DCS parameters not terminated by 'q'")

paramsDone:
	payloadStart := idx
	payloadEnd := len(data)
	cursor := payloadStart
	for cursor < len(data) {
		switch data[cursor] {
		case stByte:
			payloadEnd = cursor
			cursor = len(data)
		case escByte:
			if cursor+1 < len(data) && data[cursor+1] == '\\' {
				payloadEnd = cursor
				cursor = len(data)
			} else {
				cursor++
			}
		default:
			cursor++
		}
	}

	env := &dcsEnvelope{payload: data[payloadStart:payloadEnd]}
	if count > 0 {
		v := params[0]
		env.params.Aspect = &v
	}
	if count > 1 {
		v := params[1]
		env.params.ZeroColor = &v
	}
	if count > 2 {
		v := params[2]
		env.params.GridSize = &v
	}
	return env, nil
}

func saturatingMulAdd16(cur uint16, digit uint16) uint16 {
	const max16 = 0xFFFF
	v := uint32(cur)*10 + uint32(digit)
	if v > max16 {
		return max16
	}
	return uint16(v)
}

// computeAspectRatio derives the pixel aspect ratio from DCS parameters P1
// (aspect_ratio) and P3 (grid_size) using the DEC table. This is the single
// shared computation referenced in spec §9's first open question: both the
// returned SixelImage.AspectRatio and the interpreter's own raster-attribute
// handling read this same value, never a second diverging copy.
func computeAspectRatio(params DCSParams) AspectRatio {
	pan, pad := 2, 1
	if params.Aspect != nil {
		switch *params.Aspect {
		case 0, 1:
			pad = 2
		case 2:
			pad = 5
		case 3, 4:
			pad = 4
		case 5, 6:
			pad = 3
		case 7, 8:
			pad = 2
		case 9:
			pad = 1
		}
	}

	if params.GridSize != nil {
		grid := int(*params.GridSize)
		if grid == 0 {
			grid = 10
		}
		pan = maxInt(1, pan*grid/10)
		pad = maxInt(1, pad*grid/10)
	}

	return AspectRatio{Pan: pan, Pad: pad}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
