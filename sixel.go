package sixel

// Decode parses a full ANSI byte stream containing a SIXEL DCS sequence:
// stray bytes before the introducer (ESC P or 0x90) are ignored, DCS
// parameters P1/P2/P3 are extracted, and the string terminator (ESC \ or
// 0x9C) is located automatically. If no introducer is found, the whole
// input is treated as a parameterless SIXEL payload.
//
// Decode never panics: any malformed input, oversized raster, or integer
// overflow is reported as an *Error, and no partial pixels are returned on
// error (spec §7, §8).
func Decode(data []byte) (*SixelImage, error) {
	env, err := parseDCSEnvelope(data)
	if err != nil {
		return nil, err
	}
	return DecodeDCS(env.params, env.payload)
}

// DecodeDCS decodes a SIXEL payload when the caller has already parsed the
// DCS parameters (P1/P2/P3) from the envelope, e.g. because it owns its own
// terminal-stream framing.
func DecodeDCS(params DCSParams, payload []byte) (*SixelImage, error) {
	in := newInterpreter(params)
	if err := in.process(payload); err != nil {
		return nil, err
	}
	return in.finalize()
}
