package sixel

import "fmt"

// Kind classifies the error taxonomy a codec call can return (spec §7).
type Kind int

const (
	// KindInvalidDimensions: width or height zero, or width*height exceeds caps.
	KindInvalidDimensions Kind = iota
	// KindBufferSizeMismatch: supplied pixel buffer length != width*height*4.
	KindBufferSizeMismatch
	// KindInvalidData: malformed DCS — bad introducer, embedded control byte
	// inside parameters, repeat overflow, or canvas growth beyond caps.
	KindInvalidData
	// KindNoSixelData: a framed decode found no DCS introducer at all.
	KindNoSixelData
	// KindQuantizationFailure: the quantizer could not produce a palette.
	KindQuantizationFailure
	// KindIntegerOverflow: checked arithmetic tripped, chiefly cursor increments.
	KindIntegerOverflow
)

func (k Kind) String() string {
	switch k {
	case KindInvalidDimensions:
		return "invalid dimensions"
	case KindBufferSizeMismatch:
		return "buffer size mismatch"
	case KindInvalidData:
		return "invalid data"
	case KindNoSixelData:
		return "no sixel data"
	case KindQuantizationFailure:
		return "quantization failure"
	case KindIntegerOverflow:
		return "integer overflow"
	default:
		return "unknown sixel error"
	}
}

// Error is the error type returned by every exported function in this
// package. Msg carries additional context; Err optionally wraps an
// underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, sixel.ErrInvalidData) against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Sentinel errors for errors.Is comparisons. Only Kind is significant for
// matching; Msg/Err are ignored by Is.
var (
	ErrInvalidDimensions   = &Error{Kind: KindInvalidDimensions}
	ErrBufferSizeMismatch  = &Error{Kind: KindBufferSizeMismatch}
	ErrInvalidData         = &Error{Kind: KindInvalidData}
	ErrNoSixelData         = &Error{Kind: KindNoSixelData}
	ErrQuantizationFailure = &Error{Kind: KindQuantizationFailure}
	ErrIntegerOverflow     = &Error{Kind: KindIntegerOverflow}
)
