package sixel

import (
	"errors"
	"testing"
)

func TestDecodeEmptyPayload(t *testing.T) {
	img, err := Decode([]byte("\x1bPq\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 1 {
		t.Fatalf("size = %dx%d, want 1x1", img.Width, img.Height)
	}
	if len(img.Pixels) != 4 {
		t.Fatalf("pixel buffer length = %d, want 4", len(img.Pixels))
	}
}

func TestDecodeSinglePixel(t *testing.T) {
	img, err := Decode([]byte("\x1bPq#2;2;100;0;0~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 6 {
		t.Fatalf("size = %dx%d, want 1x6", img.Width, img.Height)
	}
	px := img.Pixels[0:4]
	if px[0] != 255 || px[1] != 0 || px[2] != 0 || px[3] != 255 {
		t.Fatalf("first pixel = %v, want red opaque", px)
	}
}

func TestDecodeRepeat(t *testing.T) {
	img, err := Decode([]byte("\x1bPq#0!5~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 5 || img.Height != 6 {
		t.Fatalf("size = %dx%d, want 5x6", img.Width, img.Height)
	}
}

func TestDecodeOverlayCarriageReturn(t *testing.T) {
	img, err := Decode([]byte("\x1bPq#0~~$~~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 2 || img.Height != 6 {
		t.Fatalf("size = %dx%d, want 2x6", img.Width, img.Height)
	}
}

func TestDecodeOverlayPreservesUnderlyingColor(t *testing.T) {
	// #2 (red) draws a full column '~', '$' returns to x=0 without
	// advancing the row, then #3 (green) draws only the bottom pixel '_'
	// (bits = '_'-'?' = 0b100000, bit 5 set => only row y+5).
	img, err := Decode([]byte("\x1bPq#2~$#3_\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Height < 6 {
		t.Fatalf("height = %d, want >= 6", img.Height)
	}
	top := img.Pixels[0:4]
	bottomRowStart := 5 * img.Width * 4
	bottom := img.Pixels[bottomRowStart : bottomRowStart+4]

	pal := NewPalette()
	red := pal.Get(2).RGBA()
	green := pal.Get(3).RGBA()

	if top[0] != red[0] || top[1] != red[1] || top[2] != red[2] {
		t.Errorf("top pixel = %v, want red %v", top, red)
	}
	if bottom[0] != green[0] || bottom[1] != green[1] || bottom[2] != green[2] {
		t.Errorf("bottom pixel = %v, want green %v", bottom, green)
	}
}

func TestDecodeRasterAttributesForceMinimumSize(t *testing.T) {
	img, err := Decode([]byte("\x1bPq\"1;1;10;20#0~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width < 10 || img.Height < 20 {
		t.Fatalf("size = %dx%d, want at least 10x20", img.Width, img.Height)
	}
}

func TestDecodeRasterAttributesClampPadPan(t *testing.T) {
	img, err := Decode([]byte("\x1bPq\"0;0;1;1#0~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width < 1 || img.AspectRatio.Pad != 1 || img.AspectRatio.Pan != 1 {
		t.Fatalf("expected width >= 1 and pad/pan clamped to 1, got width %d, aspect %+v", img.Width, img.AspectRatio)
	}
}

func TestDecodeRejectsOversizedRepeat(t *testing.T) {
	_, err := Decode([]byte("\x1bPq#0!65536~\x1b\\"))
	if err == nil {
		t.Fatal("expected an error for a repeat count > 0xFFFF")
	}
	var serr *Error
	if !errors.As(err, &serr) || serr.Kind != KindInvalidData {
		t.Fatalf("expected KindInvalidData, got %v", err)
	}
}

func TestDecodeTransparentBackground(t *testing.T) {
	img, err := Decode([]byte("\x1bP0;1;0q~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !img.HasTransparency {
		t.Error("expected HasTransparency to be true for P2=1")
	}
}

func TestDecodeLineFeedAdvancesBand(t *testing.T) {
	img, err := Decode([]byte("\x1bPq~-~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Height != 12 {
		t.Fatalf("height = %d, want 12", img.Height)
	}
}

func TestDecodeIgnoresWhitespaceBytes(t *testing.T) {
	img, err := Decode([]byte("\x1bPq\n\r\t\f~\x1b\\"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 6 {
		t.Fatalf("size = %dx%d, want 1x6", img.Width, img.Height)
	}
}

func TestDecodeNeverPanics(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0x1b},
		{0x1b, 'P'},
		{0x90},
		[]byte("\x1bPq"),
		[]byte("\x1bP999;999;999q"),
		[]byte("garbage before \x1bPq~\x1b\\ and after"),
		[]byte("\x1bPq#"),
		[]byte("\x1bPq\""),
		[]byte("\x1bPq!"),
		[]byte("\x1bPq-----------------------------"),
	}
	for i, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("input %d panicked: %v", i, r)
				}
			}()
			_, _ = Decode(in)
		}()
	}
}
