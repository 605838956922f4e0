package debug

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/webp"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 6, 7_000_000, time.UTC)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{" webp ", FormatWebP, false},
		{"jpeg", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	sc := NewScreenshotCapture("shots", "cube", FormatWebP)
	sc.now = fixedClock

	want := filepath.Join("shots", "cube_2024-03-09_14-05-06.007.webp")
	if got := sc.GenerateFilename(); got != want {
		t.Errorf("GenerateFilename = %q, want %q", got, want)
	}

	sc = NewScreenshotCapture("", "cube", FormatWebP)
	sc.now = fixedClock
	if got := sc.GenerateFilename(); got != "cube_2024-03-09_14-05-06.007.webp" {
		t.Errorf("GenerateFilename without dir = %q", got)
	}
}

func TestDefaultFormatIsPNG(t *testing.T) {
	sc := NewScreenshotCapture("", "x", "")
	if !strings.HasSuffix(sc.GenerateFilename(), ".png") {
		t.Errorf("expected .png suffix, got %s", sc.GenerateFilename())
	}
}

func TestCaptureFromPixelsPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sc := NewScreenshotCapture(dir, "shot", FormatPNG)

	// 1x2 buffer, bottom row first: blue bottom, red top, alpha zero
	pixels := []byte{
		0, 0, 255, 0,
		255, 0, 0, 0,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("top pixel = %v, want opaque red", got)
	}
	if got := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("bottom pixel = %v, want opaque blue", got)
	}
}

func TestCaptureFromPixelsErrors(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot", FormatPNG)
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := sc.CaptureFromPixels(nil, 0, 0); err == nil {
		t.Error("expected error for empty size")
	}
}

func TestEncodeWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatWebP); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("RIFF")) {
		t.Fatalf("expected RIFF container, got % x", buf.Bytes()[:4])
	}

	decoded, err := webp.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 4 {
		t.Errorf("decoded size %v, want 4x4", decoded.Bounds())
	}
}
