package capture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/tinyrange/glbatch/internal/gowin/gl/gltest"
)

// gradientDevice reports an opaque framebuffer whose red channel is the
// column and green channel is the GL row (counted from the bottom).
func gradientDevice() *gltest.Device {
	dev := gltest.New()
	dev.Pixel = func(x, y int) [4]byte {
		return [4]byte{byte(x * 10), byte(y * 10), 200, 255}
	}
	return dev
}

func TestGrabFlipsRows(t *testing.T) {
	dev := gradientDevice()
	img, err := Grab(dev, 4, 3)
	if err != nil {
		t.Fatalf("Grab failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	// Top row of the image is the last GL row.
	if got := img.RGBAAt(1, 0); got != (color.RGBA{10, 20, 200, 255}) {
		t.Errorf("top-left+1 = %v", got)
	}
	if got := img.RGBAAt(3, 2); got != (color.RGBA{30, 0, 200, 255}) {
		t.Errorf("bottom-right = %v", got)
	}
	if dev.Count("PixelStorei") != 1 || dev.Count("ReadPixels") != 1 {
		t.Errorf("calls = %v", dev.Calls)
	}
}

func TestGrabInvalidSize(t *testing.T) {
	if _, err := Grab(gltest.New(), 0, 10); err == nil {
		t.Fatal("zero width accepted")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"shot.png":         PNG,
		"out/Frame.WEBP":   WebP,
		"a.tga":            TGA,
		"/tmp/capture.bmp": BMP,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("shot.jpg"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("jpg error = %v, want ErrUnknownFormat", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	decoders := map[string]func(*os.File) (image.Image, error){
		"png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"webp": func(f *os.File) (image.Image, error) { return webp.Decode(f) },
		"tga":  func(f *os.File) (image.Image, error) { return tga.Decode(f) },
		"bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	dir := t.TempDir()
	for ext, decode := range decoders {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "nested", "frame."+ext)
			if err := Save(gradientDevice(), 5, 4, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer f.Close()

			img, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 4 {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			origin := img.Bounds().Min
			got := color.NRGBAModel.Convert(img.At(origin.X+2, origin.Y)).(color.NRGBA)
			if got != (color.NRGBA{20, 30, 200, 255}) {
				t.Errorf("pixel (2,0) = %v", got)
			}
		})
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.gif")
	if err := Save(gradientDevice(), 2, 2, path); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Save error = %v, want ErrUnknownFormat", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file created for unknown format: %v", err)
	}
}
