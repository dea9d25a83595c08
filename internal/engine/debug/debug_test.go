package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

func TestBoundsWireframe(t *testing.T) {
	b := mesh.Bounds{Min: math.Vec3{X: -1, Y: 0, Z: -2}, Max: math.Vec3{X: 1, Y: 3, Z: 2}}
	v := BoundsWireframe(b, 0.5)

	if len(v) != BBoxWireframeVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(v), BBoxWireframeVertexCount*3)
	}
	if v[0] != -1.5 || v[1] != -0.5 || v[2] != -2.5 {
		t.Errorf("first vertex = %v, want padded min", v[:3])
	}
	if v[3] != 1.5 {
		t.Errorf("second vertex x = %v, want 1.5", v[3])
	}
}

func TestPolyline(t *testing.T) {
	pts := []math.Vec3{{X: 0}, {X: 1}, {X: 1, Z: 1}}

	open := Polyline(pts, false, 0)
	if len(open) != 2*6 {
		t.Errorf("open len = %d, want 12", len(open))
	}
	closed := Polyline(pts, true, 0.1)
	if len(closed) != 3*6 {
		t.Fatalf("closed len = %d, want 18", len(closed))
	}
	// Last segment returns to the first point.
	if closed[15] != 0 || closed[17] != 0 {
		t.Errorf("closing segment ends at %v", closed[15:18])
	}
	if closed[1] != 0.1 {
		t.Errorf("lift not applied: y = %v", closed[1])
	}
	if Polyline(pts[:1], true, 0) != nil {
		t.Error("single point should yield nil")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	// 2x2: bottom row red, top row blue in OpenGL order.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}

	for _, format := range []string{"png", "bmp"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			sc := NewScreenshotCapture(filepath.Join(dir, "shots"), "fieldplot", format)

			path, err := sc.CaptureFromPixels(pixels, 2, 2)
			if err != nil {
				t.Fatalf("CaptureFromPixels() error = %v", err)
			}
			if !strings.HasSuffix(path, "."+format) {
				t.Errorf("path %q lacks .%s", path, format)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			decode := png.Decode
			if format == "bmp" {
				decode = bmp.Decode
			}
			img, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			// Flipped: image row 0 is the top (blue).
			r, _, b, _ := img.At(0, 0).RGBA()
			if b>>8 != 255 || r != 0 {
				t.Errorf("top-left = r%d b%d, want blue", r>>8, b>>8)
			}
		})
	}
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "x", "png")
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
}
