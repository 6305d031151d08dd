package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/quizit-app/quizit-tools/internal/log"
)

// gradientImage produces a smooth, highly compressible test image.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(x * 255 / w)
			img.Pix[i+1] = uint8(y * 255 / h)
			img.Pix[i+2] = uint8((x + y) * 255 / (w + h))
			img.Pix[i+3] = 255
		}
	}
	return img
}

// noiseImage produces an incompressible test image.
func noiseImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	return img
}

func mustEncoder(t *testing.T, targetKB, maxDim int) *Encoder {
	t.Helper()
	e, err := NewEncoder(targetKB, maxDim, log.NewNop())
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	return e
}

func TestNewEncoder_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewEncoder(0, 1600, log.NewNop()); err == nil {
		t.Error("NewEncoder(0, ...) = nil error, want error")
	}
	if _, err := NewEncoder(50, 0, log.NewNop()); err == nil {
		t.Error("NewEncoder(..., 0) = nil error, want error")
	}
	if _, err := NewEncoder(50, 1600, nil); err != nil {
		t.Errorf("nil logger should fall back to default, got %v", err)
	}
}

func TestReencode_SmallImageNoDownscale(t *testing.T) {
	t.Parallel()

	// 200x150 is already within bounds and trivially under 50KB at q95.
	enc := mustEncoder(t, 50, 1600)
	res, err := enc.Reencode(pngBytes(t, gradientImage(200, 150)))
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}

	if res.Scale != 1.0 {
		t.Errorf("Scale = %v, want 1.0 (no downscale)", res.Scale)
	}
	if res.SizeKB > 50 {
		t.Errorf("SizeKB = %.1f, want <= 50", res.SizeKB)
	}
	if res.MIME != MIMEJPEG {
		t.Errorf("MIME = %q, want %q", res.MIME, MIMEJPEG)
	}
	out := decodeJPEG(t, res.Data)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 150 {
		t.Errorf("output dims = %v, want 200x150", out.Bounds())
	}
}

func TestReencode_LargeImageScenario(t *testing.T) {
	t.Parallel()

	// 4000x3000 source, 50KB budget, 1600px bound.
	enc := mustEncoder(t, 50, 1600)
	res, err := enc.Reencode(pngBytes(t, gradientImage(4000, 3000)))
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}

	out := decodeJPEG(t, res.Data)
	if longer := max(out.Bounds().Dx(), out.Bounds().Dy()); longer > 1600 {
		t.Errorf("longer side = %d, want <= 1600", longer)
	}
	if res.MIME != MIMEJPEG {
		t.Errorf("MIME = %q, want %q", res.MIME, MIMEJPEG)
	}
	if !res.OverBudget && res.SizeKB > 50 {
		t.Errorf("SizeKB = %.1f without OverBudget flag", res.SizeKB)
	}
}

func TestReencode_PicksHighestQuality(t *testing.T) {
	t.Parallel()

	// A budget nothing can miss: the search must land on the top of the
	// quality range, not an arbitrary satisfying quality.
	enc := mustEncoder(t, 100_000, 1600)
	res, err := enc.Reencode(pngBytes(t, gradientImage(400, 300)))
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}
	if res.Quality != MaxQuality {
		t.Errorf("Quality = %d, want %d for an unconstrained budget", res.Quality, MaxQuality)
	}
}

func TestReencode_BudgetBoundary(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t, 8, 1600)
	src := gradientImage(400, 300)
	res, err := enc.Reencode(pngBytes(t, src))
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}
	if res.SizeKB > 8 {
		t.Fatalf("SizeKB = %.1f, want <= 8", res.SizeKB)
	}

	// One quality step up must overshoot, otherwise the search stopped short.
	if res.Quality < MaxQuality {
		bigger, err := encodeJPEG(src, res.Quality+1)
		if err != nil {
			t.Fatalf("encodeJPEG: %v", err)
		}
		if kb(bigger) <= 8 {
			t.Errorf("quality %d also fits %0.1fKB; search returned %d, not the highest",
				res.Quality+1, kb(bigger), res.Quality)
		}
	}
}

func TestReencode_FallbackNeverFails(t *testing.T) {
	t.Parallel()

	// Noise at a 1KB budget is unreachable even at 320px/q10; the encoder
	// must still return a best-effort JPEG rather than loop or error.
	enc := mustEncoder(t, 1, 1600)
	res, err := enc.Reencode(pngBytes(t, noiseImage(800, 600, 42)))
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}

	if !res.OverBudget {
		t.Error("OverBudget = false, want true for an unreachable budget")
	}
	if res.Quality != MinQuality {
		t.Errorf("Quality = %d, want %d on the fallback path", res.Quality, MinQuality)
	}
	if res.MIME != MIMEJPEG {
		t.Errorf("MIME = %q, want %q even on fallback", res.MIME, MIMEJPEG)
	}
	decodeJPEG(t, res.Data)
}

func TestReencode_QualityMonotonicity(t *testing.T) {
	t.Parallel()

	img := noiseImage(300, 200, 7)
	prev := -1
	for _, q := range []int{10, 30, 50, 70, 95} {
		data, err := encodeJPEG(img, q)
		if err != nil {
			t.Fatalf("encodeJPEG(q=%d): %v", q, err)
		}
		if len(data) < prev {
			t.Errorf("size at q=%d (%d bytes) smaller than at lower quality (%d bytes)", q, len(data), prev)
		}
		prev = len(data)
	}
}

func TestReencode_Idempotent(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t, 50, 1600)
	first, err := enc.Reencode(pngBytes(t, gradientImage(1000, 800)))
	if err != nil {
		t.Fatalf("first Reencode: %v", err)
	}
	if first.SizeKB > 50 {
		t.Fatalf("first pass over budget: %.1fKB", first.SizeKB)
	}

	second, err := enc.Reencode(first.Data)
	if err != nil {
		t.Fatalf("second Reencode: %v", err)
	}
	if second.SizeKB > 50 {
		t.Errorf("second pass = %.1fKB, want still within the 50KB budget", second.SizeKB)
	}
}

func TestReencode_AlphaDiscarded(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 200
		img.Pix[i+3] = 0 // fully transparent
	}

	enc := mustEncoder(t, 50, 1600)
	res, err := enc.Reencode(pngBytes(t, img))
	if err != nil {
		t.Fatalf("Reencode: %v", err)
	}
	decodeJPEG(t, res.Data)
}

func TestReencode_InvalidInput(t *testing.T) {
	t.Parallel()

	enc := mustEncoder(t, 50, 1600)

	if _, err := enc.Reencode(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Reencode(nil) = %v, want ErrEmptyInput", err)
	}
	if _, err := enc.Reencode([]byte("not an image")); err == nil {
		t.Error("Reencode(garbage) = nil error, want decode error")
	}
}
