// Package imaging re-encodes raster images to JPEG under a byte-size budget.
//
// The encoder jointly searches encoder quality and image scale: at each scale
// it binary-searches the JPEG quality range for the highest quality whose
// output fits the budget, and only shrinks the image when no quality fits.
// It always returns some JPEG, even when the budget is unreachable.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"log/slog"

	// Raster formats accepted from the image-generation API.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// Quality and scale bounds of the search.
const (
	MinQuality = 10
	MaxQuality = 95

	// MinDimension is the smallest longer side worth shrinking to; below it
	// the loss of detail outweighs further size savings.
	MinDimension = 320

	// ScaleStep is the multiplicative shrink applied when no quality fits.
	ScaleStep = 0.85

	// MinScale aborts the shrink loop regardless of pixel dimensions.
	MinScale = 0.2
)

// MIMEJPEG is the declared type of every result, including fallbacks.
const MIMEJPEG = "image/jpeg"

// ErrEmptyInput indicates there were no bytes to decode.
var ErrEmptyInput = errors.New("empty image input")

// Result carries the encoded output and the parameters that produced it.
type Result struct {
	Data    []byte
	MIME    string
	Quality int
	Scale   float64
	SizeKB  float64

	// OverBudget is set on the fallback path when even the lowest quality at
	// the smallest acceptable scale exceeds the target.
	OverBudget bool
}

// Encoder re-encodes images to JPEG at or below a size budget.
// Each call is stateless; an Encoder is safe to reuse.
type Encoder struct {
	targetKB int
	maxDim   int
	logger   *slog.Logger
}

// NewEncoder creates an Encoder. targetKB is a positive soft ceiling in
// kilobytes; maxDim bounds the longer side in pixels.
func NewEncoder(targetKB, maxDim int, logger *slog.Logger) (*Encoder, error) {
	if targetKB <= 0 {
		return nil, fmt.Errorf("target size must be positive, got %d KB", targetKB)
	}
	if maxDim <= 0 {
		return nil, fmt.Errorf("max dimension must be positive, got %d", maxDim)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Encoder{targetKB: targetKB, maxDim: maxDim, logger: logger}, nil
}

// Reencode decodes raw and returns JPEG bytes at or below the target budget
// where achievable. Decode failures propagate to the caller; they indicate a
// corrupt upstream payload and there is no point retrying here.
//
// Any alpha channel is discarded before encoding. That is a deliberate lossy
// step: downstream consumers expect uniform opaque JPEG output.
func (e *Encoder) Reencode(raw []byte) (Result, error) {
	if len(raw) == 0 {
		return Result{}, ErrEmptyInput
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("decoding image: %w", err)
	}

	img := flatten(src)
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	scale := 1.0
	if longer := max(w, h); longer > e.maxDim {
		scale = float64(e.maxDim) / float64(longer)
	}

	e.logger.Debug("reencoding image",
		"format", format, "width", w, "height", h,
		"target_kb", e.targetKB, "initial_scale", scale)

	for {
		work := img
		if scale < 1.0 {
			work = scaleImage(img, w, h, scale)
		}

		if data, quality, ok := e.searchQuality(work); ok {
			return Result{
				Data:    data,
				MIME:    MIMEJPEG,
				Quality: quality,
				Scale:   scale,
				SizeKB:  kb(data),
			}, nil
		}

		// No quality fits at this scale; shrink and retry, unless the image
		// is already as small as it is allowed to get.
		encodedScale := scale
		scale *= ScaleStep
		if longerSide(work) <= MinDimension || scale <= MinScale {
			return e.fallback(work, encodedScale)
		}
	}
}

// searchQuality binary-searches [MinQuality, MaxQuality] for the highest
// quality whose output is at or under the budget. ok is false when even
// MinQuality overshoots.
func (e *Encoder) searchQuality(img image.Image) (data []byte, quality int, ok bool) {
	lo, hi := MinQuality, MaxQuality
	for lo <= hi {
		q := (lo + hi) / 2
		encoded, err := encodeJPEG(img, q)
		if err != nil {
			// jpeg.Encode on an in-memory RGBA cannot realistically fail;
			// treat it as "does not fit" and keep searching.
			e.logger.Warn("jpeg encode failed during search", "quality", q, "error", err)
			lo = q + 1
			continue
		}
		if kb(encoded) <= float64(e.targetKB) {
			data, quality, ok = encoded, q, true
			lo = q + 1
		} else {
			hi = q - 1
		}
	}
	return data, quality, ok
}

// fallback force-encodes at the lowest quality and current dimensions. The
// result may exceed the budget; that is reported, not fatal.
func (e *Encoder) fallback(img image.Image, scale float64) (Result, error) {
	data, err := encodeJPEG(img, MinQuality)
	if err != nil {
		return Result{}, fmt.Errorf("fallback encode: %w", err)
	}

	res := Result{
		Data:    data,
		MIME:    MIMEJPEG,
		Quality: MinQuality,
		Scale:   scale,
		SizeKB:  kb(data),
	}
	if res.SizeKB > float64(e.targetKB) {
		res.OverBudget = true
		e.logger.Warn("could not reach size target, keeping best effort",
			"size_kb", fmt.Sprintf("%.1f", res.SizeKB), "target_kb", e.targetKB)
	}
	return res, nil
}

// flatten coerces any decoded image to three-channel color, dropping alpha.
func flatten(src image.Image) image.Image {
	switch src.(type) {
	case *image.RGBA, *image.YCbCr:
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// scaleImage resizes with Lanczos resampling, never below 1x1.
func scaleImage(img image.Image, w, h int, scale float64) image.Image {
	sw := max(1, int(float64(w)*scale))
	sh := max(1, int(float64(h)*scale))
	return resize.Resize(uint(sw), uint(sh), img, resize.Lanczos3)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(64 * 1024)
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func longerSide(img image.Image) int {
	b := img.Bounds()
	return max(b.Dx(), b.Dy())
}

func kb(data []byte) float64 {
	return float64(len(data)) / 1024
}
