package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding
	"os"

	"golang.org/x/image/draw"

	"photofind/internal/domain"
)

// Resizer downsamples images by a scale factor using Catmull-Rom
// resampling. Output is always JPEG regardless of source format; the
// resized copy only feeds the embedding model and is never stored.
type Resizer struct {
	quality int
}

func NewResizer() *Resizer {
	return &Resizer{quality: 90}
}

func (r *Resizer) Resize(src, dst string, factor float64) error {
	if factor <= 0 || factor > 1 {
		return fmt.Errorf("resize factor must be in (0, 1], got %v", factor)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrDecode, src, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrDecode, src, err)
	}

	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * factor)
	height := int(float64(bounds.Dy()) * factor)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: r.quality}); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return out.Close()
}
