package imaging

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height
}

func TestResizer_HalvesDimensions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	writeTestImage(t, src, 100, 60)

	if err := NewResizer().Resize(src, dst, 0.5); err != nil {
		t.Fatal(err)
	}

	w, h := decodeSize(t, dst)
	if w != 50 || h != 30 {
		t.Errorf("expected 50x30, got %dx%d", w, h)
	}
}

func TestResizer_PNGSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.jpg")
	writeTestImage(t, src, 40, 40)

	if err := NewResizer().Resize(src, dst, 0.25); err != nil {
		t.Fatal(err)
	}

	w, h := decodeSize(t, dst)
	if w != 10 || h != 10 {
		t.Errorf("expected 10x10, got %dx%d", w, h)
	}
}

func TestResizer_FactorOne(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	writeTestImage(t, src, 8, 8)

	if err := NewResizer().Resize(src, dst, 1); err != nil {
		t.Fatal(err)
	}

	w, h := decodeSize(t, dst)
	if w != 8 || h != 8 {
		t.Errorf("expected 8x8, got %dx%d", w, h)
	}
}

func TestResizer_InvalidFactor(t *testing.T) {
	r := NewResizer()
	for _, factor := range []float64{0, -0.5, 1.5} {
		if err := r.Resize("src.jpg", "dst.jpg", factor); err == nil {
			t.Errorf("expected error for factor %v", factor)
		}
	}
}

func TestResizer_CorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(src, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewResizer().Resize(src, filepath.Join(dir, "dst.jpg"), 0.5)
	if err == nil {
		t.Error("expected decode error for corrupt source")
	}
}

func TestResizer_TinyResultClampedToOnePixel(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	writeTestImage(t, src, 3, 3)

	if err := NewResizer().Resize(src, dst, 0.1); err != nil {
		t.Fatal(err)
	}

	w, h := decodeSize(t, dst)
	if w < 1 || h < 1 {
		t.Errorf("expected at least 1x1, got %dx%d", w, h)
	}
}
