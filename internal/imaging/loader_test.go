package imaging

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// writeImage encodes img as PNG into dir and returns its path.
func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createTestImage creates a solid-color PNG file and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeImage(t, t.TempDir(), "test-image.png", img)
}

// createIndexedImage returns a paletted image whose pixel at (x, y) holds the
// index y*width + x, using a grayscale palette with one entry per pixel.
func createIndexedImage(width, height int) *image.Paletted {
	palette := make(color.Palette, width*height)
	for i := range palette {
		v := uint8(i * 255 / len(palette))
		palette[i] = color.NRGBA{R: v, G: v, B: v, A: 0xff}
	}
	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return img
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.images == nil {
		t.Fatal("NewImageCache did not initialize images map")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1 == nil {
		t.Fatal("Load returned nil image")
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := NewImageCache()

	path := filepath.Join(t.TempDir(), "invalid-image.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := cache.Load(path)
	if err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_Load_KeepsPalette(t *testing.T) {
	cache := NewImageCache()
	path := writeImage(t, t.TempDir(), "indexed.png", createIndexedImage(4, 4))

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("indexed PNG decoded as %T, want *image.Paletted", img)
	}
	if len(p.Palette) != 16 {
		t.Errorf("palette size: got %d, want 16", len(p.Palette))
	}
}

func TestImageCache_GetImage(t *testing.T) {
	var loader Loader = NewImageCache()
	imgPath := createTestImage(t, 8, 8, color.White)

	img, err := loader.GetImage(imgPath)
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width: got %d, want 8", img.Bounds().Dx())
	}
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Clear()

	if n := cache.Len(); n != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", n)
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})

	if _, err := cache.Load(imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(imgPath)

	cache.mu.RLock()
	_, exists := cache.images[imgPath]
	cache.mu.RUnlock()

	if exists {
		t.Error("Evict did not remove image from cache")
	}
}

func TestImageCache_Evict_NonExistent(t *testing.T) {
	cache := NewImageCache()
	// Should not panic
	cache.Evict("/nonexistent/path")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestImageCache_Watch_EvictsChangedFile(t *testing.T) {
	cache := NewImageCache()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cache.Watch(ctx); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer cache.Close()

	dir := t.TempDir()
	path := writeImage(t, dir, "sprite.png", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	writeImage(t, dir, "sprite.png", image.NewRGBA(image.Rect(0, 0, 8, 8)))

	deadline := time.Now().Add(3 * time.Second)
	for cache.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("changed file was not evicted from cache")
		}
		time.Sleep(10 * time.Millisecond)
	}

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("reloaded width: got %d, want 8", img.Bounds().Dx())
	}
}

func TestImageCache_Watch_Twice(t *testing.T) {
	cache := NewImageCache()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cache.Watch(ctx); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer cache.Close()

	if err := cache.Watch(ctx); err == nil {
		t.Error("second Watch should fail")
	}
}

func TestImageCache_Close_WithoutWatch(t *testing.T) {
	cache := NewImageCache()
	if err := cache.Close(); err != nil {
		t.Errorf("Close without Watch: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 {
		t.Errorf("Width: got %d, want 200", info.Width)
	}
	if info.Height != 150 {
		t.Errorf("Height: got %d, want 150", info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.Indexed {
		t.Error("RGBA image reported as indexed")
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_Indexed(t *testing.T) {
	cache := NewImageCache()
	src := createIndexedImage(4, 2)
	src.Palette[0] = color.NRGBA{}
	path := writeImage(t, t.TempDir(), "indexed.png", src)

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if !info.Indexed {
		t.Error("Indexed: got false, want true")
	}
	if info.PaletteSize != 8 {
		t.Errorf("PaletteSize: got %d, want 8", info.PaletteSize)
	}
	if !info.HasAlpha {
		t.Error("HasAlpha: palette with a transparent entry should report alpha")
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	cache := NewImageCache()

	tests := []struct {
		ext    string
		format string
	}{
		{".png", "png"},
		{".jpg", "jpeg"},
		{".jpeg", "jpeg"},
		{".gif", "gif"},
		{".xyz", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			// A valid PNG regardless of extension
			path := writeImage(t, t.TempDir(), "test-format"+tt.ext, image.NewRGBA(image.Rect(0, 0, 10, 10)))

			info, err := LoadImageInfo(cache, path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}

			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.ext, info.Format, tt.format)
			}
		})
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := LoadImageInfo(cache, "/nonexistent/image.png")
	if err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}
