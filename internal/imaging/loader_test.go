package imaging

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := createTestImage(32, 24, color.White)
	path := filepath.Join(dir, "plate.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode temp image: %v", err)
	}
	return path
}

func TestImageCacheLoad(t *testing.T) {
	path := writeTestPNG(t, t.TempDir())
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("unexpected dimensions %dx%d", b.Dx(), b.Dy())
	}

	// Second load is served from cache: removing the file must not matter.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Errorf("expected cached load to succeed, got %v", err)
	}

	cache.Evict(path)
	if _, err := cache.Load(path); err == nil {
		t.Error("expected load to fail after eviction of a deleted file")
	}
}

func TestImageCacheClear(t *testing.T) {
	path := writeTestPNG(t, t.TempDir())
	cache := NewImageCache()
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	os.Remove(path)
	cache.Clear()
	if _, err := cache.Load(path); err == nil {
		t.Error("expected load to fail after Clear of a deleted file")
	}
}

func TestImageCacheLoadMissing(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageCacheLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write junk file: %v", err)
	}
	cache := NewImageCache()
	if _, err := cache.Load(path); err == nil {
		t.Error("expected decode error for junk file")
	}
}
