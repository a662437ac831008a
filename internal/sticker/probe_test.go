package sticker

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestProbe verifies probing a frame file on disk
func TestProbe(t *testing.T) {
	data := encodePNG(t, 64, 32)
	path := filepath.Join(t.TempDir(), "cat_1_100.png")
	writeFile(t, path, data)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Width != 64 || info.Height != 32 {
		t.Errorf("Expected 64x32, got %dx%d", info.Width, info.Height)
	}
	if info.MimeType() != "image/png" {
		t.Errorf("Expected image/png, got %s", info.MimeType())
	}
	if info.SizeBytes != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), info.SizeBytes)
	}
	if !info.ExtensionMatches() {
		t.Error("Expected .png to match png")
	}

	if _, err := Probe(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestProbe_Undecodable verifies a non-image reports its sniffed type
func TestProbe_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat_th.png")
	writeFile(t, path, []byte("not an image"))

	_, err := Probe(path)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Expected ErrInvalidFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "text/plain") {
		t.Errorf("Expected sniffed type in %q", err)
	}
}

// TestProbe_WrongExtension verifies a PNG saved as .webp is flagged
func TestProbe_WrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat_1_100.webp")
	writeFile(t, path, encodePNG(t, 8, 8))

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.ExtensionMatches() {
		t.Error("Expected .webp not to match png")
	}
}

func TestProbeIcon(t *testing.T) {
	dir := t.TempDir()
	thumb := filepath.Join(dir, "cat_th.png")
	first := filepath.Join(dir, "cat_1_100.png")
	second := filepath.Join(dir, "cat_2_100.png")
	writeFile(t, thumb, encodePNG(t, 16, 16))
	writeFile(t, first, encodePNG(t, 64, 64))
	writeFile(t, second, []byte("broken"))

	icon := &Icon{
		ThumbnailPath: thumb,
		Frames:        []Frame{{Path: first}, {Path: second}},
	}
	p := ProbeIcon(icon)

	if p.Thumbnail == nil || p.Thumbnail.Width != 16 {
		t.Errorf("Expected 16px thumbnail, got %+v", p.Thumbnail)
	}
	if len(p.Frames) != 2 || p.Frames[0] == nil || p.Frames[1] != nil {
		t.Fatalf("Unexpected frames %+v", p.Frames)
	}
	if len(p.Errors) != 1 || p.Errors[second] == nil {
		t.Errorf("Expected one error for %s, got %v", second, p.Errors)
	}
	if !p.Uniform() {
		t.Error("Expected a single decoded frame to be uniform")
	}

	writeFile(t, second, encodePNG(t, 32, 64))
	if ProbeIcon(icon).Uniform() {
		t.Error("Expected mixed frame sizes to be reported")
	}
}

// TestHashFile verifies identical files hash identically
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	for _, p := range []string{a, b} {
		writeFile(t, p, []byte("same"))
	}

	ha, err := HashFile(a)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	hb, _ := HashFile(b)
	if ha != hb || len(ha) != 64 {
		t.Errorf("Unexpected hashes %q %q", ha, hb)
	}
}
