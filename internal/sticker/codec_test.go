package sticker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates empty files with the given names inside dir
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestParseName_Positions(t *testing.T) {
	tests := []struct {
		name string
		want Name
	}{
		{"cat.png", Name{Keyword: "cat", Ext: "png"}},
		{"cat_th.png", Name{Keyword: "cat", Ext: "png", Role: RoleThumbnail}},
		{"cat_sub.png", Name{Keyword: "cat", Ext: "png", Role: RoleRejected}},
		{"cat_2.png", Name{Keyword: "cat", Ext: "png", Order: 2}},
		{"cat_2_500.png", Name{Keyword: "cat", Ext: "png", Order: 2, Duration: 500}},
		{"cat_1_80_3.png", Name{Keyword: "cat", Ext: "png", Order: 1, Duration: 80, HasPlayback: true, RepeatCount: 3}},
		{"cat_1_80_3_400_2_5.webp", Name{
			Keyword: "cat", Ext: "webp", Order: 1, Duration: 80,
			HasPlayback: true, RepeatCount: 3, RepeatInterval: 400, PlayType: 2, ThumbnailFrame: 5,
		}},
		{"cat_x_y.png", Name{Keyword: "cat", Ext: "png"}},
		{"cat_12b_7ms.png", Name{Keyword: "cat", Ext: "png", Order: 12, Duration: 7}},
		{"cat__3.png", Name{Keyword: "cat", Ext: "png", Order: 3}},
		{"cat_1_th.png", Name{Keyword: "cat", Ext: "png", Role: RoleRejected}},
		{"cat_1.gif.png", Name{Role: RoleRejected}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseName(tt.name)
			if err != nil {
				t.Fatalf("ParseName(%q) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseName(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

// TestParseName_Invalid verifies names missing a keyword or extension
func TestParseName_Invalid(t *testing.T) {
	for _, name := range []string{"cat", "_.png", "___.png", ""} {
		if _, err := ParseName(name); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseName(%q) error = %v, want ErrInvalidFormat", name, err)
		}
	}
}

func TestAtoi(t *testing.T) {
	tests := map[string]int{"": 0, "12": 12, "-4": -4, "+7": 7, "3ms": 3, "ms": 0, " 9": 9}
	for in, want := range tests {
		if got := atoi(in); got != want {
			t.Errorf("atoi(%q) = %d, want %d", in, got, want)
		}
	}
}

// TestDecodeDir_Scenario verifies thumbnail and frame decoding for a cat sticker
func TestDecodeDir_Scenario(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "g", "cat")
	writeFiles(t, dir, "cat_th.png", "cat_2_500.png")

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}

	if icon.Keyword != "cat" {
		t.Errorf("Expected keyword cat, got %q", icon.Keyword)
	}
	if icon.ThumbnailPath != filepath.Join(dir, "cat_th.png") {
		t.Errorf("Unexpected thumbnail %q", icon.ThumbnailPath)
	}
	if len(icon.Frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(icon.Frames))
	}
	if icon.Frames[0].Order != 2 || icon.Frames[0].Duration != 500 {
		t.Errorf("Expected order 2 duration 500, got %+v", icon.Frames[0])
	}
	if icon.Kind != KindDirectory || icon.Source != dir {
		t.Errorf("Unexpected identity %v", icon.Key())
	}
}

// TestDecodeDir_RoundTrip verifies frame count and durations survive decoding
func TestDecodeDir_RoundTrip(t *testing.T) {
	durations := []int{40, 120, 0, 999, 16}
	dir := filepath.Join(t.TempDir(), "wave")
	for i, d := range durations {
		writeFiles(t, dir, Encode("wave", i+1, d, "png"))
	}

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	if len(icon.Frames) != len(durations) {
		t.Fatalf("Expected %d frames, got %d", len(durations), len(icon.Frames))
	}
	for i, frame := range icon.Frames {
		if frame.Duration != durations[i] {
			t.Errorf("Frame %d duration = %d, want %d", i, frame.Duration, durations[i])
		}
		if Encode(icon.Keyword, frame.Order, frame.Duration, "png") != filepath.Base(frame.Path) {
			t.Errorf("Frame %d does not re-encode to %s", i, filepath.Base(frame.Path))
		}
	}
}

// TestDecodeDir_OnlyExcluded verifies a directory of thumbnails and gifs is not a sticker
func TestDecodeDir_OnlyExcluded(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dog")
	writeFiles(t, dir, "dog_th.png", "dog_1.gif", "dog_sub.png")

	icon, err := DecodeDir(dir)
	if !errors.Is(err, ErrNoFrames) {
		t.Fatalf("Expected ErrNoFrames, got %v", err)
	}
	if icon != nil {
		t.Error("Expected nil icon")
	}
}

func TestDecodeDir_Missing(t *testing.T) {
	_, err := DecodeDir(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestDecodeDir_Skips verifies hidden files, subdirectories and bad names are skipped
func TestDecodeDir_Skips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fox")
	writeFiles(t, dir, ".fox_9_10.png", "noext", "fox_1_10.png")
	if err := os.Mkdir(filepath.Join(dir, "fox_2_10.png"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	if len(icon.Frames) != 1 || filepath.Base(icon.Frames[0].Path) != "fox_1_10.png" {
		t.Errorf("Expected only fox_1_10.png, got %+v", icon.Frames)
	}
}

// TestDecodeDir_FirstKeywordWins verifies later files do not override the keyword
func TestDecodeDir_FirstKeywordWins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mix")
	writeFiles(t, dir, "alpha_1_10.png", "beta_2_10.png")

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	if icon.Keyword != "alpha" {
		t.Errorf("Expected keyword alpha, got %q", icon.Keyword)
	}
	if len(icon.Frames) != 2 {
		t.Errorf("Expected 2 frames, got %d", len(icon.Frames))
	}
}

// TestDecodeDir_DuplicateThumbnail verifies the second th file is ignored
func TestDecodeDir_DuplicateThumbnail(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "owl")
	writeFiles(t, dir, "owl_th.jpg", "owl_th.png", "owl_1_10.png")

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	if icon.ThumbnailPath != filepath.Join(dir, "owl_th.jpg") {
		t.Errorf("Expected first thumbnail to win, got %q", icon.ThumbnailPath)
	}
}

// TestDecodeDir_PlaybackFromFirstCarrier verifies icon level fields are taken once
func TestDecodeDir_PlaybackFromFirstCarrier(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bee")
	writeFiles(t, dir, "bee_1_50_2_300_1_0.png", "bee_2_50_9_900_3_1.png", "bee_3_50.png")

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	if icon.RepeatCount != 2 || icon.RepeatInterval != 300 || icon.PlayType != 1 || icon.ThumbnailFrame != 0 {
		t.Errorf("Unexpected playback fields %+v", icon)
	}
}

// TestSortFrames verifies path order is the default and decoded order is optional
func TestSortFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	writeFiles(t, dir, "run_10_20.png", "run_2_20.png", "run_1_20.png")

	icon, err := DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	got := []int{icon.Frames[0].Order, icon.Frames[1].Order, icon.Frames[2].Order}
	if got[0] != 10 || got[1] != 1 || got[2] != 2 {
		t.Errorf("Expected path order [10 1 2], got %v", got)
	}

	decoder := &Decoder{Order: OrderByFrame}
	icon, err = decoder.DecodeDir(dir)
	if err != nil {
		t.Fatalf("DecodeDir failed: %v", err)
	}
	got = []int{icon.Frames[0].Order, icon.Frames[1].Order, icon.Frames[2].Order}
	if got[0] != 1 || got[1] != 2 || got[2] != 10 {
		t.Errorf("Expected frame order [1 2 10], got %v", got)
	}
}

func TestNewFileIcon(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "smile_big.png")
	path := filepath.Join(dir, "smile_big.png")

	icon, err := NewFileIcon(path)
	if err != nil {
		t.Fatalf("NewFileIcon failed: %v", err)
	}
	if icon.ThumbnailPath != path || len(icon.Frames) != 0 || icon.Kind != KindFile {
		t.Errorf("Unexpected file icon %+v", icon)
	}
	if icon.Keyword != "smile" {
		t.Errorf("Expected keyword smile, got %q", icon.Keyword)
	}

	if _, err := NewFileIcon(filepath.Join(dir, "gone.png")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := NewFileIcon(dir); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat for directory, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "cat"), "cat_th.png", "cat_1_10.png")
	writeFiles(t, root, "static.png")

	d := &Decoder{}
	if icon, err := d.Resolve(filepath.Join(root, "cat"), KindDirectory); err != nil || icon.Kind != KindDirectory {
		t.Errorf("Resolve directory = %v, %v", icon, err)
	}
	if icon, err := d.Resolve(filepath.Join(root, "static.png"), KindFile); err != nil || icon.Kind != KindFile {
		t.Errorf("Resolve file = %v, %v", icon, err)
	}
	if _, err := d.Resolve("__ref__", KindRecentRef); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat for recent ref, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindDirectory, KindFile, KindRecentRef} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("blob"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}
