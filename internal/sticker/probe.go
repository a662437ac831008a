package sticker

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// sniffLen is how much of a file http.DetectContentType looks at
const sniffLen = 512

// ImageInfo is the decoded header of one sticker image
type ImageInfo struct {
	Path      string
	Width     int
	Height    int
	SizeBytes int64
	Format    string // decoder name, e.g. "png" or "webp"
}

// MimeType returns the media type of the decoded format
func (i *ImageInfo) MimeType() string {
	return "image/" + i.Format
}

// ExtensionMatches reports whether the file extension names the decoded format
func (i *ImageInfo) ExtensionMatches() bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(i.Path)), ".")
	return ext == i.Format || (ext == "jpg" && i.Format == "jpeg")
}

// Probe decodes the header of a sticker image without reading the pixels.
// A file no registered decoder accepts returns ErrInvalidFormat naming its
// sniffed content type.
func Probe(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	head = head[:n]

	cfg, format, err := image.DecodeConfig(io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s holds %s: %v",
			ErrInvalidFormat, filepath.Base(path), http.DetectContentType(head), err)
	}

	return &ImageInfo{
		Path:      path,
		Width:     cfg.Width,
		Height:    cfg.Height,
		SizeBytes: stat.Size(),
		Format:    format,
	}, nil
}

// IconProbe holds the probed images of one sticker. Frames lines up with the
// icon's frames and is nil where a frame failed.
type IconProbe struct {
	Thumbnail *ImageInfo
	Frames    []*ImageInfo
	Errors    map[string]error
}

// ProbeIcon probes the thumbnail and every frame of an icon. Failures are
// collected per path and do not stop the others.
func ProbeIcon(icon *Icon) *IconProbe {
	p := &IconProbe{
		Frames: make([]*ImageInfo, len(icon.Frames)),
		Errors: make(map[string]error),
	}
	if icon.ThumbnailPath != "" {
		if info, err := Probe(icon.ThumbnailPath); err != nil {
			p.Errors[icon.ThumbnailPath] = err
		} else {
			p.Thumbnail = info
		}
	}
	for i, f := range icon.Frames {
		info, err := Probe(f.Path)
		if err != nil {
			p.Errors[f.Path] = err
			continue
		}
		p.Frames[i] = info
	}
	return p
}

// Uniform reports whether every decoded frame has the same size
func (p *IconProbe) Uniform() bool {
	var first *ImageInfo
	for _, info := range p.Frames {
		if info == nil {
			continue
		}
		if first == nil {
			first = info
			continue
		}
		if info.Width != first.Width || info.Height != first.Height {
			return false
		}
	}
	return true
}

// HashFile returns the hex SHA256 of a file's contents
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash image: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
