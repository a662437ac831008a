package sticker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reserved file name tokens
const (
	tokenThumbnail = "th"
	tokenSub       = "sub"
	gifMarker      = ".gif"
)

// Role says what a decoded file name contributes to its sticker
type Role int

const (
	RoleFrame Role = iota
	RoleThumbnail
	RoleRejected
)

// Name is a sticker file name split into its positional fields
type Name struct {
	Keyword string
	Ext     string
	Role    Role

	Order    int
	Duration int

	// Icon level fields, present only when the name carries tokens 4-7
	HasPlayback    bool
	RepeatCount    int
	RepeatInterval int
	PlayType       int
	ThumbnailFrame int
}

// FrameOrder selects how decoded frames are sorted
type FrameOrder int

const (
	// OrderByPath sorts frames by file path, byte-wise
	OrderByPath FrameOrder = iota
	// OrderByFrame sorts frames by decoded order, then by path
	OrderByFrame
)

// ParseFrameOrder converts a config value to a FrameOrder
func ParseFrameOrder(s string) (FrameOrder, error) {
	switch s {
	case "", "path":
		return OrderByPath, nil
	case "order":
		return OrderByFrame, nil
	default:
		return OrderByPath, fmt.Errorf("unknown frame order %q", s)
	}
}

// splitTokens splits s on sep and drops empty tokens, so runs of
// separators count as one boundary.
func splitTokens(s string, sep rune) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == sep })
}

// atoi parses a leading decimal integer and ignores trailing garbage.
// Names like "cat_2x_500" decode order 2; a token without digits decodes 0.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

// ParseName decodes one file name. Names without a keyword or an extension
// return ErrInvalidFormat.
func ParseName(name string) (Name, error) {
	var n Name

	if strings.Contains(name, gifMarker) {
		n.Role = RoleRejected
		return n, nil
	}

	parts := splitTokens(name, '.')
	if len(parts) < 2 {
		return n, fmt.Errorf("%w: %q has no extension", ErrInvalidFormat, name)
	}
	n.Ext = parts[1]

	tokens := splitTokens(parts[0], '_')
	if len(tokens) == 0 {
		return n, fmt.Errorf("%w: %q has no keyword", ErrInvalidFormat, name)
	}
	n.Keyword = tokens[0]

	if len(tokens) < 2 {
		return n, nil
	}

	switch tokens[1] {
	case tokenSub:
		n.Role = RoleRejected
		return n, nil
	case tokenThumbnail:
		n.Role = RoleThumbnail
		return n, nil
	}

	// A stem ending in _th names a thumbnail variant, never a frame
	if tokens[len(tokens)-1] == tokenThumbnail {
		n.Role = RoleRejected
		return n, nil
	}

	n.Order = atoi(tokens[1])
	if len(tokens) > 2 {
		n.Duration = atoi(tokens[2])
	}

	playback := []*int{&n.RepeatCount, &n.RepeatInterval, &n.PlayType, &n.ThumbnailFrame}
	for i, field := range playback {
		if len(tokens) <= 3+i {
			break
		}
		*field = atoi(tokens[3+i])
		n.HasPlayback = true
	}

	return n, nil
}

// Encode builds the file name of one animation frame
func Encode(keyword string, order, duration int, ext string) string {
	return fmt.Sprintf("%s_%d_%d.%s", keyword, order, duration, ext)
}

// Decoder scans sticker directories
type Decoder struct {
	Order  FrameOrder
	Logger *slog.Logger
}

// DecodeDir decodes a directory with the default decoder
func DecodeDir(dir string) (*Icon, error) {
	return (&Decoder{}).DecodeDir(dir)
}

// DecodeDir scans the direct children of dir and builds a directory icon.
// Files that do not follow the naming convention are skipped one by one.
// A directory that yields no frames returns ErrNoFrames.
func (d *Decoder) DecodeDir(dir string) (*Icon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read sticker directory %s: %w", dir, err)
	}

	icon := &Icon{Source: dir, Kind: KindDirectory}
	playbackSet := false

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		parsed, err := ParseName(name)
		if err != nil {
			d.debug("skipping sticker file", "path", filepath.Join(dir, name), "err", err)
			continue
		}
		if parsed.Keyword != "" && icon.Keyword == "" {
			icon.Keyword = parsed.Keyword
		}

		switch parsed.Role {
		case RoleRejected:
			continue
		case RoleThumbnail:
			if icon.ThumbnailPath != "" {
				d.debug("duplicate thumbnail", "path", filepath.Join(dir, name))
				continue
			}
			icon.ThumbnailPath = filepath.Join(dir, icon.Keyword+"_"+tokenThumbnail+"."+parsed.Ext)
			continue
		}

		if parsed.HasPlayback && !playbackSet {
			icon.RepeatCount = parsed.RepeatCount
			icon.RepeatInterval = parsed.RepeatInterval
			icon.PlayType = parsed.PlayType
			icon.ThumbnailFrame = parsed.ThumbnailFrame
			playbackSet = true
		}

		icon.Frames = append(icon.Frames, Frame{
			Path:     filepath.Join(dir, name),
			Order:    parsed.Order,
			Duration: parsed.Duration,
		})
	}

	if len(icon.Frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, dir)
	}

	SortFrames(icon.Frames, d.Order)
	return icon, nil
}

// SortFrames orders frames in place
func SortFrames(frames []Frame, order FrameOrder) {
	sort.SliceStable(frames, func(i, j int) bool {
		if order == OrderByFrame && frames[i].Order != frames[j].Order {
			return frames[i].Order < frames[j].Order
		}
		return frames[i].Path < frames[j].Path
	})
}

// NewFileIcon builds a static sticker for a single image file. The file is
// its own thumbnail and the icon has no frames.
func NewFileIcon(path string) (*Icon, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat sticker file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}

	icon := &Icon{Source: path, Kind: KindFile, ThumbnailPath: path}
	if parsed, err := ParseName(filepath.Base(path)); err == nil {
		icon.Keyword = parsed.Keyword
	}
	return icon, nil
}

// Resolve builds the icon for a stored (source, kind) pair
func (d *Decoder) Resolve(source string, kind Kind) (*Icon, error) {
	switch kind {
	case KindDirectory:
		return d.DecodeDir(source)
	case KindFile:
		return NewFileIcon(source)
	default:
		return nil, fmt.Errorf("%w: cannot resolve %s sticker %s", ErrInvalidFormat, kind, source)
	}
}

func (d *Decoder) debug(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, args...)
	}
}
