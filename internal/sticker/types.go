// Package sticker decodes sticker directories into icons and frames.
//
// A sticker directory holds one image file per animation frame. Animation
// metadata is carried in the file names:
//
//	<keyword>[_th|_<order>_<duration>[_<repeat>_<interval>_<playtype>_<thumbframe>]].<ext>
package sticker

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies where a sticker comes from. The numeric values are
// persisted in the recent table and must not change.
type Kind int

const (
	KindNone      Kind = 0
	KindDirectory Kind = 1
	KindFile      Kind = 2
	KindRecentRef Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindRecentRef:
		return "recent-ref"
	default:
		return "none"
	}
}

// ParseKind converts a kind name as printed by String back to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "directory", "dir":
		return KindDirectory, nil
	case "file":
		return KindFile, nil
	case "recent-ref", "id":
		return KindRecentRef, nil
	default:
		return KindNone, fmt.Errorf("unknown sticker kind %q", s)
	}
}

// Codec errors
var (
	// ErrNotFound indicates the sticker directory or file does not exist
	ErrNotFound = errors.New("sticker source not found")

	// ErrInvalidFormat indicates a file name off the naming convention, or an
	// image no decoder can read
	ErrInvalidFormat = errors.New("invalid sticker format")

	// ErrNoFrames indicates a directory that yields no valid frames
	ErrNoFrames = errors.New("sticker directory has no frames")
)

// Frame is one image file of an animated sticker
type Frame struct {
	Path     string // Absolute file path
	Order    int    // Decoded frame order, 0 when unordered
	Duration int    // Display time in milliseconds
}

// Delay returns the frame duration as a time.Duration
func (f Frame) Delay() time.Duration {
	return time.Duration(f.Duration) * time.Millisecond
}

// Icon is one selectable sticker. Source and Kind together identify it.
type Icon struct {
	Source         string
	Kind           Kind
	Keyword        string
	ThumbnailPath  string
	Frames         []Frame
	RepeatCount    int
	RepeatInterval int // Milliseconds between repeats
	PlayType       int
	ThumbnailFrame int
}

// Key returns the catalog identity of the icon
func (i *Icon) Key() Key {
	return Key{Source: i.Source, Kind: i.Kind}
}

// Animated reports whether the icon has more than one frame to play
func (i *Icon) Animated() bool {
	return len(i.Frames) > 1
}

// Displayable reports whether the icon carries what a grid needs to show it
func (i *Icon) Displayable() bool {
	return i.Keyword != "" && i.ThumbnailPath != ""
}

// Key is the (source, kind) identity of a sticker
type Key struct {
	Source string
	Kind   Kind
}

func (k Key) String() string {
	return k.Kind.String() + ":" + k.Source
}
