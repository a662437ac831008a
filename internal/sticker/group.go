package sticker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TabThumbnailDir is the reserved sub-directory holding a group's toolbar icon
const TabThumbnailDir = "@Tab_Thumbnail"

// TabThumbnail returns the first regular file inside the group's
// tab thumbnail directory, or "" when there is none.
func TabThumbnail(groupDir string) string {
	dir := filepath.Join(groupDir, TabThumbnailDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// ListGroup decodes every sticker directory inside a group directory, in
// name order. Sticker directories that yield no frames are skipped.
func (d *Decoder) ListGroup(groupDir string) ([]*Icon, error) {
	entries, err := os.ReadDir(groupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, groupDir)
		}
		return nil, fmt.Errorf("failed to read group directory %s: %w", groupDir, err)
	}

	var icons []*Icon
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == TabThumbnailDir || strings.HasPrefix(name, ".") {
			continue
		}

		icon, err := d.DecodeDir(filepath.Join(groupDir, name))
		if err != nil {
			d.debug("skipping sticker directory", "path", filepath.Join(groupDir, name), "err", err)
			continue
		}
		icons = append(icons, icon)
	}
	return icons, nil
}

// ListFiles builds a static icon for every regular image file in dir.
// A missing directory yields no icons.
func (d *Decoder) ListFiles(dir string) ([]*Icon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sticker directory %s: %w", dir, err)
	}

	var icons []*Icon
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}

		icon, err := NewFileIcon(filepath.Join(dir, name))
		if err != nil {
			d.debug("skipping sticker file", "path", filepath.Join(dir, name), "err", err)
			continue
		}
		icons = append(icons, icon)
	}
	return icons, nil
}
