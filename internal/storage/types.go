package storage

import (
	"time"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// GroupRecord is the persisted registration of one sticker group
type GroupRecord struct {
	ID         string // Absolute directory path of the group
	Name       string // Display name
	Repository string // Provenance, empty for built-in presets
	Ordering   int    // Position within the category
	Category   int    // Partition the ordering is scoped to
}

// RecentEntry is one recently used sticker
type RecentEntry struct {
	ID        string       // Sticker source path
	Kind      sticker.Kind // Directory, file, or recent reference
	TouchedAt time.Time    // Last time the sticker was chosen
}
