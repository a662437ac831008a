package catalog

import (
	"errors"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// Reserved ids and names of the pseudo-groups
const (
	RecentGroupID   = "__sticker_panel_recent_tabbar__"
	RecentGroupName = "Recent"
	UserGroupID     = "__sticker_panel_user_defined_tabbar__"
	UserGroupName   = "User"
)

// Catalog errors
var (
	// ErrNotFound indicates no group with the given id is in the catalog
	ErrNotFound = errors.New("sticker group not found")

	// ErrAlreadyRemoved indicates the group was deleted, or the catalog closed, earlier in the session
	ErrAlreadyRemoved = errors.New("sticker group already removed")

	// ErrNotRemovable indicates a group under the read-only system tree
	ErrNotRemovable = errors.New("sticker group is not removable")

	// ErrNotPermutable indicates a pinned group that cannot be reordered
	ErrNotPermutable = errors.New("sticker group is not permutable")
)

// Group is one category tab
type Group struct {
	ID          string
	Name        string
	Repository  string
	Ordering    int
	Category    int
	Permutable  bool
	Removable   bool
	Initialized bool
	Recent      bool
	UserDefined bool
	ToolbarIcon string
	Icons       []*sticker.Icon

	loaded   bool
	recorded bool // registered in the store
	stored   int  // ordering last written to the store
}

// Loaded reports whether the group's icon list has been built
func (g *Group) Loaded() bool {
	return g.loaded
}

// Pseudo reports whether the group is synthesized rather than a directory
func (g *Group) Pseudo() bool {
	return g.Recent || g.UserDefined
}

// Record returns the persisted form of the group
func (g *Group) Record() storage.GroupRecord {
	return storage.GroupRecord{
		ID:         g.ID,
		Name:       g.Name,
		Repository: g.Repository,
		Ordering:   g.Ordering,
		Category:   g.Category,
	}
}

// IconIndex returns the position of the icon with the given identity, or -1
func (g *Group) IconIndex(key sticker.Key) int {
	for i, icon := range g.Icons {
		if icon.Key() == key {
			return i
		}
	}
	return -1
}

func groupFromRecord(r storage.GroupRecord) *Group {
	return &Group{
		ID:         r.ID,
		Name:       r.Name,
		Repository: r.Repository,
		Ordering:   r.Ordering,
		Category:   r.Category,
		recorded:   true,
		stored:     r.Ordering,
	}
}
