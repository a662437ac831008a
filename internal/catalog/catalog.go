// Package catalog reconciles sticker directories on disk with the group
// ordering recorded in the store, and keeps both in step as the user
// reorders, deletes, and picks stickers.
//
// A Catalog belongs to one panel session and is not safe for concurrent use.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/liminalpurple/sticker-panel/internal/logging"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// Store is the persistence the catalog needs
type Store interface {
	ListGroups(ctx context.Context) ([]storage.GroupRecord, error)
	InsertGroup(ctx context.Context, g storage.GroupRecord) error
	DeleteGroup(ctx context.Context, id string) error
	UpdateGroupOrdering(ctx context.Context, id string, ordering int) error
	SeedGroups(ctx context.Context, groups []storage.GroupRecord) (int, error)
	TouchRecent(ctx context.Context, id string, kind sticker.Kind) error
	ListRecent(ctx context.Context, limit int) ([]storage.RecentEntry, error)
}

// Catalog is the canonical, ordered group list of a panel session
type Catalog struct {
	store   Store
	opts    Options
	decoder *sticker.Decoder
	logger  *slog.Logger

	groups  []*Group
	removed map[string]bool
	closed  bool
}

// Open seeds an empty store, then builds the group list by reconciling the
// store with a scan of the sticker roots.
func Open(ctx context.Context, store Store, opts Options) (*Catalog, error) {
	logger := logging.OrNull(opts.Logger)
	c := &Catalog{
		store:   store,
		opts:    opts,
		decoder: &sticker.Decoder{Order: opts.FrameOrder, Logger: logger},
		logger:  logger,
		removed: make(map[string]bool),
	}

	if seed := opts.seedRecords(); len(seed) > 0 {
		n, err := store.SeedGroups(ctx, seed)
		if err != nil {
			logger.Warn("cannot seed preset groups", "err", err)
		} else if n > 0 {
			logger.Info("seeded preset groups", "count", n)
		}
	}

	if err := c.Reconcile(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reconcile rebuilds the group list from the store and a fresh scan of the
// sticker roots, then sorts and re-sequences it.
func (c *Catalog) Reconcile(ctx context.Context) error {
	if c.closed {
		return fmt.Errorf("catalog closed: %w", ErrAlreadyRemoved)
	}

	records, err := c.store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sticker groups: %w", err)
	}

	recentIcons := c.loadRecent(ctx)
	var groups []*Group
	for _, category := range c.categories(records) {
		groups = append(groups, c.newRecentGroup(category, recentIcons))
	}
	for _, r := range records {
		if c.removed[r.ID] {
			continue
		}
		groups = append(groups, groupFromRecord(r))
	}

	for _, root := range c.opts.Sources {
		groups = c.scanRoot(ctx, root, groups)
	}

	if user := c.newUserGroup(groups); user != nil {
		groups = append(groups, user)
	}

	c.groups = groups
	c.sort()
	c.trim(ctx)
	return nil
}

// categories returns the configured category followed by every other
// category found in the store, so each gets its own recent group.
func (c *Catalog) categories(records []storage.GroupRecord) []int {
	seen := map[int]bool{c.opts.Category: true}
	categories := []int{c.opts.Category}
	for _, r := range records {
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	return categories
}

func (c *Catalog) newRecentGroup(category int, icons []*sticker.Icon) *Group {
	id := RecentGroupID
	if category != c.opts.Category {
		id = fmt.Sprintf("%s%d", RecentGroupID, category)
	}
	return &Group{
		ID:          id,
		Name:        RecentGroupName,
		Ordering:    0,
		Category:    category,
		Initialized: true,
		Recent:      true,
		ToolbarIcon: c.opts.DefaultIcon,
		Icons:       append([]*sticker.Icon(nil), icons...),
		loaded:      true,
	}
}

// newUserGroup returns the user-defined group placed after every other
// group of the category, or nil when the user has no stickers.
func (c *Catalog) newUserGroup(groups []*Group) *Group {
	if c.opts.UserDir == "" {
		return nil
	}
	icons, err := c.decoder.ListFiles(c.opts.UserDir)
	if err != nil {
		c.logger.Warn("cannot list user stickers", "path", c.opts.UserDir, "err", err)
		return nil
	}
	if len(icons) == 0 {
		return nil
	}
	return &Group{
		ID:          UserGroupID,
		Name:        UserGroupName,
		Ordering:    maxOrdering(groups, c.opts.Category) + 1,
		Category:    c.opts.Category,
		Initialized: true,
		UserDefined: true,
		ToolbarIcon: c.opts.DefaultIcon,
		Icons:       icons,
		loaded:      true,
	}
}

// scanRoot marks every group directory under root as seen, registering the
// ones the store does not know yet. An unreadable root is skipped.
func (c *Catalog) scanRoot(ctx context.Context, root string, groups []*Group) []*Group {
	entries, err := os.ReadDir(root)
	if err != nil {
		c.logger.Debug("skipping sticker root", "path", root, "err", err)
		return groups
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(root, name)

		g := findGroup(groups, dir)
		if g == nil {
			g = &Group{
				ID:       dir,
				Name:     name,
				Ordering: maxOrdering(groups, c.opts.Category) + 1,
				Category: c.opts.Category,
			}
			if err := c.store.InsertGroup(ctx, g.Record()); err != nil {
				c.logger.Warn("cannot register sticker group", "group", dir, "err", err)
				continue
			}
			g.recorded = true
			g.stored = g.Ordering
			delete(c.removed, dir)
			groups = append(groups, g)
		}

		g.ToolbarIcon = sticker.TabThumbnail(dir)
		g.Permutable = true
		g.Removable = c.removable(dir)
		g.Initialized = true
	}
	return groups
}

func (c *Catalog) removable(id string) bool {
	if c.opts.ReadOnlyPrefix == "" {
		return true
	}
	return !strings.HasPrefix(id, c.opts.ReadOnlyPrefix)
}

func (c *Catalog) loadRecent(ctx context.Context) []*sticker.Icon {
	entries, err := c.store.ListRecent(ctx, c.opts.recentLimit())
	if err != nil {
		c.logger.Warn("cannot list recent stickers", "err", err)
		return nil
	}

	icons := make([]*sticker.Icon, 0, len(entries))
	for _, e := range entries {
		icon, err := c.decoder.Resolve(e.ID, e.Kind)
		if err != nil {
			c.logger.Debug("skipping recent sticker", "id", e.ID, "kind", e.Kind, "err", err)
			continue
		}
		icons = append(icons, icon)
	}
	return icons
}

// Groups returns the canonical group list
func (c *Catalog) Groups() []*Group {
	return append([]*Group(nil), c.groups...)
}

// Len returns the number of groups
func (c *Catalog) Len() int {
	return len(c.groups)
}

// Group returns the group with the given id
func (c *Catalog) Group(id string) (*Group, bool) {
	g := findGroup(c.groups, id)
	return g, g != nil
}

// RecentGroup returns the recent group of the configured category
func (c *Catalog) RecentGroup() *Group {
	for _, g := range c.groups {
		if g.Recent && g.Category == c.opts.Category {
			return g
		}
	}
	return nil
}

// GroupAt returns the group holding the given ordering in a category
func (c *Catalog) GroupAt(category, ordering int) (*Group, bool) {
	for _, g := range c.groups {
		if g.Category == category && g.Ordering == ordering {
			return g, true
		}
	}
	return nil, false
}

// LoadIcons builds the icon list of a directory group on first use. It
// returns the icons, which are empty when the directory holds no stickers.
func (c *Catalog) LoadIcons(g *Group) []*sticker.Icon {
	if g.loaded || g.Pseudo() {
		return g.Icons
	}

	icons, err := c.decoder.ListGroup(g.ID)
	if err != nil {
		c.logger.Debug("cannot load sticker group", "group", g.ID, "err", err)
		return nil
	}
	if len(icons) == 0 {
		return nil
	}
	g.Icons = icons
	g.loaded = true
	return icons
}

// LoadAll builds the icon list of every group
func (c *Catalog) LoadAll() {
	for _, g := range c.groups {
		c.LoadIcons(g)
	}
}

// Close releases the group list. Every later call returns ErrAlreadyRemoved.
func (c *Catalog) Close() error {
	if c.closed {
		return fmt.Errorf("catalog closed: %w", ErrAlreadyRemoved)
	}
	c.closed = true
	c.groups = nil
	return nil
}

func findGroup(groups []*Group, id string) *Group {
	for _, g := range groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func maxOrdering(groups []*Group, category int) int {
	highest := 0
	for _, g := range groups {
		if g.Category == category && g.Ordering > highest {
			highest = g.Ordering
		}
	}
	return highest
}

// sort orders groups by category, then ordering, keeping discovery order on ties
func (c *Catalog) sort() {
	sort.SliceStable(c.groups, func(i, j int) bool {
		if c.groups[i].Category != c.groups[j].Category {
			return c.groups[i].Category < c.groups[j].Category
		}
		return c.groups[i].Ordering < c.groups[j].Ordering
	})
}
