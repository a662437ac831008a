package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// trim drops groups missing from the last scan and re-sequences the rest
// so each category's orderings run 0..n-1. Only registered groups whose
// ordering changed are written back.
func (c *Catalog) trim(ctx context.Context) {
	next := make(map[int]int)
	kept := c.groups[:0]

	for _, g := range c.groups {
		if !g.Initialized {
			c.logger.Debug("removing stale sticker group", "group", g.ID)
			if g.recorded {
				if err := c.store.DeleteGroup(ctx, g.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
					c.logger.Warn("cannot delete sticker group", "group", g.ID, "err", err)
				}
			}
			continue
		}

		g.Ordering = next[g.Category]
		next[g.Category]++

		if g.recorded && g.stored != g.Ordering {
			if err := c.store.UpdateGroupOrdering(ctx, g.ID, g.Ordering); err != nil {
				c.logger.Warn("cannot update sticker group ordering", "group", g.ID, "err", err)
			} else {
				g.stored = g.Ordering
			}
		}
		kept = append(kept, g)
	}

	// Clear the tail so dropped groups can be collected
	for i := len(kept); i < len(c.groups); i++ {
		c.groups[i] = nil
	}
	c.groups = kept
}

// Reorder moves a group to newIndex within its category, then re-sequences
// and persists the category. Pinned groups stay where they are: the recent
// group in front, the user-defined group last.
func (c *Catalog) Reorder(ctx context.Context, id string, newIndex int) error {
	g, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !g.Permutable {
		return fmt.Errorf("group %s: %w", id, ErrNotPermutable)
	}

	var peers []*Group
	for _, p := range c.groups {
		if p.Category == g.Category && p != g {
			peers = append(peers, p)
		}
	}

	pinned := 0
	for pinned < len(peers) && !peers[pinned].Permutable {
		pinned++
	}
	tail := len(peers)
	for tail > pinned && !peers[tail-1].Permutable {
		tail--
	}
	if newIndex < pinned {
		newIndex = pinned
	}
	if newIndex > tail {
		newIndex = tail
	}

	peers = append(peers[:newIndex], append([]*Group{g}, peers[newIndex:]...)...)
	for i, p := range peers {
		p.Ordering = i
	}

	c.sort()
	c.trim(ctx)
	return nil
}

// DeleteGroup removes a group from the store, the list, and the disk, then
// re-sequences the remaining groups.
func (c *Catalog) DeleteGroup(ctx context.Context, id string) error {
	g, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !g.Removable {
		return fmt.Errorf("group %s: %w", id, ErrNotRemovable)
	}

	if g.recorded {
		if err := c.store.DeleteGroup(ctx, g.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to delete group %s: %w", id, err)
		}
	}

	if c.opts.DeleteFiles {
		if err := os.RemoveAll(g.ID); err != nil {
			c.logger.Warn("cannot remove sticker group directory", "group", g.ID, "err", err)
		}
	}

	for i, p := range c.groups {
		if p == g {
			c.groups = append(c.groups[:i], c.groups[i+1:]...)
			break
		}
	}
	c.removed[id] = true
	g.Icons = nil

	c.sort()
	c.trim(ctx)
	return nil
}

func (c *Catalog) lookup(id string) (*Group, error) {
	if c.closed {
		return nil, fmt.Errorf("catalog closed: %w", ErrAlreadyRemoved)
	}
	if c.removed[id] {
		return nil, fmt.Errorf("group %s: %w", id, ErrAlreadyRemoved)
	}
	g := findGroup(c.groups, id)
	if g == nil {
		return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return g, nil
}
