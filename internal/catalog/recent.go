package catalog

import (
	"context"
	"fmt"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// TouchAndPromote records a sticker as just used and moves it to the head
// of the recent group, creating its icon when it is not listed yet. The
// group keeps at most the recent limit, like a fresh listing would.
func (c *Catalog) TouchAndPromote(ctx context.Context, id string, kind sticker.Kind) (*sticker.Icon, error) {
	if c.closed {
		return nil, fmt.Errorf("catalog closed: %w", ErrAlreadyRemoved)
	}

	if err := c.store.TouchRecent(ctx, id, kind); err != nil {
		return nil, fmt.Errorf("failed to touch recent sticker %s: %w", id, err)
	}

	recent := c.RecentGroup()
	if recent == nil {
		return nil, fmt.Errorf("recent group: %w", ErrNotFound)
	}

	key := sticker.Key{Source: id, Kind: kind}
	if i := recent.IconIndex(key); i >= 0 {
		icon := recent.Icons[i]
		copy(recent.Icons[1:i+1], recent.Icons[:i])
		recent.Icons[0] = icon
		return icon, nil
	}

	icon, err := c.decoder.Resolve(id, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to build recent sticker %s: %w", id, err)
	}
	recent.Icons = append([]*sticker.Icon{icon}, recent.Icons...)
	if limit := c.opts.recentLimit(); len(recent.Icons) > limit {
		clear(recent.Icons[limit:])
		recent.Icons = recent.Icons[:limit]
	}
	return icon, nil
}
