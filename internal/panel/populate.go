package panel

import (
	"time"

	"github.com/liminalpurple/sticker-panel/internal/catalog"
	"github.com/liminalpurple/sticker-panel/internal/scheduler"
)

// Population fills the group grids one group per tick, then appends the
// settings affordance and stops. Groups are remembered by id, so a reorder
// or delete between ticks neither skips a group nor fills it twice.
type Population struct {
	catalog  *catalog.Catalog
	host     Host
	interval time.Duration

	visited  map[string]bool
	cursor   int
	settings bool
}

// NewPopulation creates a population task over the catalog's group list
func NewPopulation(c *catalog.Catalog, host Host, interval time.Duration) *Population {
	return &Population{catalog: c, host: host, interval: interval, visited: make(map[string]bool)}
}

// Cursor returns the number of groups populated so far
func (p *Population) Cursor() int {
	return p.cursor
}

// next returns the first group of the live list not populated yet
func (p *Population) next() *catalog.Group {
	for _, g := range p.catalog.Groups() {
		if !p.visited[g.ID] {
			return g
		}
	}
	return nil
}

// Done reports whether every group was visited and settings appended
func (p *Population) Done() bool {
	return p.settings
}

// Tick populates the next group in list order
func (p *Population) Tick(t *scheduler.Tick) scheduler.Action {
	g := p.next()
	if g == nil {
		if !p.settings {
			p.host.AppendSettings()
			p.settings = true
		}
		return scheduler.Stop
	}

	p.visited[g.ID] = true
	p.cursor++

	icons := p.catalog.LoadIcons(g)
	if grid := p.host.GridFor(g); grid != nil {
		for _, icon := range icons {
			if icon.Displayable() {
				grid.Append(icon)
			}
		}
	}

	t.SetDelay(p.interval)
	return scheduler.Renew
}
