package tui

import (
	"github.com/liminalpurple/sticker-panel/internal/catalog"
	"github.com/liminalpurple/sticker-panel/internal/panel"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// Headless is a host without a screen. It keeps the grids a screen would show.
type Headless struct {
	grids    map[string]*grid
	settings bool
}

// NewHeadless creates an empty headless host
func NewHeadless() *Headless {
	return &Headless{grids: make(map[string]*grid)}
}

func (h *Headless) GridFor(g *catalog.Group) panel.Grid {
	if g == nil {
		return nil
	}
	gr, ok := h.grids[g.ID]
	if !ok {
		gr = &grid{}
		h.grids[g.ID] = gr
	}
	return gr
}

func (h *Headless) AppendSettings() {
	h.settings = true
}

func (h *Headless) ShowGroup(g *catalog.Group) {}

func (h *Headless) FocusTab(g *catalog.Group) {}

// Settings reports whether the settings entry was appended
func (h *Headless) Settings() bool {
	return h.settings
}

// Icons returns the icons shown for a group
func (h *Headless) Icons(groupID string) []*sticker.Icon {
	if gr := h.grids[groupID]; gr != nil {
		return gr.icons
	}
	return nil
}
