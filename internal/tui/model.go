// Package tui is the terminal host of the sticker panel.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/liminalpurple/sticker-panel/internal/catalog"
	"github.com/liminalpurple/sticker-panel/internal/panel"
	"github.com/liminalpurple/sticker-panel/internal/scheduler"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// tickMsg drives the scheduler loop
type tickMsg time.Time

func tickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// grid is the icon list shown under a tab
type grid struct {
	icons []*sticker.Icon
}

func (g *grid) Append(icon *sticker.Icon) {
	g.icons = append(g.icons, icon)
}

func (g *grid) Prepend(icon *sticker.Icon) {
	g.icons = append([]*sticker.Icon{icon}, g.icons...)
}

func (g *grid) Remove(icon *sticker.Icon) {
	for i, existing := range g.icons {
		if existing.Key() == icon.Key() {
			g.icons = append(g.icons[:i], g.icons[i+1:]...)
			return
		}
	}
}

// Model is the interactive sticker panel
type Model struct {
	ctx     context.Context
	panel   *panel.Panel
	session *panel.Session
	keys    KeyMap

	grids    map[string]*grid
	groupID  string
	cursor   int
	settings bool
	playing  *sticker.Icon
	frame    string
	status   string
	failed   bool
	width    int
}

// New creates a model whose tasks run on loop
func New(ctx context.Context, loop *scheduler.Loop) *Model {
	m := &Model{
		ctx:   ctx,
		keys:  DefaultKeyMap(),
		grids: make(map[string]*grid),
	}
	m.panel = panel.New(m, loop)
	return m
}

// Attach opens the panel session
func (m *Model) Attach(opts panel.Options) error {
	s, err := m.panel.Attach(m.ctx, opts)
	if err != nil {
		return err
	}
	m.session = s
	if groups := s.Catalog().Groups(); len(groups) > 0 {
		m.groupID = groups[0].ID
	}
	return nil
}

// Close closes the panel session
func (m *Model) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Close()
	m.session = nil
	return err
}

// GridFor returns the grid of a group, creating it on first use
func (m *Model) GridFor(g *catalog.Group) panel.Grid {
	if g == nil {
		return nil
	}
	gr, ok := m.grids[g.ID]
	if !ok {
		gr = &grid{}
		m.grids[g.ID] = gr
	}
	return gr
}

// AppendSettings shows the settings entry after the last tab
func (m *Model) AppendSettings() {
	m.settings = true
}

// ShowGroup switches the page to the group
func (m *Model) ShowGroup(g *catalog.Group) {
	if m.groupID != g.ID {
		m.cursor = 0
	}
	m.groupID = g.ID
}

// FocusTab selects the group's tab
func (m *Model) FocusTab(g *catalog.Group) {
	m.ShowGroup(g)
}

// Init starts the tick loop
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.panel.Loop().Frame())
}

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.panel.Loop().RunDue(time.Time(msg))
		return m, tickCmd(m.panel.Loop().Frame())

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if err := m.Close(); err != nil {
			m.setError(err)
		}
		return m, tea.Quit
	}
	if m.session == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if gr := m.grids[m.groupID]; gr != nil && m.cursor < len(gr.icons)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PageUp):
		m.scrollPage(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollPage(1)
	case key.Matches(msg, m.keys.Select):
		m.selectIcon()
	case key.Matches(msg, m.keys.Play):
		m.play()
	case key.Matches(msg, m.keys.MoveLeft):
		m.move(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.move(1)
	case key.Matches(msg, m.keys.Delete):
		m.deleteGroup()
	}
	return m, nil
}

func (m *Model) groups() []*catalog.Group {
	if m.session == nil {
		return nil
	}
	return m.session.Catalog().Groups()
}

// current returns the selected group and its index
func (m *Model) current() (*catalog.Group, int) {
	groups := m.groups()
	for i, g := range groups {
		if g.ID == m.groupID {
			return g, i
		}
	}
	if len(groups) > 0 {
		m.groupID = groups[0].ID
		return groups[0], 0
	}
	return nil, -1
}

func (m *Model) currentIcon() *sticker.Icon {
	gr := m.grids[m.groupID]
	if gr == nil || m.cursor < 0 || m.cursor >= len(gr.icons) {
		return nil
	}
	return gr.icons[m.cursor]
}

func (m *Model) switchTab(delta int) {
	groups := m.groups()
	_, i := m.current()
	if i < 0 {
		return
	}
	i += delta
	if i < 0 || i >= len(groups) {
		return
	}
	m.panel.Events().EmitTabChanged(panel.TabChanged{GroupID: groups[i].ID})
}

func (m *Model) scrollPage(delta int) {
	g, _ := m.current()
	if g == nil {
		return
	}
	m.panel.Events().EmitScrollSettled(panel.ScrollSettled{Category: g.Category, Index: g.Ordering + delta})
}

func (m *Model) selectIcon() {
	icon := m.currentIcon()
	if icon == nil {
		return
	}
	promoted, err := m.session.Select(m.ctx, icon)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Sent %s", promoted.Keyword))
}

func (m *Model) play() {
	icon := m.currentIcon()
	if icon == nil {
		return
	}
	if !icon.Animated() {
		m.setStatus(fmt.Sprintf("%s is not animated", icon.Keyword))
		return
	}
	if _, err := m.session.Animate(icon, m.showFrame); err != nil {
		m.setError(err)
	}
}

func (m *Model) showFrame(icon *sticker.Icon, f sticker.Frame) {
	m.playing = icon
	m.frame = filepath.Base(f.Path)
}

func (m *Model) move(delta int) {
	g, _ := m.current()
	if g == nil {
		return
	}
	if err := m.session.Reorder(m.ctx, g.ID, g.Ordering+delta); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Moved %s", g.Name))
}

func (m *Model) deleteGroup() {
	g, _ := m.current()
	if g == nil {
		return
	}
	if err := m.session.Delete(m.ctx, g.ID); err != nil {
		m.setError(err)
		return
	}
	delete(m.grids, g.ID)
	m.groupID = ""
	m.cursor = 0
	m.current()
	m.setStatus(fmt.Sprintf("Deleted %s", g.Name))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

// View renders the panel
func (m *Model) View() string {
	if m.session == nil {
		return DimStyle.Render("Sticker panel closed.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Stickers"))
	b.WriteString("\n\n")

	current, _ := m.current()
	var tabs []string
	for _, g := range m.groups() {
		style := TabStyle
		if current != nil && g.ID == current.ID {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(g.Name))
	}
	if m.settings {
		tabs = append(tabs, TabStyle.Render("⚙ Settings"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	if m.status != "" {
		if m.failed {
			b.WriteString(ErrorStyle.Render(m.status))
		} else {
			b.WriteString(SuccessStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderGrid() string {
	gr := m.grids[m.groupID]
	var lines []string
	if gr == nil || len(gr.icons) == 0 {
		lines = append(lines, DimStyle.Render("No stickers"))
	} else {
		for i, icon := range gr.icons {
			line := icon.Keyword
			if icon.Animated() {
				line += DimStyle.Render(fmt.Sprintf("  %d frames", len(icon.Frames)))
			}
			if icon == m.playing {
				line += "  ▶ " + m.frame
			}
			if i == m.cursor {
				line = SelectedStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
	}

	style := GridStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelp() string {
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return DimStyle.Render(strings.Join(parts, " • "))
}
