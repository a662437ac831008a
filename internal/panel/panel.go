// Package panel binds a sticker catalog to a UI host for one session. It
// fills the group grids incrementally, plays animations, and keeps tabs and
// pages in step, all as short ticks on a cooperative scheduler loop.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/liminalpurple/sticker-panel/internal/catalog"
	"github.com/liminalpurple/sticker-panel/internal/config"
	"github.com/liminalpurple/sticker-panel/internal/logging"
	"github.com/liminalpurple/sticker-panel/internal/scheduler"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// Session errors
var (
	// ErrAlreadyExists indicates the host already has an open session
	ErrAlreadyExists = errors.New("panel session already exists")

	// ErrAlreadyRemoved indicates the session was closed
	ErrAlreadyRemoved = errors.New("panel session already removed")
)

// Grid is the icon surface of one group
type Grid interface {
	Append(icon *sticker.Icon)
	Prepend(icon *sticker.Icon)
	Remove(icon *sticker.Icon)
}

// Host is the UI that displays the catalog
type Host interface {
	// GridFor returns the grid of a group, or nil when it has none yet
	GridFor(g *catalog.Group) Grid
	AppendSettings()
	// ShowGroup brings the group's page into view
	ShowGroup(g *catalog.Group)
	// FocusTab selects the group's tab
	FocusTab(g *catalog.Group)
}

// Options configures a session
type Options struct {
	DBPath             string
	Catalog            catalog.Options
	PopulationInterval time.Duration
	Logger             *slog.Logger
}

// OptionsFromConfig builds session options from the loaded configuration
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) (Options, error) {
	catOpts, err := catalog.OptionsFromConfig(cfg.Catalog, logger)
	if err != nil {
		return Options{}, err
	}
	return Options{
		DBPath:             cfg.Storage.DBPath(),
		Catalog:            catOpts,
		PopulationInterval: time.Duration(cfg.Player.PopulationIntervalMS) * time.Millisecond,
		Logger:             logger,
	}, nil
}

// Panel owns the host side of the sticker panel and at most one session
type Panel struct {
	host    Host
	loop    *scheduler.Loop
	events  *Events
	session *Session
}

// New creates a panel for host whose tasks run on loop
func New(host Host, loop *scheduler.Loop) *Panel {
	return &Panel{host: host, loop: loop, events: &Events{}}
}

// Events returns the panel's observer lists
func (p *Panel) Events() *Events {
	return p.events
}

// Loop returns the scheduler loop
func (p *Panel) Loop() *scheduler.Loop {
	return p.loop
}

// Session returns the open session, if any
func (p *Panel) Session() *Session {
	return p.session
}

// Attach opens the store, builds the catalog, and starts populating the
// host's grids
func (p *Panel) Attach(ctx context.Context, opts Options) (*Session, error) {
	if p.session != nil {
		return nil, ErrAlreadyExists
	}
	logger := logging.OrNull(opts.Logger)

	store, err := storage.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sticker store: %w", err)
	}

	if opts.Catalog.Logger == nil {
		opts.Catalog.Logger = logger
	}
	cat, err := catalog.Open(ctx, store, opts.Catalog)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build sticker catalog: %w", err)
	}

	s := &Session{
		panel:      p,
		store:      store,
		catalog:    cat,
		logger:     logger,
		animations: make(map[*sticker.Icon]*Animation),
	}
	s.population = NewPopulation(cat, p.host, opts.PopulationInterval)
	s.populating = p.loop.Add(s.population.Tick)

	s.unsubscribe = append(s.unsubscribe,
		p.events.OnTabChanged(s.onTabChanged),
		p.events.OnScrollSettled(s.onScrollSettled),
	)

	p.session = s
	logger.Info("sticker panel attached", "groups", cat.Len(), "db", opts.DBPath)
	return s, nil
}

// Session is one open sticker panel
type Session struct {
	panel   *Panel
	store   *storage.Store
	catalog *catalog.Catalog
	logger  *slog.Logger

	population  *Population
	populating  *scheduler.Handle
	animations  map[*sticker.Icon]*Animation
	unsubscribe []func()
	closed      bool
}

// Catalog returns the session's catalog
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Store returns the session's store
func (s *Session) Store() *storage.Store {
	return s.store
}

// Population returns the population task
func (s *Session) Population() *Population {
	return s.population
}

// Select records the icon as used and moves it to the head of the recent
// group and its grid
func (s *Session) Select(ctx context.Context, icon *sticker.Icon) (*sticker.Icon, error) {
	if s.closed {
		return nil, ErrAlreadyRemoved
	}

	recent := s.catalog.RecentGroup()
	existed := recent != nil && recent.IconIndex(icon.Key()) >= 0

	promoted, err := s.catalog.TouchAndPromote(ctx, icon.Source, icon.Kind)
	if err != nil {
		return nil, err
	}

	if grid := s.panel.host.GridFor(recent); grid != nil && promoted.Displayable() {
		if existed {
			grid.Remove(promoted)
		}
		grid.Prepend(promoted)
	}
	return promoted, nil
}

// Animate starts, or restarts from the first frame, the animation of icon
func (s *Session) Animate(icon *sticker.Icon, display Display) (*Animation, error) {
	if s.closed {
		return nil, ErrAlreadyRemoved
	}
	a, ok := s.animations[icon]
	if !ok {
		a = NewAnimation(s.panel.loop, icon, display)
		s.animations[icon] = a
	}
	a.Start()
	return a, nil
}

// StopAnimation cancels the animation of icon, if any
func (s *Session) StopAnimation(icon *sticker.Icon) {
	if a, ok := s.animations[icon]; ok {
		a.Stop()
		delete(s.animations, icon)
	}
}

// Reorder moves a group to a new index within its category
func (s *Session) Reorder(ctx context.Context, groupID string, newIndex int) error {
	if s.closed {
		return ErrAlreadyRemoved
	}
	return s.catalog.Reorder(ctx, groupID, newIndex)
}

// Delete removes a group after cancelling the animations of its icons
func (s *Session) Delete(ctx context.Context, groupID string) error {
	if s.closed {
		return ErrAlreadyRemoved
	}
	if g, ok := s.catalog.Group(groupID); ok {
		for _, icon := range g.Icons {
			s.StopAnimation(icon)
		}
	}
	return s.catalog.DeleteGroup(ctx, groupID)
}

// Close cancels every task of the session, then releases the catalog and
// the store
func (s *Session) Close() error {
	if s.closed {
		return ErrAlreadyRemoved
	}
	s.closed = true

	s.populating.Cancel()
	for icon, a := range s.animations {
		a.Stop()
		delete(s.animations, icon)
	}
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil

	if err := s.catalog.Close(); err != nil {
		s.logger.Warn("cannot close sticker catalog", "err", err)
	}
	s.panel.session = nil

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("failed to close sticker store: %w", err)
	}
	return nil
}

func (s *Session) onTabChanged(ev TabChanged) {
	if g, ok := s.catalog.Group(ev.GroupID); ok {
		s.panel.host.ShowGroup(g)
	}
}

func (s *Session) onScrollSettled(ev ScrollSettled) {
	if g, ok := s.catalog.GroupAt(ev.Category, ev.Index); ok {
		s.panel.host.FocusTab(g)
	}
}
