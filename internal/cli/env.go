// Package cli provides command-line interface commands for stickerpanel.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/liminalpurple/sticker-panel/internal/catalog"
	"github.com/liminalpurple/sticker-panel/internal/config"
	"github.com/liminalpurple/sticker-panel/internal/logging"
	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// env holds what the catalog commands share
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	logs    io.Closer
	store   *storage.Store
	catalog *catalog.Catalog
}

// loadConfig loads configuration and sets up logging
func loadConfig() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, logger, closer, nil
}

// openEnv loads configuration, opens the store, and reconciles the catalog
func openEnv(ctx context.Context) (*env, error) {
	cfg, logger, closer, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e, err := openEnvWith(ctx, cfg, logger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	e.logs = closer
	return e, nil
}

// openEnvWith opens the store and reconciles the catalog for a loaded config
func openEnvWith(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*env, error) {
	e := &env{cfg: cfg, logger: logger}

	opts, err := catalog.OptionsFromConfig(cfg.Catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog config: %w", err)
	}

	e.store, err = storage.Open(cfg.Storage.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open sticker store: %w", err)
	}

	e.catalog, err = catalog.Open(ctx, e.store, opts)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to build sticker catalog: %w", err)
	}
	return e, nil
}

// Close releases the catalog, the store, and the log file
func (e *env) Close() {
	if e.catalog != nil {
		_ = e.catalog.Close()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("cannot close sticker store", "err", err)
		}
	}
	if e.logs != nil {
		_ = e.logs.Close()
	}
}

// terminalWidth returns the width of stdout, or a default when it is not a terminal
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

// truncate shortens s to width runes, marking the cut with an ellipsis
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// groupFlags summarizes a group's flags as a short string
func groupFlags(g *catalog.Group) string {
	var flags []string
	if g.Recent {
		flags = append(flags, "recent")
	}
	if g.UserDefined {
		flags = append(flags, "user")
	}
	if g.Permutable {
		flags = append(flags, "movable")
	}
	if g.Removable {
		flags = append(flags, "removable")
	}
	return strings.Join(flags, ",")
}
