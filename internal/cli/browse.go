package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/liminalpurple/sticker-panel/internal/logging"
	"github.com/liminalpurple/sticker-panel/internal/panel"
	"github.com/liminalpurple/sticker-panel/internal/scheduler"
	"github.com/liminalpurple/sticker-panel/internal/tui"
)

// NewBrowseCmd creates the browse command
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive sticker panel",
		Long: `Open the sticker panel in the terminal. Groups are filled one per tick
while the panel is already usable, and animated stickers play on demand.

Keys: ←/→ switch groups, ↑/↓ pick a sticker, enter sends it, space plays it,
[ and ] move the group, d deletes it, q quits.

When stdout is not a terminal (or with --headless) the panel is populated
without a screen and a summary is printed.`,
		RunE: runBrowse,
	}
	cmd.Flags().Bool("headless", false, "populate without a screen and print a summary")
	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	headless, _ := cmd.Flags().GetBool("headless")
	interactive := !headless && term.IsTerminal(int(os.Stdout.Fd()))

	cfg, logger, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	// Log lines would tear the screen
	if interactive && cfg.Logging.File == "" {
		logger = logging.Null()
	}

	opts, err := panel.OptionsFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	loop := scheduler.NewLoop(time.Duration(cfg.Player.FrameIntervalMS) * time.Millisecond)

	if !interactive {
		return runHeadless(ctx, cmd.OutOrStdout(), loop, opts)
	}

	m := tui.New(ctx, loop)
	if err := m.Attach(opts); err != nil {
		return fmt.Errorf("failed to open sticker panel: %w", err)
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("sticker panel error: %w", err)
	}
	return nil
}

// runHeadless populates every group without a screen and prints what a
// screen would show
func runHeadless(ctx context.Context, out io.Writer, loop *scheduler.Loop, opts panel.Options) error {
	host := tui.NewHeadless()
	p := panel.New(host, loop)

	s, err := p.Attach(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to open sticker panel: %w", err)
	}
	defer s.Close()

	start := time.Now()
	if err := loop.Run(ctx); err != nil {
		return fmt.Errorf("population interrupted: %w", err)
	}

	groups := s.Catalog().Groups()
	for _, g := range groups {
		fmt.Fprintf(out, "%3d  %-24s %d stickers\n", g.Ordering, truncate(g.Name, 24), len(host.Icons(g.ID)))
	}
	if host.Settings() {
		fmt.Fprintln(out, "     ⚙ Settings")
	}
	fmt.Fprintf(out, "Populated %d groups in %d ticks (%s)\n",
		len(groups), s.Population().Cursor()+1, time.Since(start).Round(time.Millisecond))
	return nil
}
