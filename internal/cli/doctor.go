package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/liminalpurple/sticker-panel/internal/panel"
	"github.com/liminalpurple/sticker-panel/internal/scheduler"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
	"github.com/liminalpurple/sticker-panel/internal/storage"
	"github.com/liminalpurple/sticker-panel/internal/tui"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the sticker panel can start",
		Long: `Check that all components are working correctly:

  - Configuration loads properly
  - Sticker roots exist
  - Store opens and carries the expected schema version
  - Catalog reconciles and every group populates
  - Toolbar thumbnails decode

This is useful for verifying setup before opening the panel.`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "🩺 Checking sticker panel...")
	fmt.Fprintln(out)

	// Step 1: Load configuration
	fmt.Fprint(out, "📋 Loading configuration... ")
	cfg, logger, closer, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "❌\n   Error: %v\n", err)
		return err
	}
	defer closer.Close()
	fmt.Fprintln(out, "✅")

	// Step 2: Sticker roots
	fmt.Fprintln(out, "📂 Checking sticker roots...")
	found := 0
	for _, root := range cfg.Catalog.Sources() {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			fmt.Fprintf(out, "   ✅ %s\n", root)
			found++
		} else {
			fmt.Fprintf(out, "   ⚠️  %s (missing)\n", root)
		}
	}
	if found == 0 {
		fmt.Fprintln(out, "   ⚠️  No sticker root exists; only recent stickers will show")
	}

	// Step 3: Store and catalog
	fmt.Fprint(out, "💾 Opening store and catalog... ")
	opts, err := panel.OptionsFromConfig(cfg, logger)
	if err != nil {
		fmt.Fprintf(out, "❌\n   Error: %v\n", err)
		return err
	}
	loop := scheduler.NewLoop(time.Duration(cfg.Player.FrameIntervalMS) * time.Millisecond)
	host := tui.NewHeadless()
	s, err := panel.New(host, loop).Attach(ctx, opts)
	if err != nil {
		fmt.Fprintf(out, "❌\n   Error: %v\n", err)
		return err
	}
	defer s.Close()
	fmt.Fprintf(out, "✅\n   %s, %d groups\n", opts.DBPath, s.Catalog().Len())

	// Step 4: Schema version
	fmt.Fprint(out, "🔢 Checking schema version... ")
	version, err := s.Store().Version(ctx)
	if err != nil {
		fmt.Fprintf(out, "❌\n   Error: %v\n", err)
		return err
	}
	if version != storage.SchemaVersion {
		fmt.Fprintf(out, "❌\n   Found %d, expected %d\n", version, storage.SchemaVersion)
		return fmt.Errorf("unexpected schema version %d", version)
	}
	fmt.Fprintf(out, "✅\n   Version %d\n", version)

	// Step 5: Populate every group
	fmt.Fprint(out, "⏱️  Populating groups... ")
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := loop.Run(runCtx); err != nil {
		fmt.Fprintf(out, "❌\n   Error: %v\n", err)
		return err
	}
	stickers := 0
	for _, g := range s.Catalog().Groups() {
		stickers += len(host.Icons(g.ID))
	}
	fmt.Fprintf(out, "✅\n   %d stickers shown\n", stickers)

	// Step 6: Toolbar thumbnails
	fmt.Fprint(out, "🖼️  Decoding toolbar thumbnails... ")
	var broken []string
	for _, g := range s.Catalog().Groups() {
		if g.ToolbarIcon == "" {
			continue
		}
		if _, err := sticker.Probe(g.ToolbarIcon); err != nil {
			broken = append(broken, fmt.Sprintf("%s: %v", g.Name, err))
		}
	}
	if len(broken) > 0 {
		fmt.Fprintln(out, "⚠️")
		for _, b := range broken {
			fmt.Fprintf(out, "   %s\n", b)
		}
	} else {
		fmt.Fprintln(out, "✅")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "🎉 All checks passed! The sticker panel is ready.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To open the panel, run:")
	fmt.Fprintln(out, "  stickerpanel browse")
	fmt.Fprintln(out)
	return nil
}
