package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liminalpurple/sticker-panel/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "stickerpanel",
		Short: "Sticker catalog and panel engine",
		Long: `Sticker Panel - catalog engine and terminal panel for on-device sticker packs.

Reconcile sticker directories with the saved group order.
Track recently used stickers.
Browse, reorder, and delete groups from an interactive panel.`,
		Version: version,
	}

	// Add commands
	rootCmd.AddCommand(cli.NewInitCmd())
	rootCmd.AddCommand(cli.NewDoctorCmd())
	rootCmd.AddCommand(cli.NewGroupsCmd())
	rootCmd.AddCommand(cli.NewInspectCmd())
	rootCmd.AddCommand(cli.NewRecentCmd())
	rootCmd.AddCommand(cli.NewTouchCmd())
	rootCmd.AddCommand(cli.NewReorderCmd())
	rootCmd.AddCommand(cli.NewDeleteCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewReportCmd())
	rootCmd.AddCommand(cli.NewWatchCmd())
	rootCmd.AddCommand(cli.NewBrowseCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
