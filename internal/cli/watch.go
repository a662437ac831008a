package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reconcile the catalog whenever a sticker root changes",
		Long: `Watch the preset and downloaded sticker roots and reconcile the catalog
each time a group directory is added, removed, or renamed.

Bursts of changes are coalesced. The watcher runs until interrupted with Ctrl+C.`,
		RunE: runWatch,
	}
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet time before reconciling")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	debounce, _ := cmd.Flags().GetDuration("debounce")

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, root := range e.cfg.Catalog.Sources() {
		if err := watcher.Add(root); err != nil {
			e.logger.Warn("cannot watch sticker root", "path", root, "err", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no sticker root could be watched")
	}

	fmt.Fprintf(out, "👀 Watching %d sticker roots (%d groups)\n", watched, e.catalog.Len())

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				e.logger.Debug("sticker root changed", "path", event.Name, "op", event.Op.String())
				pending = time.After(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", "err", err)

		case <-pending:
			pending = nil
			if err := e.catalog.Reconcile(ctx); err != nil {
				return fmt.Errorf("failed to reconcile catalog: %w", err)
			}
			fmt.Fprintf(out, "🔄 Reconciled: %d groups\n", e.catalog.Len())

		case sig := <-sigChan:
			e.logger.Info("received signal", "signal", sig.String())
			return nil

		case <-ctx.Done():
			return nil
		}
	}
}
