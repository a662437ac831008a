package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// NewRecentCmd creates the recent command
func NewRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used stickers",
		Long: `List the stickers recorded as recently used, most recent first.

Entries whose sticker no longer exists on disk are still listed, marked as
missing; the panel skips them.`,
		RunE: runRecent,
	}
	cmd.Flags().IntP("limit", "n", 0, "maximum entries to list (default from config)")
	return cmd
}

func runRecent(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = e.cfg.Catalog.RecentLimit
	}

	entries, err := e.store.ListRecent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list recent stickers: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No recent stickers.")
		return nil
	}

	decoder := &sticker.Decoder{}
	for i, entry := range entries {
		status := ""
		if _, err := decoder.Resolve(entry.ID, entry.Kind); err != nil {
			status = "  (missing)"
		}
		fmt.Fprintf(out, "%3d. %-10s %-22s %s%s\n",
			i+1, entry.Kind, entry.TouchedAt.Local().Format(time.DateTime), entry.ID, status)
	}
	return nil
}

// NewTouchCmd creates the touch command
func NewTouchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "touch <path>",
		Short: "Mark a sticker as just used",
		Long: `Record a sticker as just used and move it to the head of the recent group,
as the panel does when a sticker is sent.

The kind is inferred from the path (directory or file) unless --kind is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runTouch,
	}
	cmd.Flags().String("kind", "", "sticker kind: directory or file")
	return cmd
}

func runTouch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	kindName, _ := cmd.Flags().GetString("kind")
	var kind sticker.Kind
	if kindName != "" {
		if kind, err = sticker.ParseKind(kindName); err != nil {
			return err
		}
	} else if kind, err = inferKind(path); err != nil {
		return err
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	icon, err := e.catalog.TouchAndPromote(cmd.Context(), path, kind)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ %s is now the most recent sticker\n", displayName(icon))
	return nil
}

// NewReorderCmd creates the reorder command
func NewReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <group-id> <index>",
		Short: "Move a sticker group to a new position",
		Long: `Move a group to a new position within its category and save the new order.

Pinned groups such as Recent keep their place at the front; an index before
them, or past the end, is clamped.`,
		Args: cobra.ExactArgs(2),
		RunE: runReorder,
	}
}

func runReorder(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[1], err)
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	id := groupArg(args[0])
	if err := e.catalog.Reorder(cmd.Context(), id, index); err != nil {
		return err
	}

	g, _ := e.catalog.Group(id)
	fmt.Fprintf(out, "✅ Moved %s to position %d\n", g.Name, g.Ordering)
	return nil
}

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a sticker group",
		Long: `Delete a downloaded sticker group: its record, its place in the panel, and
(unless --keep-files is set) its directory.

Groups under the read-only system tree and the Recent group cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
	cmd.Flags().Bool("keep-files", false, "keep the group directory on disk")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	keep, _ := cmd.Flags().GetBool("keep-files")

	cfg, logger, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()
	if keep {
		cfg.Catalog.DeleteFiles = false
	}

	e, err := openEnvWith(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	id := groupArg(args[0])
	name := id
	if g, ok := e.catalog.Group(id); ok {
		name = g.Name
	}
	if err := e.catalog.DeleteGroup(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(out, "🗑️  Deleted %s (%d groups left)\n", name, e.catalog.Len())
	return nil
}

// groupArg resolves a group id given on the command line. Directory paths
// are made absolute; the reserved pseudo-group ids pass through.
func groupArg(arg string) string {
	if strings.HasPrefix(arg, "__") || filepath.IsAbs(arg) {
		return arg
	}
	if abs, err := filepath.Abs(arg); err == nil {
		return abs
	}
	return arg
}

func inferKind(path string) (sticker.Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return sticker.KindNone, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return sticker.KindDirectory, nil
	}
	return sticker.KindFile, nil
}

func displayName(icon *sticker.Icon) string {
	if icon.Keyword != "" {
		return icon.Keyword
	}
	return filepath.Base(icon.Source)
}
