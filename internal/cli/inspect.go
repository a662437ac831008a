package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Decode one sticker and probe its images",
		Long: `Decode a sticker directory (or a single sticker file) and print what the
panel would build from it: keyword, thumbnail, playback settings, and every
frame with its order and duration.

Each image is probed for its dimensions and format.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
	cmd.Flags().String("frame-order", "", "frame sorting: path or order (default from config)")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	orderName, _ := cmd.Flags().GetString("frame-order")
	if orderName == "" {
		cfg, _, closer, err := loadConfig()
		if err != nil {
			return err
		}
		defer closer.Close()
		orderName = cfg.Catalog.FrameOrder
	}
	order, err := sticker.ParseFrameOrder(orderName)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	kind := sticker.KindFile
	if info.IsDir() {
		kind = sticker.KindDirectory
	}
	decoder := &sticker.Decoder{Order: order}
	icon, err := decoder.Resolve(path, kind)
	if err != nil {
		return fmt.Errorf("failed to decode sticker: %w", err)
	}

	fmt.Fprintf(out, "Sticker:   %s\n", icon.Source)
	fmt.Fprintf(out, "Kind:      %s\n", icon.Kind)
	fmt.Fprintf(out, "Keyword:   %s\n", icon.Keyword)
	probe := sticker.ProbeIcon(icon)

	fmt.Fprintf(out, "Thumbnail: %s\n", icon.ThumbnailPath)
	if icon.ThumbnailPath != "" {
		printProbe(out, probe.Thumbnail, probe.Errors[icon.ThumbnailPath])
		if hash, err := sticker.HashFile(icon.ThumbnailPath); err == nil {
			fmt.Fprintf(out, "      sha256 %s\n", hash[:16]+"...")
		}
	}
	if !icon.Displayable() {
		fmt.Fprintln(out, "⚠️  Not shown in the panel: keyword or thumbnail missing")
	}

	if len(icon.Frames) == 0 {
		return nil
	}
	fmt.Fprintf(out, "Playback:  repeat %d, interval %dms, type %d, thumbnail frame %d\n",
		icon.RepeatCount, icon.RepeatInterval, icon.PlayType, icon.ThumbnailFrame)
	fmt.Fprintf(out, "Frames:    %d\n", len(icon.Frames))
	for i, f := range icon.Frames {
		fmt.Fprintf(out, "  %2d. %s (order %d, %dms)\n", i+1, filepath.Base(f.Path), f.Order, f.Duration)
		printProbe(out, probe.Frames[i], probe.Errors[f.Path])
	}
	if !probe.Uniform() {
		fmt.Fprintln(out, "⚠️  Frames differ in size")
	}
	return nil
}

func printProbe(out io.Writer, info *sticker.ImageInfo, err error) {
	if err != nil {
		fmt.Fprintf(out, "      ❌ %v\n", err)
		return
	}
	if info == nil {
		return
	}
	fmt.Fprintf(out, "      %dx%d %s, %d bytes\n", info.Width, info.Height, info.MimeType(), info.SizeBytes)
	if !info.ExtensionMatches() {
		fmt.Fprintf(out, "      ⚠️  extension does not match %s content\n", info.Format)
	}
}
