package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/liminalpurple/sticker-panel/internal/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Write a configuration file with the sticker roots and store location.

When run in a terminal, prompts for the preset, downloaded, and user sticker
directories, offering the current values as defaults. Use --yes to accept
every default without prompting.`,
		RunE: runInit,
	}
	cmd.Flags().BoolP("yes", "y", false, "accept defaults without prompting")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	yes, _ := cmd.Flags().GetBool("yes")

	fmt.Fprintln(out, "Sticker Panel - Setup")
	fmt.Fprintln(out)

	// Load existing config (or defaults)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
		reader := bufio.NewReader(cmd.InOrStdin())
		if err := promptCatalog(reader, out, &cfg.Catalog); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := config.Save(cfg)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "Configuration saved to: %s\n", path)
	fmt.Fprintf(out, "Sticker store: %s\n", cfg.Storage.DBPath())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "You can now run 'stickerpanel groups' to list your sticker groups!")
	return nil
}

// promptCatalog asks for each sticker root, keeping the current value on empty input
func promptCatalog(reader *bufio.Reader, out io.Writer, c *config.CatalogConfig) error {
	var err error
	if c.PresetDir, err = prompt(reader, out, "Preset sticker directory", c.PresetDir); err != nil {
		return err
	}
	if c.DownloadedDir, err = prompt(reader, out, "Downloaded sticker directory", c.DownloadedDir); err != nil {
		return err
	}
	if c.UserDir, err = prompt(reader, out, "User sticker directory", c.UserDir); err != nil {
		return err
	}
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label, current string) (string, error) {
	fmt.Fprintf(out, "%s [%s]: ", label, current)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	if line = strings.TrimSpace(line); line != "" {
		return line, nil
	}
	return current, nil
}
