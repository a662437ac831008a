package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/spf13/cobra"

	"github.com/liminalpurple/sticker-panel/internal/catalog"
	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a catalog report",
		Long: `Decode every group and write a Markdown report of the catalog: the groups
in panel order, their stickers, and the recent stickers.

Use --html to render the report to HTML instead.`,
		RunE: runReport,
	}
	cmd.Flags().Bool("html", false, "render the report as HTML")
	cmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	asHTML, _ := cmd.Flags().GetBool("html")
	output, _ := cmd.Flags().GetString("output")

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	e.catalog.LoadAll()
	recent, err := e.store.ListRecent(cmd.Context(), e.cfg.Catalog.RecentLimit)
	if err != nil {
		e.logger.Warn("cannot list recent stickers", "err", err)
	}

	report := buildReport(e.catalog, recent)
	if asHTML {
		report = markdownToHTML(report)
	}

	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), report)
		return nil
	}
	if err := os.WriteFile(output, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
	return nil
}

// buildReport renders the catalog as Markdown
func buildReport(c *catalog.Catalog, recent []storage.RecentEntry) string {
	var b strings.Builder
	groups := c.Groups()

	b.WriteString("# Sticker Catalog\n\n")
	fmt.Fprintf(&b, "**%d groups**\n\n", len(groups))

	b.WriteString("| # | Group | Stickers | Animated | Flags |\n")
	b.WriteString("|---|-------|----------|----------|-------|\n")
	for _, g := range groups {
		animated := 0
		for _, icon := range g.Icons {
			if icon.Animated() {
				animated++
			}
		}
		fmt.Fprintf(&b, "| %d | %s | %d | %d | %s |\n", g.Ordering, g.Name, len(g.Icons), animated, groupFlags(g))
	}

	for _, g := range groups {
		if g.Recent || len(g.Icons) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", g.Name)
		for _, icon := range g.Icons {
			name := displayName(icon)
			if !icon.Animated() {
				fmt.Fprintf(&b, "- `%s`\n", name)
				continue
			}
			total := 0
			for _, f := range icon.Frames {
				total += f.Duration
			}
			fmt.Fprintf(&b, "- `%s` - %d frames, %dms", name, len(icon.Frames), total)
			if icon.RepeatCount > 0 {
				fmt.Fprintf(&b, ", repeats %d", icon.RepeatCount)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Recent\n\n")
	if len(recent) == 0 {
		b.WriteString("_No recent stickers._\n")
	}
	for i, entry := range recent {
		fmt.Fprintf(&b, "%d. `%s` (%s)\n", i+1, filepath.Base(entry.ID), entry.Kind)
	}
	return b.String()
}

// markdownToHTML converts the Markdown report to HTML
func markdownToHTML(text string) string {
	// Create markdown parser with extensions
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)

	// Parse markdown
	doc := p.Parse([]byte(text))

	// Create HTML renderer
	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return string(markdown.Render(doc, renderer))
}
