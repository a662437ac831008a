package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search sticker groups and keywords",
		Long: `Decode every group, then fuzzy match the query against group names and
sticker keywords. Best matches are listed first.`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}
	cmd.Flags().IntP("limit", "n", 10, "maximum matches to list")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	limit, _ := cmd.Flags().GetInt("limit")

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	e.catalog.LoadAll()
	matches := e.catalog.Search(args[0])
	if len(matches) == 0 {
		fmt.Fprintf(out, "No stickers match %q.\n", args[0])
		return nil
	}

	for i, m := range matches {
		if limit > 0 && i >= limit {
			fmt.Fprintf(out, "... and %d more\n", len(matches)-limit)
			break
		}
		if m.Icon == nil {
			fmt.Fprintf(out, "📁 %s\n", m.Group.Name)
			continue
		}
		fmt.Fprintf(out, "🏷️  %s / %s  %s\n", m.Group.Name, m.Text, m.Icon.Source)
	}
	return nil
}
