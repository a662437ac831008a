package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGroupsCmd creates the groups command
func NewGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List sticker groups in panel order",
		Long: `Reconcile the sticker directories with the store and list the groups in
the order the panel shows them.

New directories are registered, groups whose directory disappeared are
dropped, and orderings are re-sequenced before printing.`,
		RunE: runGroups,
	}
	cmd.Flags().BoolP("load", "l", false, "decode every group and show sticker counts")
	return cmd
}

func runGroups(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	load, _ := cmd.Flags().GetBool("load")

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	if load {
		e.catalog.LoadAll()
	}

	width := terminalWidth()
	for _, g := range e.catalog.Groups() {
		line := fmt.Sprintf("%3d  %-20s %-26s", g.Ordering, truncate(g.Name, 20), groupFlags(g))
		if load {
			line += fmt.Sprintf(" %4d", len(g.Icons))
		}
		if g.Category != 0 {
			line += fmt.Sprintf(" cat=%d", g.Category)
		}
		if !g.Pseudo() {
			line += "  " + truncate(g.ID, width-len([]rune(line))-2)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
