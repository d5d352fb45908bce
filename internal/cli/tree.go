package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/chemlab/internal/core"
)

func newTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the seeded directory forest",
		Long: `Print every directory of the seed dataset, indented by depth, with its
id and file count. Expansion state is ignored: the whole forest is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := offlineService(cmd, opts, core.ServiceConfig{})
			if err != nil {
				return err
			}
			return printForest(cmd.OutOrStdout(), svc.Directories(), svc.FileCounts())
		},
	}
}

// printForest writes dirs depth first, children in insertion order.
func printForest(w io.Writer, dirs []core.Directory, counts map[core.DirectoryID]int) error {
	children := make(map[core.DirectoryID][]core.Directory)
	for _, d := range dirs {
		children[d.ParentID] = append(children[d.ParentID], d)
	}

	var walk func(parent core.DirectoryID, depth int) error
	walk = func(parent core.DirectoryID, depth int) error {
		for _, d := range children[parent] {
			if _, err := fmt.Fprintf(w, "%s%s [%d] (%d files)\n", strings.Repeat("  ", depth), d.Name, d.ID, counts[d.ID]); err != nil {
				return err
			}
			if err := walk(d.ID, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(core.RootParent, 0)
}
