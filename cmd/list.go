package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List embryo bundles reachable from the search path",
		RunE: func(_ *cobra.Command, _ []string) error {
			found := buildResolver().List()
			if len(found) == 0 {
				ui.Warn("no embryo bundles found on the search path")
				return nil
			}

			rows := make([][]string, 0, len(found))
			for _, desc := range found {
				rows = append(rows, []string{desc.Name, string(desc.Path)})
			}

			ui.Table([]string{"Embryo", "Path"}, rows)

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
