package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/stat-report-converter/internal/reader"
)

func newInspectCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.csv>",
		Short: "List the components of a converted file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := reader.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range store.Components {
				fmt.Fprintf(out, "%-40s %6d\n", c.Name, c.Records())
			}
			fmt.Fprintf(out, "%d component(s), %d record(s)\n", store.Len(), store.Records())
			return nil
		},
	}
}
