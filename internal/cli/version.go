package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/stat-report-converter/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "statreport %s\n", app.Version)
			fmt.Fprintf(out, "  Commit:     %s\n", app.Commit)
			fmt.Fprintf(out, "  Built:      %s\n", app.BuildTime)
			fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
