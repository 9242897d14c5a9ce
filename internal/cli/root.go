// Package cli implements the statreport command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/stat-report-converter/internal/app"
	"github.com/insightdelivered/stat-report-converter/internal/config"
)

// rootOptions is shared by all subcommands. cfg and logger are set in the
// root PersistentPreRunE.
type rootOptions struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "statreport",
		Short: "Statistics report to ';' CSV converter",
		Long: `statreport converts the text dumps of statistics reports into
';'-delimited files for spreadsheet import.

Two report dialects are understood:
  simple    - a line containing a key opens a component,
              records are "label, value, frequency"
  sections  - "<key> ... frequency:" / "distribution:" headers open a
              component, records are "label: name = frequency"

Frequencies are written with a decimal comma.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newConvertCmd(opts),
		newServeCmd(opts),
		newInspectCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command tree until done or interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func (o *rootOptions) load(*cobra.Command, []string) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	o.cfg = cfg
	o.logger = app.NewLogger(cfg.Log)
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
