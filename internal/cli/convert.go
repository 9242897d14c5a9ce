package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/stat-report-converter/internal/config"
	"github.com/insightdelivered/stat-report-converter/internal/models"
	"github.com/insightdelivered/stat-report-converter/internal/parser"
	"github.com/insightdelivered/stat-report-converter/internal/pipeline"
	"github.com/insightdelivered/stat-report-converter/internal/writer"
)

type convertOptions struct {
	*rootOptions

	dialect     string
	keys        string
	output      string
	merge       bool
	format      string
	secondary   string
	trace       bool
	concurrency int
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "convert <report> [report ...]",
		Short: "Convert report dumps to ';' CSV",
		Long: `Parses each report (plain text or PDF) and writes the components found
in it. Without --output the result is written next to the input with a
.csv or .yaml extension, or into output.dir when configured.

Examples:
  # Auto-detect the dialect, keys from config.yaml
  statreport convert report.txt

  # Force the sections dialect with explicit keys
  statreport convert --dialect=sections --keys="Base Game,Free Spins" report.txt

  # Combine several reports into one file
  statreport convert --merge -o all.csv jan.txt feb.txt mar.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: opts.run,
	}

	f := cmd.Flags()
	f.StringVar(&opts.dialect, "dialect", "", "report dialect: auto, simple, sections (default from config)")
	f.StringVar(&opts.keys, "keys", "", "comma-separated section keys, replaces the configured keys")
	f.StringVarP(&opts.output, "output", "o", "", "output file, or output directory for several inputs")
	f.BoolVar(&opts.merge, "merge", false, "write all inputs into the single --output file")
	f.StringVar(&opts.format, "format", "", "output format: csv, yaml (default from config)")
	f.StringVar(&opts.secondary, "secondary", "", "secondary field: auto, always, never (default from config)")
	f.BoolVar(&opts.trace, "trace", false, "print what the parser did with every line")
	f.IntVar(&opts.concurrency, "concurrency", 0, "parallel file parses (default GOMAXPROCS)")
	return cmd
}

func (o *convertOptions) run(cmd *cobra.Command, args []string) error {
	cfg := o.cfg
	out := cmd.OutOrStdout()

	dialectName := firstNonEmpty(o.dialect, cfg.Parser.Dialect)
	dialect, err := parser.ParseDialect(dialectName)
	if err != nil {
		return err
	}
	keys := cfg.Parser.Keys
	if o.keys != "" {
		keys = config.ParseKeyList(o.keys)
	}
	if len(keys) == 0 {
		o.logger.Warn("no section keys configured; nothing will be extracted")
	}
	format := firstNonEmpty(o.format, cfg.Output.Format)
	secondary := firstNonEmpty(o.secondary, cfg.Output.Secondary)
	if o.merge && o.output == "" {
		return fmt.Errorf("--merge requires --output")
	}

	var paths []string
	if !o.merge {
		if paths, err = outputPaths(args, format, o.output, cfg.Output.Dir); err != nil {
			return err
		}
	}

	conv := &pipeline.Converter{
		Dialect:     dialect,
		Keys:        keys,
		Trace:       o.trace || cfg.Parser.Trace,
		Logger:      o.logger,
		Concurrency: o.concurrency,
	}
	reports, err := conv.ConvertFiles(cmd.Context(), args)
	if err != nil {
		return err
	}

	for i, report := range reports {
		printReport(out, report)
		if o.merge {
			continue
		}
		if err := writeStore(paths[i], format, secondary, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Output: %s\n", paths[i])
		fmt.Fprintln(out, "  Done.")
	}

	if o.merge {
		merged := pipeline.Merge(reports)
		if err := writeStore(o.output, format, secondary, merged); err != nil {
			return err
		}
		fmt.Fprintf(out, "Merged %d report(s): %d component(s), %d record(s)\n",
			len(reports), merged.Store.Len(), merged.Store.Records())
		fmt.Fprintf(out, "  Output: %s\n", o.output)
	}
	return nil
}

func printReport(out io.Writer, report *models.Report) {
	fmt.Fprintf(out, "Processing: %s\n", report.Source)
	fmt.Fprintf(out, "  Dialect: %s\n", report.Dialect)
	fmt.Fprintf(out, "  Found %d component(s), %d record(s)\n", report.Store.Len(), report.Store.Records())

	if report.Store.Len() == 0 {
		fmt.Fprintln(out, "  Warning: No components found. The report may not contain any of the configured keys.")
		fmt.Fprintln(out, "  Check --keys, or force the dialect with --dialect if auto-detection was used.")
	}

	for _, d := range report.DebugLines {
		fmt.Fprintf(out, "  %5d  %-22s %-28s %s\n", d.LineNum, d.Action, d.Component, d.Text)
	}
}

// outputPaths resolves the output file of every input. Two inputs that
// would share an output file are an error.
func outputPaths(inputs []string, format, output, dir string) ([]string, error) {
	paths := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, input := range inputs {
		path, err := outputPath(input, format, output, dir, len(inputs) > 1)
		if err != nil {
			return nil, err
		}
		key := filepath.Clean(path)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both be written to %s; convert them separately or use --merge", prev, input, path)
		}
		seen[key] = input
		paths[i] = path
	}
	return paths, nil
}

// outputPath decides where the result for input goes. An explicit output
// is the file for a single input and the directory for several.
func outputPath(input, format, output, dir string, multiple bool) (string, error) {
	if output != "" && !multiple {
		return output, nil
	}
	if output != "" {
		dir = output
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "." + format
	if dir == "" {
		return filepath.Join(filepath.Dir(input), base), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(dir, base), nil
}

func writeStore(path, format, secondary string, report *models.Report) error {
	switch format {
	case config.FormatYAML:
		return (&writer.YAMLWriter{}).WriteToFile(path, report.Store)
	case config.FormatCSV, "":
		w, err := writer.ForSecondary(secondary, report.Dialect)
		if err != nil {
			return err
		}
		return w.WriteToFile(path, report.Store)
	default:
		return fmt.Errorf("unknown output format %q (supported: csv, yaml)", format)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
