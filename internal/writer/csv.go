package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// Delimiter separates the fields of one record line.
const Delimiter = ";"

// CSVWriter writes a store as ';'-delimited text: the component name on its
// own line, one line per record, and a blank line after each component.
type CSVWriter struct {
	// IncludeSecondary emits "label;secondary;frequency" for groups that
	// carry a secondary field instead of "label;frequency".
	IncludeSecondary bool
}

// ForDialect returns the writer matching the dialect that produced a store.
// Only the sections dialect drops the secondary field. The empty dialect of
// a mixed merge keeps it, so simple components stay 3-field while section
// components, which have no secondary, fall back to 2 fields per row.
func ForDialect(d models.Dialect) *CSVWriter {
	return &CSVWriter{IncludeSecondary: d != models.DialectSections}
}

// WriteToFile writes the store to a file at the given path.
func (w *CSVWriter) WriteToFile(path string, store *models.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, store); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the store to out.
func (w *CSVWriter) Write(out io.Writer, store *models.Store) error {
	bw := bufio.NewWriter(out)

	for _, c := range store.Components {
		if err := writeLine(bw, c.Name); err != nil {
			return fmt.Errorf("failed to write component %q: %w", c.Name, err)
		}
		for _, g := range c.Groups {
			for i := range g.Labels {
				if err := writeLine(bw, w.row(g, i)); err != nil {
					return fmt.Errorf("failed to write record of %q: %w", c.Name, err)
				}
			}
		}
		if err := writeLine(bw, ""); err != nil {
			return fmt.Errorf("failed to write separator: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// Render returns the serialized store as a string.
func (w *CSVWriter) Render(store *models.Store) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = w.Write(&sb, store)
	return sb.String()
}

func (w *CSVWriter) row(g models.ValueGroup, i int) string {
	freq := ""
	if i < len(g.Frequencies) {
		freq = formatFrequency(g.Frequencies[i])
	}
	if w.IncludeSecondary && i < len(g.Secondary) {
		return g.Labels[i] + Delimiter + g.Secondary[i] + Delimiter + freq
	}
	return g.Labels[i] + Delimiter + freq
}

func writeLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// formatFrequency rewrites the decimal point to a decimal comma. The
// replacement is textual, so non-numeric values pass through unchanged
// apart from their dots.
func formatFrequency(s string) string {
	return strings.ReplaceAll(s, ".", ",")
}

// ForSecondary resolves a secondary-field mode for a store of dialect d:
// "always" and "never" force the choice, "auto" and "" defer to ForDialect.
func ForSecondary(mode string, d models.Dialect) (*CSVWriter, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return ForDialect(d), nil
	case "always":
		return &CSVWriter{IncludeSecondary: true}, nil
	case "never":
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown secondary mode %q (supported: auto, always, never)", mode)
	}
}
